package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		response string
		rules    []Rule
		ok       bool
	}{
		{"alpha pass", "Amy", []Rule{{Name: "alpha"}}, true},
		{"alpha fail", "Amy1", []Rule{{Name: "alpha"}}, false},
		{"numeric pass", "1234", []Rule{{Name: "numeric"}}, true},
		{"numeric fail", "12a4", []Rule{{Name: "numeric"}}, false},
		{"integer fail", "1.5", []Rule{{Name: "integer"}}, false},
		{"float pass", "1.5", []Rule{{Name: "float"}}, true},
		{"min pass", "25", []Rule{{Name: "min", Param: "18"}}, true},
		{"min fail", "12", []Rule{{Name: "min", Param: "18"}}, false},
		{"max fail", "120", []Rule{{Name: "max", Param: "99"}}, false},
		{"minLen fail", "abc", []Rule{{Name: "minLen", Param: "4"}}, false},
		{"maxLen pass", "abc", []Rule{{Name: "maxLen", Param: "4"}}, true},
		{"regex pass", "AB-12", []Rule{{Name: "regex", Param: `^[A-Z]{2}-\d{2}$`}}, true},
		{"regex fail", "ab12", []Rule{{Name: "regex", Param: `^[A-Z]{2}-\d{2}$`}}, false},
		{"tel pass", "+233541234567", []Rule{{Name: "tel"}}, true},
		{"tel fail", "12ab", []Rule{{Name: "tel"}}, false},
		{"combined", "Kofi", []Rule{{Name: "alpha"}, {Name: "minLen", Param: "4"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := Check(tt.response, tt.rules)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, fb.OK)
			if !tt.ok {
				assert.NotEmpty(t, fb.Errors)
			}
		})
	}
}

func TestCheck_CustomMessage(t *testing.T) {
	fb, err := Check("x", []Rule{{Name: "minLen", Param: "4", Message: "Name is too short."}})
	require.NoError(t, err)
	require.False(t, fb.OK)
	assert.Equal(t, []string{"Name is too short."}, fb.Errors)
}

func TestCheck_MalformedRuleIsConfigFault(t *testing.T) {
	_, err := Check("x", []Rule{{Name: "minLen", Param: "four"}})
	assert.Error(t, err)

	_, err = Check("x", []Rule{{Name: "doesNotExist"}})
	assert.Error(t, err)
}

func TestParse_PipeString(t *testing.T) {
	rules, err := Parse("alpha|minLen:4")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, Rule{Name: "alpha"}, rules[0])
	assert.Equal(t, Rule{Name: "minLen", Param: "4"}, rules[1])
}

func TestParse_MapWithMessages(t *testing.T) {
	rules, err := Parse(map[string]any{
		"alpha":    "Letters only, please.",
		"minLen:4": "Too short.",
	})
	require.NoError(t, err)
	require.Len(t, rules, 2)

	byName := map[string]Rule{}
	for _, r := range rules {
		byName[r.Name] = r
	}
	assert.Equal(t, "Letters only, please.", byName["alpha"].Message)
	assert.Equal(t, "4", byName["minLen"].Param)
	assert.Equal(t, "Too short.", byName["minLen"].Message)
}

func TestParse_MixedList(t *testing.T) {
	rules, err := Parse([]any{"numeric", map[string]any{"max:99": "Too big."}})
	require.NoError(t, err)
	require.Len(t, rules, 2)
}

func TestParse_Unknown(t *testing.T) {
	_, err := Parse("levitates")
	assert.Error(t, err)

	_, err = Parse(42)
	assert.Error(t, err)
}
