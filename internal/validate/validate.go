package validate

import (
	"fmt"
	"strings"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

// Rule aliases domain.Rule; parsing produces the domain shape menus carry.
type Rule = domain.Rule

// Feedback is the outcome of checking a response against a rule set.
type Feedback struct {
	OK     bool
	Errors []string
}

// Check evaluates a response against rules in declaration order. Every
// failing rule contributes one message; a malformed rule (unknown name, bad
// parameter) is a configuration fault, not a user error, and is returned as
// err.
func Check(response string, rules []Rule) (Feedback, error) {
	fb := Feedback{OK: true}
	for _, rule := range rules {
		eval, ok := evaluators[rule.Name]
		if !ok {
			return Feedback{}, fmt.Errorf("unknown validation rule %q", rule.Name)
		}
		message, err := eval(response, rule.Param)
		if err != nil {
			return Feedback{}, err
		}
		if message == "" {
			continue
		}
		fb.OK = false
		if rule.Message != "" {
			fb.Errors = append(fb.Errors, rule.Message)
		} else {
			fb.Errors = append(fb.Errors, "This field "+message+".")
		}
	}
	return fb, nil
}

// Parse turns the raw YAML value of a validate key into rules. Accepted
// shapes:
//
//	"alpha|minLen:4"                      pipe-delimited rule string
//	{alpha: "custom error", "minLen:4": "too short"}   rules with messages
//	["alpha", {"minLen:4": "too short"}]  mixed list
func Parse(raw any) ([]Rule, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return parsePipe(v)
	case map[string]any:
		var rules []Rule
		for spec, msg := range v {
			rule, err := parseSpec(spec)
			if err != nil {
				return nil, err
			}
			if s, ok := msg.(string); ok {
				rule.Message = s
			}
			rules = append(rules, rule)
		}
		return rules, nil
	case []any:
		var rules []Rule
		for _, item := range v {
			parsed, err := Parse(item)
			if err != nil {
				return nil, err
			}
			rules = append(rules, parsed...)
		}
		return rules, nil
	default:
		return nil, fmt.Errorf("unsupported validate value of type %T", raw)
	}
}

func parsePipe(spec string) ([]Rule, error) {
	var rules []Rule
	for _, part := range strings.Split(spec, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rule, err := parseSpec(part)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseSpec(spec string) (Rule, error) {
	name, param, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if !KnownRule(name) {
		return Rule{}, fmt.Errorf("unknown validation rule %q (supported: %s)", name, strings.Join(RuleNames(), ", "))
	}
	return Rule{Name: name, Param: strings.TrimSpace(param)}, nil
}
