package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejoice-framework/menuflow/pkg/domain"
)

func menuActions() *domain.Actions {
	acts := domain.NewActions()
	acts.Set(domain.Action{Trigger: "1", Display: "Check balance", Next: domain.NextMenu{Name: "balance"}})
	acts.Set(domain.Action{Trigger: "2", Display: "Send money", Next: domain.NextMenu{Name: "send"}})
	return acts
}

func TestRender_FitsUnchanged(t *testing.T) {
	r := New(DefaultConfig())

	res, err := r.Render([]string{"Welcome"}, menuActions(), domain.ChannelUSSD)
	require.NoError(t, err)
	assert.Equal(t, "Welcome\n1. Check balance\n2. Send money", res.Text)
	assert.Nil(t, res.Pagination)
}

func TestRender_ActionOrderPreserved(t *testing.T) {
	r := New(DefaultConfig())
	acts := domain.NewActions()
	acts.Set(domain.Action{Trigger: "9", Display: "Last declared first", Next: domain.NextMenu{Name: "a"}})
	acts.Set(domain.Action{Trigger: "1", Display: "Declared second", Next: domain.NextMenu{Name: "b"}})

	res, err := r.Render(nil, acts, domain.ChannelUSSD)
	require.NoError(t, err)
	assert.Equal(t, "9. Last declared first\n1. Declared second", res.Text)
}

func TestRender_UnboundedChannelNeverSplits(t *testing.T) {
	r := New(DefaultConfig())
	long := strings.Repeat("All work and no play makes a dull screen. ", 20)

	res, err := r.Render([]string{long}, domain.NewActions(), domain.ChannelWhatsApp)
	require.NoError(t, err)
	assert.Nil(t, res.Pagination)
	assert.Equal(t, long, res.Text)
}

func TestRender_SplitsOversizedMessage(t *testing.T) {
	r := New(DefaultConfig())
	cfg := r.Config()

	// 200 characters of line-broken text on a terminal menu.
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, "Statement line number "+string(rune('0'+i)))
	}
	message := []string{strings.Join(lines, "\n")}

	res, err := r.Render(message, domain.NewActions(), domain.ChannelUSSD)
	require.NoError(t, err)
	require.NotNil(t, res.Pagination)
	require.GreaterOrEqual(t, len(res.Pagination.Chunks), 2)

	first := res.Pagination.Chunks[0]
	last := res.Pagination.Chunks[len(res.Pagination.Chunks)-1]

	assert.Equal(t, first, res.Text)
	assert.True(t, strings.HasSuffix(first, cfg.NextLine()), "first chunk ends with the forward line")
	assert.True(t, strings.HasSuffix(last, cfg.BackLine()), "last chunk ends with the back line")
	assert.False(t, strings.Contains(last, cfg.NextLine()), "last chunk has no forward line")

	for i, chunk := range res.Pagination.Chunks {
		assert.LessOrEqual(t, len(chunk), cfg.MaxChars, "chunk %d exceeds the character budget", i)
		assert.LessOrEqual(t, len(strings.Split(chunk, "\n")), cfg.MaxLines, "chunk %d exceeds the line budget", i)
	}
}

func TestRender_SplitRespectsLineBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxChars = 1000 // only the line budget can overflow
	r := New(cfg)

	var message []string
	for i := 0; i < 15; i++ {
		message = append(message, "line")
	}

	res, err := r.Render(message, domain.NewActions(), domain.ChannelUSSD)
	require.NoError(t, err)
	require.NotNil(t, res.Pagination)
	for _, chunk := range res.Pagination.Chunks {
		assert.LessOrEqual(t, len(strings.Split(chunk, "\n")), cfg.MaxLines)
	}
}

func TestRender_MenuWithBackGetsBackOnFirstChunk(t *testing.T) {
	r := New(DefaultConfig())
	cfg := r.Config()

	acts := domain.NewActions()
	acts.Set(domain.Action{Trigger: "0", Display: "Back", Next: domain.NextMenu{Name: domain.MenuBack}})

	long := make([]string, 12)
	for i := range long {
		long[i] = "Row of the oversized screen " + string(rune('a'+i))
	}

	res, err := r.Render(long, acts, domain.ChannelUSSD)
	require.NoError(t, err)
	require.NotNil(t, res.Pagination)
	assert.True(t, res.Pagination.MenuHasBack)
	assert.True(t, strings.HasSuffix(res.Pagination.Chunks[0], cfg.BackLine()),
		"first chunk carries the back line when the menu defines its own back action")
}

func TestRender_AtomicLineTooBig(t *testing.T) {
	r := New(DefaultConfig())
	giant := strings.Repeat("x", 300)

	_, err := r.Render([]string{giant}, domain.NewActions(), domain.ChannelUSSD)
	var oversized *domain.OversizedContentError
	require.ErrorAs(t, err, &oversized)
	assert.Equal(t, giant, oversized.Text)

	cfg := r.Config()
	wantBudget := cfg.MaxChars - len(cfg.NextLine()) - len(cfg.BackLine()) - 2
	assert.Equal(t, wantBudget, oversized.Budget)
}

func TestRender_PaginationRoundTrip(t *testing.T) {
	r := New(DefaultConfig())

	long := make([]string, 14)
	for i := range long {
		long[i] = strings.Repeat("m", 30)
	}
	res, err := r.Render(long, domain.NewActions(), domain.ChannelUSSD)
	require.NoError(t, err)
	require.NotNil(t, res.Pagination)

	p := res.Pagination
	firstChunk := p.Current()
	steps := 0
	for !p.AtEnd() {
		_, err := p.Next()
		require.NoError(t, err)
		steps++
	}
	for !p.AtStart() {
		_, err := p.Back()
		require.NoError(t, err)
	}
	assert.Greater(t, steps, 0)
	assert.Equal(t, firstChunk, p.Current(), "walking forward then back returns to the original first chunk")
}

func TestRender_BudgetCountsRunesNotBytes(t *testing.T) {
	r := New(DefaultConfig())

	// 146 runes with separators, but far more bytes: the screen still
	// fits and must not split.
	line := strings.Repeat("é", 48)
	message := []string{line, line, line}

	res, err := r.Render(message, domain.NewActions(), domain.ChannelUSSD)
	require.NoError(t, err)
	assert.Nil(t, res.Pagination)
	assert.Equal(t, line+"\n"+line+"\n"+line, res.Text)
}

func TestRender_AtomicLineBudgetIsRunes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxChars = 30
	r := New(cfg)
	capChars := cfg.MaxChars - len(cfg.NextLine()) - len(cfg.BackLine()) - 2

	// At the cap in runes, over it in bytes: still accepted.
	fits := strings.Repeat("ë", capChars)
	filler := []string{"pay bills", "buy data", "check loans"}
	message := append([]string{fits}, filler...)
	res, err := r.Render(message, domain.NewActions(), domain.ChannelUSSD)
	require.NoError(t, err)
	require.NotNil(t, res.Pagination)

	// One rune past the cap is rejected, and the reported budget is in
	// characters.
	var oversized *domain.OversizedContentError
	message[0] = fits + "ë"
	_, err = r.Render(message, domain.NewActions(), domain.ChannelUSSD)
	require.ErrorAs(t, err, &oversized)
	assert.Equal(t, capChars, oversized.Budget)
}
