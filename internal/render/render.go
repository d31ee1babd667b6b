// Package render turns a resolved message and action set into the final
// screen text, enforcing the channel's content budget and splitting
// oversized screens into navigable chunks.
package render

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/rejoice-framework/menuflow/internal/logging"
	"github.com/rejoice-framework/menuflow/pkg/domain"
)

// Config carries the channel budget and the navigation lines injected into
// split screens.
type Config struct {
	MaxChars int `json:"max_chars"`
	MaxLines int `json:"max_lines"`

	NextTrigger string `json:"next_trigger"`
	NextDisplay string `json:"next_display"`
	BackTrigger string `json:"back_trigger"`
	BackDisplay string `json:"back_display"`
}

// DefaultConfig returns the USSD budget most gateways enforce.
func DefaultConfig() Config {
	return Config{
		MaxChars:    147,
		MaxLines:    10,
		NextTrigger: "00",
		NextDisplay: "More",
		BackTrigger: "0",
		BackDisplay: "Back",
	}
}

// NextLine returns the injected forward-navigation line.
func (c Config) NextLine() string { return c.NextTrigger + ". " + c.NextDisplay }

// BackLine returns the injected back-navigation line.
func (c Config) BackLine() string { return c.BackTrigger + ". " + c.BackDisplay }

// Renderer builds screen text. It is stateless and safe for concurrent use.
type Renderer struct {
	cfg    Config
	logger *slog.Logger
}

// Option configures the Renderer.
type Option func(*Renderer)

// WithLogger configures the renderer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// New creates a Renderer.
func New(cfg Config, opts ...Option) *Renderer {
	r := &Renderer{cfg: cfg, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config { return r.cfg }

// Result is a rendered screen. Pagination is nil when the content fit the
// budget in one piece; callers must clear any stale split state in that
// case.
type Result struct {
	Text       string
	Pagination *domain.PaginationState
}

// Render composes the screen from message lines and the enumerated actions,
// in declaration order, and splits it when the channel is bounded and the
// content overflows.
func (r *Renderer) Render(message []string, actions *domain.Actions, channel domain.Channel) (Result, error) {
	lines := composeLines(message, actions)
	text := strings.Join(lines, "\n")

	if !channel.Bounded() {
		return Result{Text: text}, nil
	}
	// The budget counts characters as the subscriber sees them, not bytes:
	// multibyte content must not eat the budget early.
	if utf8.RuneCountInString(text) <= r.cfg.MaxChars && len(lines) <= r.cfg.MaxLines {
		return Result{Text: text}, nil
	}

	pagination, err := r.split(lines, actions.HasBack())
	if err != nil {
		return Result{}, err
	}
	r.logger.Debug("screen split", "chunks", len(pagination.Chunks), "chars", utf8.RuneCountInString(text), "lines", len(lines))
	return Result{Text: pagination.Chunks[0], Pagination: pagination}, nil
}

func composeLines(message []string, actions *domain.Actions) []string {
	var lines []string
	for _, m := range message {
		// Message entries may themselves carry embedded newlines.
		lines = append(lines, strings.Split(m, "\n")...)
	}
	actions.Range(func(act *domain.Action) bool {
		lines = append(lines, act.Trigger+". "+act.Display)
		return true
	})
	return lines
}

// split packs lines into chunks, each leaving room for its navigation
// lines. Packing reserves the worst case (both navigation lines) so every
// chunk stays within budget whatever navigation it ends up carrying.
func (r *Renderer) split(lines []string, menuHasBack bool) (*domain.PaginationState, error) {
	navNext := r.cfg.NextLine()
	navBack := r.cfg.BackLine()

	// Room left for content once both navigation lines (and their
	// separators) are appended.
	capChars := r.cfg.MaxChars - utf8.RuneCountInString(navNext) - utf8.RuneCountInString(navBack) - 2
	capLines := r.cfg.MaxLines - 2
	if capChars < 1 || capLines < 1 {
		return nil, &domain.ConfigError{Detail: fmt.Sprintf("screen budget %d chars / %d lines leaves no room for content", r.cfg.MaxChars, r.cfg.MaxLines)}
	}

	var chunks [][]string
	var current []string
	currentLen := 0
	for _, line := range lines {
		lineLen := utf8.RuneCountInString(line)
		if lineLen > capChars {
			return nil, &domain.OversizedContentError{Text: line, Budget: capChars}
		}
		cost := lineLen
		if len(current) > 0 {
			cost++ // separator
		}
		if len(current) > 0 && (currentLen+cost > capChars || len(current)+1 > capLines) {
			chunks = append(chunks, current)
			current = nil
			currentLen = 0
			cost = lineLen
		}
		current = append(current, line)
		currentLen += cost
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}

	// Navigation injection: the first chunk points forward (plus back when
	// the menu brought its own back action), middle chunks point both
	// ways, the last chunk points back only, synthesized if needed.
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		switch {
		case i == 0:
			chunk = append(chunk, navNext)
			if menuHasBack {
				chunk = append(chunk, navBack)
			}
		case i == len(chunks)-1:
			chunk = append(chunk, navBack)
		default:
			chunk = append(chunk, navNext, navBack)
		}
		texts[i] = strings.Join(chunk, "\n")
	}

	return &domain.PaginationState{Chunks: texts, MenuHasBack: menuHasBack}, nil
}
