package domain

// PaginationState is the persisted split-screen state. Each chunk already
// carries its injected navigation lines, so resuming is a pure index walk.
type PaginationState struct {
	Chunks []string `json:"chunks"`
	Index  int      `json:"index"`

	// MenuHasBack records whether the split menu defined its own back
	// action, which changes the navigation injected on the first chunk.
	MenuHasBack bool `json:"menu_has_back,omitempty"`
}

// AtStart reports whether the first chunk is active.
func (p *PaginationState) AtStart() bool { return p.Index <= 0 }

// AtEnd reports whether the last chunk is active.
func (p *PaginationState) AtEnd() bool { return p.Index >= len(p.Chunks)-1 }

// Next advances to the following chunk and returns it. Advancing past the
// last chunk means the replayed session no longer matches what was rendered,
// which is an internal fault.
func (p *PaginationState) Next() (string, error) {
	if p.AtEnd() {
		return "", &PaginationStateError{Index: p.Index + 1, Chunks: len(p.Chunks)}
	}
	p.Index++
	return p.Chunks[p.Index], nil
}

// Back rewinds to the preceding chunk and returns it.
func (p *PaginationState) Back() (string, error) {
	if p.AtStart() {
		return "", &PaginationStateError{Index: p.Index - 1, Chunks: len(p.Chunks)}
	}
	p.Index--
	return p.Chunks[p.Index], nil
}

// Current returns the active chunk.
func (p *PaginationState) Current() string {
	if p.Index < 0 || p.Index >= len(p.Chunks) {
		return ""
	}
	return p.Chunks[p.Index]
}
