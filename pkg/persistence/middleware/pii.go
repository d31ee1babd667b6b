package middleware

import (
	"context"
	"regexp"

	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/ports"
)

const masked = "***"

type piiStore struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMasking builds a middleware that masks sensitive values before they
// reach the backend. Patterns match developer-namespace keys and menu names
// in the previous-responses log, so a menu called "enterPin" can be masked
// wholesale with a single `(?i)pin` pattern. The in-memory session the
// engine works with is never touched.
func NewPIIMasking(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiStore{next: next, patterns: patterns}
	}
}

func (m *piiStore) Save(ctx context.Context, msisdn string, state *domain.SessionState) error {
	cloned := *state
	cloned.Developer = deepCopyMap(state.Developer)
	cloned.PreviousResponses = copyResponses(state.PreviousResponses)

	maskMap(cloned.Developer, m.patterns)
	m.maskResponses(cloned.PreviousResponses)

	return m.next.Save(ctx, msisdn, &cloned)
}

func (m *piiStore) Load(ctx context.Context, msisdn string) (*domain.SessionState, error) {
	return m.next.Load(ctx, msisdn)
}

func (m *piiStore) Delete(ctx context.Context, msisdn string) error {
	return m.next.Delete(ctx, msisdn)
}

func (m *piiStore) Exists(ctx context.Context, msisdn string) (bool, error) {
	return m.next.Exists(ctx, msisdn)
}

func (m *piiStore) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *piiStore) maskResponses(responses map[string][]string) {
	for menu, log := range responses {
		if !m.matches(menu) {
			continue
		}
		for i := range log {
			log[i] = masked
		}
		responses[menu] = log
	}
}

func deepCopyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if sub, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(sub)
		} else {
			out[k] = v
		}
	}
	return out
}

func copyResponses(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for menu, log := range in {
		out[menu] = append([]string(nil), log...)
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = masked
				break
			}
		}
		if sub, ok := v.(map[string]any); ok {
			maskMap(sub, patterns)
		}
	}
}
