package theme

import "strings"

// IdentityStore keeps sequential identities of value-less categories (box
// shadows) for a single run.
type IdentityStore struct {
	entries []identity
}

type identity struct {
	raw   string
	token Token
}

// NewIdentityStore returns empty store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{}
}

// Lookup returns token previously recorded for exactly the same (trimmed)
// raw value. When identity is requested under a different at-rule condition
// than it was recorded with it loses its scope.
func (s *IdentityStore) Lookup(raw, kind, params string) (Token, bool) {
	raw = strings.TrimSpace(raw)
	cond := Token{AtRuleKind: kind, AtRuleParams: params}.Condition()
	for i, e := range s.entries {
		if e.raw != raw {
			continue
		}
		if e.token.Condition() != cond {
			s.entries[i].token.unscope()
		}
		return s.entries[i].token, true
	}
	return Token{}, false
}

// Next returns sequential index the next recorded identity gets.
func (s *IdentityStore) Next() int {
	return len(s.entries) + 1
}

// Record remembers token for raw value.
func (s *IdentityStore) Record(raw string, t Token) {
	s.entries = append(s.entries, identity{raw: strings.TrimSpace(raw), token: t})
}

// Len returns number of recorded identities.
func (s *IdentityStore) Len() int {
	return len(s.entries)
}
