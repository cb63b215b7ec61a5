// Package identitytest provides a token table Provider for tests.
package identitytest

import (
	"context"
	"sync"

	"github.com/yungbote/pianostudio-backend/internal/platform/identity"
)

type Static struct {
	// Err, when set, is returned for every lookup.
	Err error

	mu     sync.Mutex
	tokens map[string]*identity.Identity
}

func NewStatic() *Static {
	return &Static{tokens: map[string]*identity.Identity{}}
}

func (s *Static) Add(token string, id *identity.Identity) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = id
	return s
}

func (s *Static) GetUser(_ context.Context, token string) (*identity.Identity, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	cp := *id
	return &cp, nil
}
