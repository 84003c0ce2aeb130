package client

import (
	"context"
	"encoding/json"
	"fmt"

	"creator_support/internal/domain"
)

// Storage keys of the persisted session
const (
	tokenKey = "token"
	userKey  = "user"
)

// Session is the signed-in state of a client: the bearer token and the user it belongs to
type Session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Authenticated reports whether the session carries a token
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

func saveSession(ctx context.Context, st Storage, s *Session) error {
	if err := st.Set(ctx, tokenKey, s.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if s.User == nil {
		return st.Delete(ctx, userKey)
	}
	b, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := st.Set(ctx, userKey, string(b)); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

// loadSession returns nil when nothing is stored
func loadSession(ctx context.Context, st Storage) (*Session, error) {
	token, ok, err := st.Get(ctx, tokenKey)
	if err != nil || !ok || token == "" {
		return nil, err
	}
	s := &Session{Token: token}
	raw, ok, err := st.Get(ctx, userKey)
	if err != nil {
		return nil, err
	}
	if ok && raw != "" {
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			s.User = &u
		}
	}
	return s, nil
}

func clearSession(ctx context.Context, st Storage) error {
	return st.Delete(ctx, tokenKey, userKey)
}
