// Package session issues and resolves the opaque cookie tokens that prove
// a prior successful login.
//
// Tokens are random, carry no information, and live server-side in a
// TokenStore with a fixed time-to-live. There is no rotation and no
// sliding expiry: a token is valid from login until logout or TTL,
// whatever comes first. Nothing stops one user from holding several live
// tokens at once.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

const (
	// DefaultTTL matches the 1h cookie expiry of the original app.
	DefaultTTL = time.Hour

	tokenBytes = 32
)

type (
	// Entry is what a token maps to while it is alive.
	Entry struct {
		Username string    `json:"username"`
		Expires  time.Time `json:"expires"`
	}

	// TokenStore keeps the token table. Implementations are free to
	// evict entries early (process restart, cache pressure), callers
	// must treat a missing token as logged out.
	TokenStore interface {
		Save(ctx context.Context, token string, entry Entry) error
		Lookup(ctx context.Context, token string) (Entry, bool, error)
		Delete(ctx context.Context, token string) error
	}

	// Manager is the login/resolve/logout state machine used by the
	// handlers.
	Manager struct {
		tokens TokenStore
		ttl    time.Duration

		now func() time.Time
	}
)

func NewManager(tokens TokenStore, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{tokens: tokens, ttl: ttl, now: time.Now}
}

// Login issues a fresh token bound to username, valid for the fixed TTL.
func (m *Manager) Login(ctx context.Context, username string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	entry := Entry{Username: username, Expires: m.now().Add(m.ttl)}
	if err := m.tokens.Save(ctx, token, entry); err != nil {
		return "", fmt.Errorf("session: unable to save token, cause %w", err)
	}
	return token, nil
}

// Resolve maps a token back to its username. Unknown, evicted and expired
// tokens all come back as ("", false, nil): not knowing a token is the
// normal logged-out state, not an error.
func (m *Manager) Resolve(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	entry, found, err := m.tokens.Lookup(ctx, token)
	if err != nil {
		return "", false, fmt.Errorf("session: unable to lookup token, cause %w", err)
	}
	if !found {
		return "", false, nil
	}
	if !m.now().Before(entry.Expires) {
		// the backing cache may keep entries past their expiry,
		// the deadline in the entry is the one that counts
		m.tokens.Delete(ctx, token)
		return "", false, nil
	}
	return entry.Username, true, nil
}

// Logout drops the token unconditionally. Dropping a token that is
// already gone is not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.tokens.Delete(ctx, token); err != nil {
		return fmt.Errorf("session: unable to delete token, cause %w", err)
	}
	return nil
}

// TTL returns the fixed lifetime applied to new tokens.
func (m *Manager) TTL() time.Duration { return m.ttl }

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session: unable to generate token, cause %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
