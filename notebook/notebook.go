// Package notebook holds the user/notes data model and the operations
// exposed to the web handlers and the CLI.
//
// Storage is behind the Store interface so the flat JSON file used for
// personal setups and the sqlite backend share the same call sites.
package notebook

import (
	"context"
	"errors"
	"time"
)

type (
	// User is a persisted identity plus its ordered note list.
	User struct {
		Username string `json:"username"`
		// Password holds the argon2id encoded hash, never the plaintext.
		Password string `json:"password"`
		Notes    []Note `json:"notes"`
	}

	// Note is a single text entry. ID is an opaque stable identifier,
	// order within User.Notes is the display order.
	Note struct {
		ID        string    `json:"id"`
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"created_at"`
	}

	// Store gives record-granular access to the user collection.
	//
	// Implementations serialize UpdateUser calls touching the same
	// username, so load-mutate-save cycles cannot drop each other's
	// writes.
	Store interface {
		// CreateUser adds u. Fails with ErrUserExists when the
		// username is already taken (case-sensitive match).
		CreateUser(ctx context.Context, u User) error
		// FindUser returns the user or ErrUserNotFound.
		FindUser(ctx context.Context, username string) (User, error)
		// UpdateUser applies fn to the stored record and persists the
		// result. fn returning an error aborts without writing.
		UpdateUser(ctx context.Context, username string, fn func(*User) error) error
		// ListUsers returns every user in storage order.
		ListUsers(ctx context.Context) ([]User, error)
		Close() error
	}
)

var (
	ErrUserExists         = errors.New("notebook: username already taken")
	ErrUserNotFound       = errors.New("notebook: user not found")
	ErrInvalidCredentials = errors.New("notebook: invalid username or password")
)
