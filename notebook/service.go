package notebook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrebq/jot/internal/passwd"
	"github.com/google/uuid"
)

type (
	// Notebook wires the store to password hashing and implements the
	// account and note operations the handlers call.
	Notebook struct {
		store Store
	}
)

func New(store Store) *Notebook {
	return &Notebook{store: store}
}

// Register creates a new account with an empty note list.
//
// The password is hashed before it ever reaches the store. No username
// format or password strength rules are applied.
func (n *Notebook) Register(ctx context.Context, username, password string) error {
	hash, err := passwd.Hash(password)
	if err != nil {
		return fmt.Errorf("notebook: unable to hash password, cause %w", err)
	}
	return n.store.CreateUser(ctx, User{
		Username: username,
		Password: hash,
		Notes:    []Note{},
	})
}

// Authenticate checks username/password and returns ErrInvalidCredentials
// for both an unknown user and a wrong password, so a caller cannot tell
// which one failed.
func (n *Notebook) Authenticate(ctx context.Context, username, password string) error {
	u, err := n.store.FindUser(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return ErrInvalidCredentials
	} else if err != nil {
		return err
	}
	ok, err := passwd.Verify(password, u.Password)
	if err != nil {
		return fmt.Errorf("notebook: unable to verify password for %v, cause %w", username, err)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	return nil
}

// Notes returns the user's notes in display order. A missing user record
// yields an empty list rather than an error, matching what the profile
// page shows when storage lost the record.
func (n *Notebook) Notes(ctx context.Context, username string) ([]Note, error) {
	u, err := n.store.FindUser(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return u.Notes, nil
}

// AddNote appends text to the user's note list. Empty text is accepted.
func (n *Notebook) AddNote(ctx context.Context, username, text string) error {
	return n.store.UpdateUser(ctx, username, func(u *User) error {
		u.Notes = append(u.Notes, Note{
			ID:        uuid.NewString(),
			Text:      text,
			CreatedAt: time.Now().UTC(),
		})
		return nil
	})
}

// RemoveNoteByID deletes the note with the given id and reports whether
// anything was removed. Unknown ids leave the list untouched.
func (n *Notebook) RemoveNoteByID(ctx context.Context, username, id string) (bool, error) {
	removed := false
	err := n.store.UpdateUser(ctx, username, func(u *User) error {
		for i, note := range u.Notes {
			if note.ID == id {
				u.Notes = append(u.Notes[:i], u.Notes[i+1:]...)
				removed = true
				break
			}
		}
		return nil
	})
	return removed, err
}

// RemoveNoteAt deletes the note at the given position and reports whether
// anything was removed. Out of range indexes (negative included) leave
// the list untouched.
func (n *Notebook) RemoveNoteAt(ctx context.Context, username string, index int) (bool, error) {
	removed := false
	err := n.store.UpdateUser(ctx, username, func(u *User) error {
		if index < 0 || index >= len(u.Notes) {
			return nil
		}
		u.Notes = append(u.Notes[:index], u.Notes[index+1:]...)
		removed = true
		return nil
	})
	return removed, err
}
