// Package jsonfile persists the whole user collection as a single JSON
// array on disk.
//
// Every operation is a full read-modify-write of the document, guarded by
// one mutex. That removes the lost-update race between concurrent requests
// at the cost of serializing all writers, which is fine for the
// single-process personal setups this backend targets.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/andrebq/jot/notebook"
)

type (
	Store struct {
		mu   sync.Mutex
		path string
	}
)

// Open returns a store backed by the JSON document at path. The file is
// not created until the first write; a missing file reads as an empty
// collection so a fresh install works without a seed step.
func Open(path string) *Store {
	return &Store{path: path}
}

func (s *Store) CreateUser(ctx context.Context, u notebook.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return err
	}
	for _, other := range users {
		if other.Username == u.Username {
			return notebook.ErrUserExists
		}
	}
	if u.Notes == nil {
		u.Notes = []notebook.Note{}
	}
	return s.save(append(users, u))
}

func (s *Store) FindUser(ctx context.Context, username string) (notebook.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return notebook.User{}, err
	}
	for _, u := range users {
		if u.Username == username {
			return u, nil
		}
	}
	return notebook.User{}, notebook.ErrUserNotFound
}

func (s *Store) UpdateUser(ctx context.Context, username string, fn func(*notebook.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Username != username {
			continue
		}
		if err := fn(&users[i]); err != nil {
			return err
		}
		return s.save(users)
	}
	return notebook.ErrUserNotFound
}

func (s *Store) ListUsers(ctx context.Context) ([]notebook.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) Close() error { return nil }

// load reads the whole document. A missing file is an empty collection,
// anything else that fails (unreadable file, malformed JSON) is an error
// instead of silently dropping every account.
func (s *Store) load() ([]notebook.User, error) {
	buf, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("jsonfile: unable to read %v, cause %w", s.path, err)
	}
	var users []notebook.User
	if err := json.Unmarshal(buf, &users); err != nil {
		return nil, fmt.Errorf("jsonfile: unable to decode %v, cause %w", s.path, err)
	}
	return users, nil
}

// save rewrites the whole document via a temp file in the same directory
// so a crash mid-write cannot leave a truncated collection behind.
func (s *Store) save(users []notebook.User) error {
	buf, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: unable to encode user list, cause %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".jot-*.json")
	if err != nil {
		return fmt.Errorf("jsonfile: unable to create temp file in %v, cause %w", dir, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonfile: unable to write %v, cause %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile: unable to flush %v, cause %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("jsonfile: unable to replace %v, cause %w", s.path, err)
	}
	return nil
}
