package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/andrebq/jot/notebook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	return Open(filepath.Join(t.TempDir(), "users.json"))
}

func TestMissingFileReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = store.FindUser(ctx, "alice")
	assert.ErrorIs(t, err, notebook.ErrUserNotFound)
}

func TestMalformedFileIsAnError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"`), 0644))
	store := Open(path)

	_, err := store.ListUsers(ctx)
	assert.Error(t, err, "corrupt storage must not read as an empty collection")
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)

	require.NoError(t, store.CreateUser(ctx, notebook.User{Username: "alice", Password: "hash-1"}))
	err := store.CreateUser(ctx, notebook.User{Username: "alice", Password: "hash-2"})
	assert.ErrorIs(t, err, notebook.ErrUserExists)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1, "second signup must not create a second record")
	assert.Equal(t, "hash-1", users[0].Password)

	// exact, case-sensitive match: Alice is someone else
	require.NoError(t, store.CreateUser(ctx, notebook.User{Username: "Alice", Password: "hash-3"}))
}

func TestUpdateUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	store := Open(path)

	require.NoError(t, store.CreateUser(ctx, notebook.User{Username: "alice"}))
	require.NoError(t, store.UpdateUser(ctx, "alice", func(u *notebook.User) error {
		u.Notes = append(u.Notes, notebook.Note{ID: "n1", Text: "hello"})
		return nil
	}))

	err := store.UpdateUser(ctx, "bob", func(*notebook.User) error { return nil })
	assert.ErrorIs(t, err, notebook.ErrUserNotFound)

	// a fresh store on the same file sees the persisted state
	reopened := Open(path)
	u, err := reopened.FindUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, u.Notes, 1)
	assert.Equal(t, "hello", u.Notes[0].Text)
}

func TestUpdateUserAbortsWithoutWriting(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)
	require.NoError(t, store.CreateUser(ctx, notebook.User{Username: "alice"}))

	boom := fmt.Errorf("boom")
	err := store.UpdateUser(ctx, "alice", func(u *notebook.User) error {
		u.Notes = append(u.Notes, notebook.Note{ID: "n1", Text: "discarded"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	u, err := store.FindUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, u.Notes)
}

func TestConcurrentUpdatesLoseNothing(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)
	require.NoError(t, store.CreateUser(ctx, notebook.User{Username: "alice"}))

	const writers = 16
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			err := store.UpdateUser(ctx, "alice", func(u *notebook.User) error {
				u.Notes = append(u.Notes, notebook.Note{ID: fmt.Sprintf("n%v", i)})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	u, err := store.FindUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, u.Notes, writers, "read-modify-write cycles must be serialized")
}
