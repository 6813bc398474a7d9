package notebook_test

import (
	"context"
	"testing"

	"github.com/andrebq/jot/internal/testutil"
	"github.com/andrebq/jot/notebook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	notes, cleanup := testutil.AcquireNotebook(t)
	defer cleanup()

	require.NoError(t, notes.Register(ctx, "alice", "pw1"))
	err := notes.Register(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, notebook.ErrUserExists)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	notes, cleanup := testutil.AcquireNotebook(t)
	defer cleanup()

	require.NoError(t, notes.Register(ctx, "alice", "pw1"))

	assert.NoError(t, notes.Authenticate(ctx, "alice", "pw1"))

	// unknown user and wrong password must be indistinguishable
	err := notes.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, notebook.ErrInvalidCredentials)
	err = notes.Authenticate(ctx, "nobody", "pw1")
	assert.ErrorIs(t, err, notebook.ErrInvalidCredentials)
}

func TestNotesAreAppendedInOrder(t *testing.T) {
	ctx := context.Background()
	notes, cleanup := testutil.AcquireNotebook(t)
	defer cleanup()

	require.NoError(t, notes.Register(ctx, "alice", "pw1"))
	for _, text := range []string{"first", "second", ""} {
		require.NoError(t, notes.AddNote(ctx, "alice", text))
	}

	list, err := notes.Notes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Text)
	assert.Equal(t, "second", list[1].Text)
	assert.Equal(t, "", list[2].Text, "empty notes are accepted as-is")
	assert.NotEqual(t, list[0].ID, list[1].ID, "every note gets its own id")

	// a vanished user record reads as an empty list, not an error
	ghost, err := notes.Notes(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, ghost)
}

func TestRemoveNoteAt(t *testing.T) {
	ctx := context.Background()
	notes, cleanup := testutil.AcquireNotebook(t)
	defer cleanup()

	require.NoError(t, notes.Register(ctx, "alice", "pw1"))
	for _, text := range []string{"a", "b", "c"} {
		require.NoError(t, notes.AddNote(ctx, "alice", text))
	}

	removed, err := notes.RemoveNoteAt(ctx, "alice", 1)
	require.NoError(t, err)
	assert.True(t, removed)

	list, err := notes.Notes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Text)
	assert.Equal(t, "c", list[1].Text, "later notes shift left by one")

	for _, index := range []int{-1, 2, 100} {
		removed, err := notes.RemoveNoteAt(ctx, "alice", index)
		require.NoError(t, err)
		assert.False(t, removed, "index %v is out of range", index)
	}
	list, err = notes.Notes(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 2, "out of range indexes leave the list untouched")
}

func TestRemoveNoteByID(t *testing.T) {
	ctx := context.Background()
	notes, cleanup := testutil.AcquireNotebook(t)
	defer cleanup()

	require.NoError(t, notes.Register(ctx, "alice", "pw1"))
	require.NoError(t, notes.AddNote(ctx, "alice", "keep"))
	require.NoError(t, notes.AddNote(ctx, "alice", "drop"))

	list, err := notes.Notes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)

	removed, err := notes.RemoveNoteByID(ctx, "alice", list[1].ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = notes.RemoveNoteByID(ctx, "alice", "no-such-note")
	require.NoError(t, err)
	assert.False(t, removed)

	list, err = notes.Notes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "keep", list[0].Text)
}
