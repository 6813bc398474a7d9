package testutil

import (
	"os"
	"path/filepath"

	"github.com/andrebq/jot/notebook"
	"github.com/andrebq/jot/notebook/jsonfile"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireStore returns a jsonfile store on a throwaway directory plus the
// cleanup to remove it.
func AcquireStore(t TestLog) (*jsonfile.Store, func()) {
	dir, err := os.MkdirTemp("", "jot-tests")
	if err != nil {
		t.Fatal(err)
	}
	store := jsonfile.Open(filepath.Join(dir, "users.json"))
	return store, func() {
		if err := store.Close(); err != nil {
			t.Log("unable to close store", err)
		}
		if err := os.RemoveAll(dir); err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}

// AcquireNotebook wraps AcquireStore with the service layer most tests
// actually talk to.
func AcquireNotebook(t TestLog) (*notebook.Notebook, func()) {
	store, cleanup := AcquireStore(t)
	return notebook.New(store), cleanup
}
