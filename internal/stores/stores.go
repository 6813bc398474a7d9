// Package stores picks a notebook.Store implementation from the driver
// name given on the command line.
package stores

import (
	"context"
	"fmt"

	"github.com/andrebq/jot/notebook"
	"github.com/andrebq/jot/notebook/jsonfile"
	"github.com/andrebq/jot/notebook/sqlite"
)

// Open returns the store for driver ("jsonfile" or "sqlite") at path.
func Open(ctx context.Context, driver, path string) (notebook.Store, error) {
	switch driver {
	case "jsonfile":
		return jsonfile.Open(path), nil
	case "sqlite":
		return sqlite.Open(ctx, path)
	default:
		return nil, fmt.Errorf("stores: unknown driver %v", driver)
	}
}
