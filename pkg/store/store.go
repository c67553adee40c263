// Package store keeps named diagram documents for the HTTP API.
//
// A store holds raw interchange bytes and knows nothing about their
// meaning: callers validate on the way in and parse on the way out (see
// pkg/io). Three backends are provided:
//
//   - [MemoryStore] for tests and single-process servers
//   - [FileStore] for a local server, one JSON file per diagram
//   - [MongoStore] for shared deployments
//
// Names are checked with [errors.ValidateDiagramName] by every backend, so
// a name can never escape a directory or collide with an index key.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/canvaskit/pkg/errors"
)

// Info describes one stored document.
type Info struct {
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the interface for document storage backends.
type Store interface {
	// Put stores data under name, replacing any previous document.
	Put(ctx context.Context, name string, data []byte) error

	// Get returns the document stored under name. A missing document is a
	// DIAGRAM_NOT_FOUND error.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes a document. A missing document is a DIAGRAM_NOT_FOUND
	// error.
	Delete(ctx context.Context, name string) error

	// List describes every stored document, sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Close releases the backend's resources.
	Close() error
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeDiagramNotFound, "diagram %q not found", name)
}
