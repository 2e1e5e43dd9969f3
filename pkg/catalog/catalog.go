// Package catalog stores named input graphs so they can be laid out and
// analyzed repeatedly without re-uploading.
//
// Two backends implement the Catalog interface:
//   - memory: mutex-guarded map for tests and single-user CLI sessions
//   - mongo: MongoDB collection with a unique name index for servers
//
// Saving under an existing name replaces the stored graph (upsert). The
// catalog holds input documents only. Layout output is delivered through
// jobs and never written back here.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/forcefield/pkg/graph"
)

// ErrNotFound is returned when no graph is stored under the requested name.
var ErrNotFound = errors.New("graph not found")

// Entry is a stored graph with its catalog bookkeeping.
type Entry struct {
	Name      string     `json:"name" bson:"name"`
	Graph     graph.File `json:"graph" bson:"graph"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// Summary describes a stored graph without its node and edge payload.
// List returns summaries so listing stays cheap for large catalogs.
type Summary struct {
	Name      string    `json:"name" bson:"name"`
	NodeCount int       `json:"node_count" bson:"node_count"`
	EdgeCount int       `json:"edge_count" bson:"edge_count"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Catalog is the interface for named graph storage backends.
type Catalog interface {
	// Save stores file under name, replacing any previous graph with
	// that name. CreatedAt is preserved across replacements.
	Save(ctx context.Context, name string, file graph.File) error

	// Get retrieves a stored graph by name.
	// Returns ErrNotFound when the name is unknown.
	Get(ctx context.Context, name string) (*Entry, error)

	// List returns summaries of all stored graphs, sorted by name.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a stored graph.
	// Returns ErrNotFound when the name is unknown.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
