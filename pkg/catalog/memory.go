package catalog

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
)

// MemoryCatalog keeps graphs in memory. It is the default backend when no
// MongoDB connection is configured.
type MemoryCatalog struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryCatalog creates an empty in-memory catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{entries: make(map[string]*Entry)}
}

// Save stores a copy of file under name.
func (c *MemoryCatalog) Save(ctx context.Context, name string, file graph.File) error {
	if err := errors.ValidateGraphName(name); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	created := now
	if prev, ok := c.entries[name]; ok {
		created = prev.CreatedAt
	}
	c.entries[name] = &Entry{
		Name:      name,
		Graph:     cloneFile(file),
		CreatedAt: created,
		UpdatedAt: now,
	}
	return nil
}

// Get returns a copy of the stored entry.
func (c *MemoryCatalog) Get(ctx context.Context, name string) (*Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[name]
	if !ok {
		return nil, ErrNotFound
	}
	out := *entry
	out.Graph = cloneFile(entry.Graph)
	return &out, nil
}

// List returns summaries sorted by name.
func (c *MemoryCatalog) List(ctx context.Context) ([]Summary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summaries := make([]Summary, 0, len(c.entries))
	for _, entry := range c.entries {
		summaries = append(summaries, Summary{
			Name:      entry.Name,
			NodeCount: len(entry.Graph.Nodes),
			EdgeCount: len(entry.Graph.Edges),
			UpdatedAt: entry.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

// Delete removes a stored graph.
func (c *MemoryCatalog) Delete(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; !ok {
		return ErrNotFound
	}
	delete(c.entries, name)
	return nil
}

// Close does nothing for the in-memory catalog.
func (c *MemoryCatalog) Close(ctx context.Context) error { return nil }

// cloneFile copies the document deeply enough that callers and the catalog
// never share node, edge, or metadata storage.
func cloneFile(f graph.File) graph.File {
	out := f
	out.Nodes = make([]graph.Node, len(f.Nodes))
	for i, n := range f.Nodes {
		out.Nodes[i] = n
		if n.Meta != nil {
			out.Nodes[i].Meta = maps.Clone(n.Meta)
		}
	}
	out.Edges = append([]graph.Edge(nil), f.Edges...)
	if f.Meta != nil {
		out.Meta = maps.Clone(f.Meta)
	}
	return out
}

var _ Catalog = (*MemoryCatalog)(nil)
