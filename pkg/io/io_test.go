package io

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
)

const sampleDoc = `{
  "nodes": [
    {"id": "api"},
    {"id": "db", "x": 120, "y": -40, "size": 14}
  ],
  "edges": [
    {"source": "api", "target": "db", "kind": "dependency"}
  ]
}`

func TestReadDocument(t *testing.T) {
	g, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("graph = %d nodes, %d edges, want 2/1", g.NodeCount(), g.EdgeCount())
	}
	db, ok := g.Node("db")
	if !ok {
		t.Fatal("node db missing")
	}
	if db.X != 120 || db.Y != -40 || db.Size != 14 {
		t.Errorf("db = (%v, %v, size %v), want (120, -40, 14)", db.X, db.Y, db.Size)
	}
}

func TestReadSkipsDanglingEdges(t *testing.T) {
	doc := `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"ghost"}]}`
	g, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0 (dangling edge skipped)", g.EdgeCount())
	}
}

func TestReadRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"malformed json", `{"nodes":`, errors.ErrCodeInvalidFormat},
		{"missing nodes array", `{"edges":[]}`, errors.ErrCodeInvalidFormat},
		{"duplicate node id", `{"nodes":[{"id":"a"},{"id":"a"}]}`, errors.ErrCodeInvalidGraph},
		{"empty node id", `{"nodes":[{"id":""}]}`, errors.ErrCodeInvalidGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	g, err := Import(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(context.Background(), filepath.Join(t.TempDir(), "nope.json"), nil)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestImportURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	g, err := Import(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
}

func TestExportRoundTrip(t *testing.T) {
	g, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := Export(g, path); err != nil {
		t.Fatalf("Export: %v", err)
	}
	back, err := Import(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("re-Import: %v", err)
	}

	if back.NodeCount() != g.NodeCount() || back.EdgeCount() != g.EdgeCount() {
		t.Errorf("round trip = %d/%d, want %d/%d",
			back.NodeCount(), back.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}
	db, _ := back.Node("db")
	if db == nil || db.X != 120 || db.Y != -40 {
		t.Errorf("db position lost in round trip: %+v", db)
	}
}

func TestWriteDeterministic(t *testing.T) {
	g := graph.New(nil)
	for _, id := range []string{"zeta", "alpha", "mid"} {
		if err := g.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}

	var first, second bytes.Buffer
	if err := Write(g, &first); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(g, &second); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("repeated Write produced different bytes")
	}
	if !strings.Contains(first.String(), `"alpha"`) {
		t.Errorf("document missing node: %s", first.String())
	}
}
