package io

import (
	"io"

	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
)

// Write encodes g as a pretty-printed JSON document on w. Nodes are sorted
// by ID so repeated exports of the same graph are byte-identical.
func Write(g *graph.Graph, w io.Writer) error {
	data, err := graph.MarshalFile(g.Export())
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write graph")
	}
	return nil
}

// Export writes g's JSON document to a file at path.
func Export(g *graph.Graph, path string) error {
	if err := graph.WriteFile(g.Export(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "export %s", path)
	}
	return nil
}
