package io

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
	"github.com/matzehuels/forcefield/pkg/httputil"
)

// Read decodes a JSON graph document from r. Duplicate or empty node IDs
// fail with INVALID_GRAPH; edges referencing unknown nodes are skipped.
// Read does not close r.
func Read(r io.Reader) (*graph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read graph document")
	}
	return parse(data)
}

// Import loads a graph from a local file path or an http(s) URL. URL
// fetches go through client; a nil client fetches without caching.
func Import(ctx context.Context, src string, client *httputil.Client) (*graph.Graph, error) {
	data, err := fetch(ctx, src, client)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func fetch(ctx context.Context, src string, client *httputil.Client) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		if client == nil {
			client = &httputil.Client{}
		}
		return client.Get(ctx, src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", src)
	}
	return data, nil
}

func parse(data []byte) (*graph.Graph, error) {
	f, err := graph.UnmarshalFile(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse graph document")
	}
	g, skipped, err := graph.FromFile(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "build graph")
	}
	if skipped > 0 {
		log.Debug("skipped edges referencing unknown nodes", "count", skipped)
	}
	return g, nil
}
