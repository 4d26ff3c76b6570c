//go:build cgo

package main

import (
	"context"

	"github.com/dusk-indust/codetree/internal/artifact"
	"github.com/dusk-indust/codetree/internal/graph"
)

// openStore returns a KuzuDB-backed store when a database path is given,
// otherwise the in-memory store.
func openStore(dbPath string) (graph.Store, error) {
	if dbPath == "" {
		return graph.NewMemStore(), nil
	}
	return graph.NewKuzuFileStore(dbPath)
}

// persistGraph writes the artifact's files and edges to a KuzuDB directory
// so later invocations can query the graph without re-analyzing.
func persistGraph(ctx context.Context, dbPath string, art *artifact.Artifact) error {
	store, err := graph.NewKuzuFileStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		return err
	}
	return artifact.LoadStore(ctx, store, art)
}
