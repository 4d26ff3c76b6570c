//go:build !cgo

package main

import (
	"context"
	"fmt"

	"github.com/dusk-indust/codetree/internal/artifact"
	"github.com/dusk-indust/codetree/internal/graph"
)

func openStore(dbPath string) (graph.Store, error) {
	if dbPath != "" {
		return nil, fmt.Errorf("-graph-db requires a build with cgo enabled")
	}
	return graph.NewMemStore(), nil
}

func persistGraph(context.Context, string, *artifact.Artifact) error {
	return fmt.Errorf("-graph-db requires a build with cgo enabled")
}
