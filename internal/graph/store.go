package graph

import (
	"context"
	"io"
)

// Store is the query backend for a loaded dependency graph. Implementations:
// MemStore (default, in-memory) and KuzuStore (persistent, requires CGO).
// Collaborators load a finished artifact into a Store; the analysis pipeline
// itself never depends on one.
type Store interface {
	io.Closer

	// InitSchema is called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// Write operations.
	AddFile(ctx context.Context, key string, lang Language) error
	AddEdge(ctx context.Context, edge FileEdge) error

	// Read operations.
	Dependencies(ctx context.Context, key string) ([]string, error)
	Dependents(ctx context.Context, key string) ([]string, error)
	Neighborhood(ctx context.Context, key string, direction Direction, maxDepth int) ([]DependencyChain, error)
	AssessImpact(ctx context.Context, changedFiles []string) (*ImpactResult, error)
	AllEdges(ctx context.Context) ([]FileEdge, error)
	Stats(ctx context.Context) (*GraphStats, error)
}

// Direction controls dependency traversal direction.
type Direction string

const (
	DirectionUpstream   Direction = "upstream"   // what does this depend on?
	DirectionDownstream Direction = "downstream" // what depends on this?
)
