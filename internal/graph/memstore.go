package graph

import (
	"context"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu    sync.RWMutex
	files map[string]Language
	edges []FileEdge
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string]Language)}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// AddFile stores a file node keyed by its path.
func (m *MemStore) AddFile(_ context.Context, key string, lang Language) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = lang
	return nil
}

// AddEdge appends a dependency edge.
func (m *MemStore) AddEdge(_ context.Context, edge FileEdge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = append(m.edges, edge)
	return nil
}

// Dependencies returns the sorted targets key depends on.
func (m *MemStore) Dependencies(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedUnique(m.neighbors(key, DirectionUpstream)), nil
}

// Dependents returns the sorted files that depend on key.
func (m *MemStore) Dependents(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedUnique(m.neighbors(key, DirectionDownstream)), nil
}

// Neighborhood performs a BFS from key in the given direction, up to
// maxDepth hops, returning one DependencyChain per reachable node.
func (m *MemStore) Neighborhood(_ context.Context, key string, direction Direction, maxDepth int) ([]DependencyChain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if maxDepth <= 0 {
		return nil, nil
	}

	type bfsEntry struct {
		id   string
		path []string
	}

	visited := map[string]bool{key: true}
	queue := []bfsEntry{{id: key, path: []string{key}}}
	var chains []DependencyChain

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var nextQueue []bfsEntry
		for _, entry := range queue {
			for _, nb := range sortedUnique(m.neighbors(entry.id, direction)) {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				newPath := make([]string, len(entry.path), len(entry.path)+1)
				copy(newPath, entry.path)
				newPath = append(newPath, nb)
				chains = append(chains, DependencyChain{
					Nodes: newPath,
					Depth: len(newPath) - 1,
				})
				nextQueue = append(nextQueue, bfsEntry{id: nb, path: newPath})
			}
		}
		queue = nextQueue
	}

	return chains, nil
}

// neighbors returns keys reachable from id in one hop. Upstream follows
// edges out of id (its dependencies); downstream follows edges into id (its
// dependents). Callers must hold at least a read lock.
func (m *MemStore) neighbors(id string, direction Direction) []string {
	var result []string
	for _, e := range m.edges {
		switch direction {
		case DirectionUpstream:
			if e.Source == id {
				result = append(result, e.Target)
			}
		case DirectionDownstream:
			if e.Target == id {
				result = append(result, e.Source)
			}
		}
	}
	return result
}

// AssessImpact computes the blast radius of changing the given files: the
// files that import them directly, and the full downstream closure.
func (m *MemStore) AssessImpact(_ context.Context, changedFiles []string) (*ImpactResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	changedSet := make(map[string]bool, len(changedFiles))
	for _, f := range changedFiles {
		changedSet[f] = true
	}

	directSet := make(map[string]bool)
	for _, e := range m.edges {
		if changedSet[e.Target] && !changedSet[e.Source] {
			directSet[e.Source] = true
		}
	}

	allAffected := make(map[string]bool, len(directSet))
	frontier := make(map[string]bool, len(directSet))
	for k := range directSet {
		allAffected[k] = true
		frontier[k] = true
	}

	for len(frontier) > 0 {
		nextFrontier := make(map[string]bool)
		for _, e := range m.edges {
			if frontier[e.Target] && !changedSet[e.Source] && !allAffected[e.Source] {
				allAffected[e.Source] = true
				nextFrontier[e.Source] = true
			}
		}
		frontier = nextFrontier
	}

	var riskScore float64
	if len(m.files) > 0 {
		riskScore = float64(len(allAffected)) / float64(len(m.files))
	}

	return &ImpactResult{
		DirectlyAffected:     setToSlice(directSet),
		TransitivelyAffected: setToSlice(allAffected),
		RiskScore:            riskScore,
	}, nil
}

// AllEdges returns a copy of all edges in the store.
func (m *MemStore) AllEdges(_ context.Context) ([]FileEdge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FileEdge, len(m.edges))
	copy(out, m.edges)
	return out, nil
}

// Stats returns file and edge counts.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &GraphStats{FileCount: len(m.files), EdgeCount: len(m.edges)}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}

// setToSlice converts a string set to a sorted slice.
func setToSlice(s map[string]bool) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return sortedUnique(out)
}
