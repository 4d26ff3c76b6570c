// Package artifact defines the JSON artifact produced by an analysis run and
// the helpers to persist, reload, and replay it into a graph store.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dusk-indust/codetree/internal/graph"
)

// FileRecord is the per-file entry of an artifact: detected language, a
// one-line summary, the symbol outline, and resolved dependency edges in
// both directions.
type FileRecord struct {
	Path         string         `json:"path"`
	Language     graph.Language `json:"language"`
	Summary      string         `json:"summary"`
	Symbols      []graph.Symbol `json:"symbols"`
	Dependencies []string       `json:"dependencies"`
	Dependents   []string       `json:"dependents"`
}

// Metadata carries run-level counts. Values are serialized as strings to
// match the artifact schema consumed by downstream tooling.
type Metadata struct {
	FileCount       string `json:"file_count"`
	DependencyEdges string `json:"dependency_edges"`
}

// Artifact is the complete output of one analysis run. It is
// self-contained: the dependency graph can be reloaded without re-parsing
// the source tree.
type Artifact struct {
	RootPath        string              `json:"root_path"`
	Files           []FileRecord        `json:"files"`
	DependencyGraph map[string][]string `json:"dependency_graph"`
	Metadata        Metadata            `json:"metadata"`
	Errors          []string            `json:"errors"`
}

// New assembles an artifact from per-file results and the built dependency
// graph. Files are ordered by path and all edge lists are already sorted by
// the graph builder, so the serialized form is deterministic.
func New(rootPath string, results []*graph.FileResult, dg *graph.DependencyGraph, warnings []string) *Artifact {
	files := make([]FileRecord, 0, len(results))
	for _, res := range results {
		files = append(files, FileRecord{
			Path:         res.Path,
			Language:     res.Language,
			Summary:      res.Summary,
			Symbols:      emptyIfNilSymbols(res.Symbols),
			Dependencies: emptyIfNil(dg.Adjacency[res.Path]),
			Dependents:   emptyIfNil(dg.Dependents[res.Path]),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	if warnings == nil {
		warnings = []string{}
	}
	return &Artifact{
		RootPath:        rootPath,
		Files:           files,
		DependencyGraph: dg.Adjacency,
		Metadata: Metadata{
			FileCount:       strconv.Itoa(len(files)),
			DependencyEdges: strconv.Itoa(dg.EdgeCount()),
		},
		Errors: warnings,
	}
}

// JSON lists are always emitted as [] rather than null so downstream
// readers never branch on absence.
func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func emptyIfNilSymbols(symbols []graph.Symbol) []graph.Symbol {
	if symbols == nil {
		return []graph.Symbol{}
	}
	return symbols
}

// WriteJSON writes the artifact to path as indented JSON, creating parent
// directories as needed.
func (a *Artifact) WriteJSON(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("artifact: create output directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", path, err)
	}
	return nil
}

// Load reads an artifact back from a JSON file.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: read %s: %w", path, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("artifact: parse %s: %w", path, err)
	}
	return &a, nil
}

// Edges flattens the dependency graph into a deterministic edge list.
func (a *Artifact) Edges() []graph.FileEdge {
	sources := make([]string, 0, len(a.DependencyGraph))
	for src := range a.DependencyGraph {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	var edges []graph.FileEdge
	for _, src := range sources {
		for _, dst := range a.DependencyGraph[src] {
			edges = append(edges, graph.FileEdge{Source: src, Target: dst})
		}
	}
	return edges
}

// File returns the record for the given repo-relative path, or nil when the
// artifact does not contain it. Lookup tolerates leading "./".
func (a *Artifact) File(path string) *FileRecord {
	path = strings.TrimPrefix(path, "./")
	for i := range a.Files {
		if a.Files[i].Path == path {
			return &a.Files[i]
		}
	}
	return nil
}

// LoadStore replays the artifact's files and edges into a graph store so
// that traversal queries can run against previously saved results.
func LoadStore(ctx context.Context, store graph.Store, a *Artifact) error {
	for _, f := range a.Files {
		if err := store.AddFile(ctx, f.Path, f.Language); err != nil {
			return fmt.Errorf("artifact: load file %s: %w", f.Path, err)
		}
	}
	for _, e := range a.Edges() {
		if err := store.AddEdge(ctx, e); err != nil {
			return fmt.Errorf("artifact: load edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}
	return nil
}
