// Package mcptools exposes the analysis pipeline and dependency graph as
// MCP tools over streamable HTTP.
package mcptools

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/codetree/internal/artifact"
	"github.com/dusk-indust/codetree/internal/config"
	"github.com/dusk-indust/codetree/internal/graph"
	"github.com/dusk-indust/codetree/internal/pipeline"
)

// Service holds the graph store and the most recent artifact used by the MCP
// tool handlers. analyze_repo replaces both; the query tools read them.
type Service struct {
	mu    sync.RWMutex
	store graph.Store
	art   *artifact.Artifact
}

// NewService creates a Service backed by store. An initial artifact may be
// preloaded; pass nil to start empty.
func NewService(store graph.Store, art *artifact.Artifact) *Service {
	return &Service{store: store, art: art}
}

// AnalyzeRepo runs the full pipeline against a source tree and loads the
// resulting graph into the store.
func (s *Service) AnalyzeRepo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeRepoInput,
) (*mcp.CallToolResult, AnalyzeRepoOutput, error) {
	if input.RootPath == "" {
		return nil, AnalyzeRepoOutput{}, fmt.Errorf("rootPath is required")
	}

	var cfg *config.ProjectConfig
	if len(input.ExcludeDirs) > 0 {
		cfg = &config.ProjectConfig{ExcludeDirs: input.ExcludeDirs}
	}

	art, err := pipeline.Run(ctx, pipeline.Options{
		RootDir: input.RootPath,
		Workers: input.Workers,
		Config:  cfg,
	})
	if err != nil {
		return nil, AnalyzeRepoOutput{}, fmt.Errorf("analyze: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.InitSchema(ctx); err != nil {
		return nil, AnalyzeRepoOutput{}, fmt.Errorf("init schema: %w", err)
	}
	if err := artifact.LoadStore(ctx, s.store, art); err != nil {
		return nil, AnalyzeRepoOutput{}, fmt.Errorf("load store: %w", err)
	}
	s.art = art

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, AnalyzeRepoOutput{}, fmt.Errorf("stats: %w", err)
	}
	return nil, AnalyzeRepoOutput{Stats: *stats, Warnings: art.Errors}, nil
}

// GetFile returns the analyzed record for one file.
func (s *Service) GetFile(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetFileInput,
) (*mcp.CallToolResult, GetFileOutput, error) {
	if input.Path == "" {
		return nil, GetFileOutput{}, fmt.Errorf("path is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.art == nil {
		return nil, GetFileOutput{}, fmt.Errorf("no analysis loaded; run analyze_repo first")
	}
	rec := s.art.File(input.Path)
	if rec == nil {
		return nil, GetFileOutput{}, fmt.Errorf("file not found: %s", input.Path)
	}
	return nil, GetFileOutput{
		Path:         rec.Path,
		Language:     string(rec.Language),
		Summary:      rec.Summary,
		Symbols:      flattenSymbols(rec.Symbols, ""),
		Dependencies: rec.Dependencies,
		Dependents:   rec.Dependents,
	}, nil
}

// flattenSymbols converts a nested symbol outline into the flat entry list
// of the get_file tool, preserving document order.
func flattenSymbols(symbols []graph.Symbol, parent string) []SymbolEntry {
	entries := make([]SymbolEntry, 0, len(symbols))
	for _, sym := range symbols {
		entries = append(entries, SymbolEntry{
			Name:   sym.Name,
			Kind:   string(sym.Kind),
			Line:   sym.Line,
			Doc:    sym.Doc,
			Parent: parent,
		})
		entries = append(entries, flattenSymbols(sym.Children, sym.Name)...)
	}
	return entries
}

// GetDependencies traverses the dependency graph from a file.
func (s *Service) GetDependencies(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDependenciesInput,
) (*mcp.CallToolResult, GetDependenciesOutput, error) {
	if input.Path == "" {
		return nil, GetDependenciesOutput{}, fmt.Errorf("path is required")
	}

	direction := graph.DirectionDownstream
	switch input.Direction {
	case "", string(graph.DirectionDownstream):
	case string(graph.DirectionUpstream):
		direction = graph.DirectionUpstream
	default:
		return nil, GetDependenciesOutput{}, fmt.Errorf("invalid direction: %s", input.Direction)
	}

	maxDepth := input.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	chains, err := s.store.Neighborhood(ctx, input.Path, direction, maxDepth)
	if err != nil {
		return nil, GetDependenciesOutput{}, fmt.Errorf("neighborhood: %w", err)
	}
	return nil, GetDependenciesOutput{Chains: chains}, nil
}

// AssessImpact computes the blast radius of modifying a set of files.
func (s *Service) AssessImpact(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AssessImpactInput,
) (*mcp.CallToolResult, AssessImpactOutput, error) {
	if len(input.ChangedFiles) == 0 {
		return nil, AssessImpactOutput{}, fmt.Errorf("changedFiles is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	impact, err := s.store.AssessImpact(ctx, input.ChangedFiles)
	if err != nil {
		return nil, AssessImpactOutput{}, fmt.Errorf("assess impact: %w", err)
	}
	return nil, AssessImpactOutput{Impact: *impact}, nil
}
