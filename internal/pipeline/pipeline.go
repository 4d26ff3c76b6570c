// Package pipeline runs the analysis stages end to end: file discovery,
// parallel symbol/import extraction, dependency resolution, and artifact
// assembly.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/codetree/internal/artifact"
	"github.com/dusk-indust/codetree/internal/config"
	"github.com/dusk-indust/codetree/internal/graph"
)

// Options configures a single analysis run.
type Options struct {
	// RootDir is the directory tree to analyze.
	RootDir string

	// Workers bounds extraction parallelism. Zero means GOMAXPROCS.
	Workers int

	// Config holds optional project-level settings; may be nil.
	Config *config.ProjectConfig

	// Reporter receives per-file progress events; may be nil.
	Reporter *ProgressReporter
}

// Run executes the full pipeline against opts.RootDir and returns the
// assembled artifact. Individual file failures become warnings on the
// artifact; only discovery-level failures abort the run.
func Run(ctx context.Context, opts Options) (*artifact.Artifact, error) {
	if err := ValidateRoot(opts.RootDir); err != nil {
		return nil, err
	}

	files, err := Discover(opts.RootDir, opts.Config)
	if err != nil {
		return nil, err
	}

	extractors := graph.NewExtractorSet()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Write-once arenas indexed by file position. Each goroutine owns
	// exactly one slot, so no locking is needed; the errgroup Wait is the
	// barrier before resolution reads them.
	results := make([]*graph.FileResult, len(files))
	warnings := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			opts.Reporter.Emit(ProgressEvent{Path: rel, Status: ProgressWorking})

			source, err := os.ReadFile(filepath.Join(opts.RootDir, filepath.FromSlash(rel)))
			if err != nil {
				warnings[i] = fmt.Sprintf("Could not read %s: %v", rel, err)
				opts.Reporter.Emit(ProgressEvent{Path: rel, Status: ProgressFailed, Message: err.Error()})
				return nil
			}
			source = bytes.ToValidUTF8(source, []byte("�"))

			results[i] = extractFile(extractors, rel, source)
			opts.Reporter.Emit(ProgressEvent{Path: rel, Status: ProgressComplete})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Unreadable files are excluded from the graph entirely; their slots
	// stay nil.
	kept := make([]*graph.FileResult, 0, len(results))
	var warn []string
	for i, res := range results {
		if res != nil {
			kept = append(kept, res)
		}
		if warnings[i] != "" {
			warn = append(warn, warnings[i])
		}
	}

	dg := graph.BuildGraph(opts.RootDir, kept)
	return artifact.New(opts.RootDir, kept, dg, warn), nil
}

// extractFile applies the registered extraction strategy for the file's
// language. Data and documentation formats have no strategy and fall through
// to the line-count summary with empty symbol and import lists.
func extractFile(extractors *graph.ExtractorSet, rel string, source []byte) *graph.FileResult {
	lang := graph.DetectLanguage(rel)
	res := &graph.FileResult{
		Path:     rel,
		Language: lang,
		Symbols:  []graph.Symbol{},
		Imports:  []string{},
	}

	if ext, ok := extractors.For(lang); ok {
		out := ext.Extract(rel, source)
		if out.Symbols != nil {
			res.Symbols = out.Symbols
		}
		if out.Imports != nil {
			res.Imports = out.Imports
		}
		res.Summary = out.Summary
	}
	if res.Summary == "" {
		res.Summary = lineCountSummary(source)
	}
	return res
}

// lineCountSummary is the universal fallback summary for formats without an
// extraction strategy.
func lineCountSummary(source []byte) string {
	count := 0
	for _, line := range strings.Split(string(source), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return fmt.Sprintf("%d non-empty lines", count)
}
