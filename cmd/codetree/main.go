package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/codetree/internal/artifact"
	"github.com/dusk-indust/codetree/internal/config"
	"github.com/dusk-indust/codetree/internal/export"
	"github.com/dusk-indust/codetree/internal/mcptools"
	"github.com/dusk-indust/codetree/internal/pipeline"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Root      string
	Output    string
	ConfigDir string
	Workers   int
	Verbose   bool
	Version   bool
	ServeMCP  bool
	MCPAddr   string
	Diagram   bool
	Focus     string
	GraphDB   string
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("codetree", flag.ContinueOnError)
	fs.StringVar(&flags.Root, "root", ".", "path to the source tree to analyze")
	fs.StringVar(&flags.Output, "output", "artifacts/code_tree.json", "output path for the analysis artifact")
	fs.StringVar(&flags.ConfigDir, "config", "", "directory containing codetree.yml (default: the root path)")
	fs.IntVar(&flags.Workers, "workers", 0, "extraction parallelism (default: number of CPUs)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "print per-file progress while analyzing")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server exposing the analysis tools")
	fs.StringVar(&flags.MCPAddr, "mcp-addr", "localhost:8431", "listen address for the MCP server")
	fs.BoolVar(&flags.Diagram, "diagram", false, "print a Mermaid diagram of a previously saved artifact")
	fs.StringVar(&flags.Focus, "focus", "", "restrict the diagram to one file's immediate neighborhood")
	fs.StringVar(&flags.GraphDB, "graph-db", "", "persist the dependency graph to a KuzuDB directory")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	if flags.Diagram {
		return runDiagram(flags.Output, flags.Focus)
	}

	cfgDir := flags.ConfigDir
	if cfgDir == "" {
		cfgDir = flags.Root
	}
	cfg, err := config.Load(cfgDir)
	if err != nil {
		return err
	}
	if flags.Output == "artifacts/code_tree.json" && cfg.OutputPath != "" {
		flags.Output = cfg.OutputPath
	}
	if flags.Workers == 0 && cfg.Workers > 0 {
		flags.Workers = cfg.Workers
	}
	if cfg.Verbose {
		flags.Verbose = true
	}

	if flags.ServeMCP {
		return runMCP(flags)
	}
	return runAnalysis(flags, cfg)
}

func runAnalysis(flags cliFlags, cfg *config.ProjectConfig) error {
	ctx := context.Background()

	var reporter *pipeline.ProgressReporter
	done := make(chan struct{})
	if flags.Verbose {
		reporter = pipeline.NewProgressReporter()
		go func() {
			defer close(done)
			for ev := range reporter.Subscribe() {
				fmt.Println(pipeline.FormatProgress(ev))
			}
		}()
	} else {
		close(done)
	}

	art, err := pipeline.Run(ctx, pipeline.Options{
		RootDir:  flags.Root,
		Workers:  flags.Workers,
		Config:   cfg,
		Reporter: reporter,
	})
	if reporter != nil {
		reporter.Close()
		<-done
	}
	if err != nil {
		return err
	}

	if err := art.WriteJSON(flags.Output); err != nil {
		return err
	}

	if flags.GraphDB != "" {
		if err := persistGraph(ctx, flags.GraphDB, art); err != nil {
			return err
		}
	}

	fmt.Printf("Wrote %s\n\n", flags.Output)
	fmt.Printf("  Files             %s\n", art.Metadata.FileCount)
	fmt.Printf("  Dependency Edges  %s\n", art.Metadata.DependencyEdges)
	fmt.Printf("  Warnings          %d\n", len(art.Errors))
	for _, w := range art.Errors {
		fmt.Printf("  ! %s\n", w)
	}
	return nil
}

func runDiagram(artifactPath, focus string) error {
	art, err := artifact.Load(artifactPath)
	if err != nil {
		return fmt.Errorf("no artifact found at %s\nRun codetree against a source tree first", artifactPath)
	}
	mermaid, err := export.GenerateMermaid(art, focus)
	if err != nil {
		return err
	}
	fmt.Print(mermaid)
	return nil
}

func runMCP(flags cliFlags) error {
	store, err := openStore(flags.GraphDB)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.InitSchema(ctx); err != nil {
		return err
	}

	// Preload a previously saved artifact when one exists so query tools
	// work before the first analyze_repo call.
	var art *artifact.Artifact
	if loaded, err := artifact.Load(flags.Output); err == nil {
		art = loaded
		if err := artifact.LoadStore(ctx, store, art); err != nil {
			return err
		}
	}

	svc := mcptools.NewService(store, art)
	fmt.Printf("codetree MCP server listening on %s\n", flags.MCPAddr)
	return mcptools.RunMCPServer(ctx, svc, flags.MCPAddr)
}
