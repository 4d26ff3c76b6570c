package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewServer creates an MCP server with all 4 analysis tools registered.
func NewServer(svc *Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "codetree",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_repo",
		Description: "Analyze a source tree: discover files, extract symbol outlines and imports per file, and build the cross-file dependency graph.",
	}, svc.AnalyzeRepo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_file",
		Description: "Return the analyzed record for one file: language, summary, symbol outline, dependencies, and dependents.",
	}, svc.GetFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_dependencies",
		Description: "Traverse the dependency graph upstream or downstream from a file. Returns dependency chains up to the specified depth.",
	}, svc.GetDependencies)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "assess_impact",
		Description: "Compute the blast radius of modifying a set of files. Returns directly and transitively affected files with a risk score.",
	}, svc.AssessImpact)

	return server
}

// RunMCPServer starts an HTTP server exposing the analysis MCP tools.
func RunMCPServer(ctx context.Context, svc *Service, addr string) error {
	server := NewServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
