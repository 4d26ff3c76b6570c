package mcptools

import (
	"github.com/dusk-indust/codetree/internal/graph"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// AnalyzeRepoInput is the input for the analyze_repo MCP tool.
type AnalyzeRepoInput struct {
	RootPath    string   `json:"rootPath" jsonschema:"the absolute path of the source tree to analyze"`
	Workers     int      `json:"workers,omitempty" jsonschema:"extraction parallelism (default: number of CPUs)"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"glob patterns for directories to exclude (e.g. vendor, generated/**)"`
}

// AnalyzeRepoOutput is the result of the analyze_repo MCP tool.
type AnalyzeRepoOutput struct {
	Stats    graph.GraphStats `json:"stats"`
	Warnings []string         `json:"warnings"`
}

// GetFileInput is the input for the get_file MCP tool.
type GetFileInput struct {
	Path string `json:"path" jsonschema:"root-relative path of the file to look up"`
}

// SymbolEntry is one row of a file's symbol outline. The outline is
// flattened for schema generation: the SDK's jsonschema inference rejects
// recursive types, so nesting is expressed through Parent instead of a
// children list.
type SymbolEntry struct {
	Name   string `json:"name"`
	Kind   string `json:"symbol_type"`
	Line   int    `json:"lineno"`
	Doc    string `json:"docstring,omitempty"`
	Parent string `json:"parent,omitempty" jsonschema:"name of the enclosing symbol, empty for top-level symbols"`
}

// GetFileOutput is the result of the get_file MCP tool.
type GetFileOutput struct {
	Path         string        `json:"path"`
	Language     string        `json:"language"`
	Summary      string        `json:"summary"`
	Symbols      []SymbolEntry `json:"symbols"`
	Dependencies []string      `json:"dependencies"`
	Dependents   []string      `json:"dependents"`
}

// GetDependenciesInput is the input for the get_dependencies MCP tool.
type GetDependenciesInput struct {
	Path      string `json:"path" jsonschema:"root-relative path of the file to traverse from"`
	Direction string `json:"direction,omitempty" jsonschema:"upstream (what it depends on) or downstream (what depends on it). Default: downstream"`
	MaxDepth  int    `json:"maxDepth,omitempty" jsonschema:"maximum traversal depth (default: 5)"`
}

// GetDependenciesOutput is the result of the get_dependencies MCP tool.
type GetDependenciesOutput struct {
	Chains []graph.DependencyChain `json:"chains"`
}

// AssessImpactInput is the input for the assess_impact MCP tool.
type AssessImpactInput struct {
	ChangedFiles []string `json:"changedFiles" jsonschema:"list of root-relative file paths that will be modified"`
}

// AssessImpactOutput is the result of the assess_impact MCP tool.
type AssessImpactOutput struct {
	Impact graph.ImpactResult `json:"impact"`
}
