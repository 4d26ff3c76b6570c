package graph

// --- Enums ---

// SymbolKind classifies extracted symbols.
type SymbolKind string

const (
	SymbolKindFunction      SymbolKind = "function"
	SymbolKindAsyncFunction SymbolKind = "asyncfunction"
	SymbolKindClass         SymbolKind = "class"
	SymbolKindType          SymbolKind = "type"
	SymbolKindEnum          SymbolKind = "enum"
	SymbolKindInterface     SymbolKind = "interface"
	SymbolKindVariable      SymbolKind = "variable"
	SymbolKindMethod        SymbolKind = "method"
	SymbolKindComponent     SymbolKind = "component"
	SymbolKindDefaultExport SymbolKind = "default_export"
)

// Language identifies the declared language of a source file.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangJava       Language = "java"
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangJSON       Language = "json"
	LangYAML       Language = "yaml"
	LangText       Language = "text"
	LangUnknown    Language = "unknown"
)

// --- Models ---

// Symbol is a named structural declaration with a 1-based line number and
// optional nested children (a method belongs to its enclosing class).
type Symbol struct {
	Name     string     `json:"name"`
	Kind     SymbolKind `json:"symbol_type"`
	Line     int        `json:"lineno"`
	Doc      string     `json:"docstring,omitempty"`
	Children []Symbol   `json:"children,omitempty"`
}

// FileResult holds the per-file output of the extraction stage: the symbol
// outline, the raw import specifiers, and a human-readable summary. Path is
// root-relative with forward slashes.
type FileResult struct {
	Path     string   `json:"path"`
	Language Language `json:"language"`
	Summary  string   `json:"summary"`
	Symbols  []Symbol `json:"symbols"`
	Imports  []string `json:"imports"`
}

// FileEdge is a directed dependency edge in the file graph. Target is either
// another discovered file's key or an unresolved import token kept verbatim.
type FileEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphStats summarizes a loaded dependency graph.
type GraphStats struct {
	FileCount int `json:"fileCount"`
	EdgeCount int `json:"edgeCount"`
}

// DependencyChain is an ordered path of node keys reachable from a start node.
type DependencyChain struct {
	Nodes []string `json:"nodes"`
	Depth int      `json:"depth"`
}

// ImpactResult describes the blast radius of changing a set of files.
type ImpactResult struct {
	DirectlyAffected     []string `json:"directlyAffected"`
	TransitivelyAffected []string `json:"transitivelyAffected"`
	RiskScore            float64  `json:"riskScore"`
}
