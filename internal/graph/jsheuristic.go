package graph

import (
	"bytes"
	"regexp"
	"sort"
)

// JavaScript structural patterns, ordered so that export declarations win the
// (name, kind) dedup over plain declarations of the same symbol.
var (
	jsImportPattern    = regexp.MustCompile(`(?m)^\s*import\s+(?:.+?\s+from\s+)?['"]([^'"]+)['"]`)
	jsRequirePattern   = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	jsDynImportPattern = regexp.MustCompile(`import\(\s*['"]([^'"]+)['"]\s*\)`)

	jsExportFuncPattern  = regexp.MustCompile(`export\s+function\s+(\w+)\s*\(`)
	jsExportClassPattern = regexp.MustCompile(`export\s+class\s+(\w+)\b`)
	jsExportConstPattern = regexp.MustCompile(`export\s+(?:const|let|var)\s+(\w+)\s*=`)
	jsDefaultFuncPattern = regexp.MustCompile(`export\s+default\s+function\s*(\w*)\s*\(`)
	jsClassCompPattern   = regexp.MustCompile(`class\s+(\w+)\s+extends\s+React\.Component`)
	jsFuncDeclPattern    = regexp.MustCompile(`function\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	jsArrowCompPattern   = regexp.MustCompile(`(?m)const\s+([A-Z][A-Za-z0-9_]*)\s*=\s*(?:async\s*)?(?:\([^)]*\)|[^=\n]+)=>`)
)

// jsHeuristicExtractor is the pattern-heuristic variant for JavaScript. It
// scans raw text with structural regular expressions, deduplicates matches by
// (name, kind) keeping the first, and sorts the flat result by line.
type jsHeuristicExtractor struct{}

func (e *jsHeuristicExtractor) Extract(_ string, source []byte) ExtractResult {
	symbols := newSymbolCollector(source)

	symbols.scan(jsExportFuncPattern, SymbolKindFunction, "")
	symbols.scan(jsExportClassPattern, SymbolKindClass, "")
	symbols.scan(jsExportConstPattern, SymbolKindVariable, "")
	symbols.scan(jsClassCompPattern, SymbolKindComponent, "")
	symbols.scan(jsDefaultFuncPattern, SymbolKindDefaultExport, "default")

	// Plain function declarations: capitalized names are treated as
	// components, everything else as functions.
	for _, m := range jsFuncDeclPattern.FindAllSubmatchIndex(source, -1) {
		name := string(source[m[2]:m[3]])
		kind := SymbolKindFunction
		if isCapitalized(name) {
			kind = SymbolKindComponent
		}
		symbols.add(name, kind, m[2])
	}

	symbols.scan(jsArrowCompPattern, SymbolKindComponent, "")

	out := symbols.sorted()
	return ExtractResult{
		Symbols: out,
		Imports: e.imports(source),
		Summary: jsFamilySummary(out),
	}
}

func (e *jsHeuristicExtractor) imports(source []byte) []string {
	var out []string
	for _, pattern := range []*regexp.Regexp{jsImportPattern, jsRequirePattern, jsDynImportPattern} {
		for _, m := range pattern.FindAllSubmatchIndex(source, -1) {
			out = append(out, string(source[m[2]:m[3]]))
		}
	}
	return out
}

// symbolCollector accumulates heuristic matches with (name, kind) dedup.
type symbolCollector struct {
	source []byte
	seen   map[[2]string]bool
	out    []Symbol
}

func newSymbolCollector(source []byte) *symbolCollector {
	return &symbolCollector{source: source, seen: make(map[[2]string]bool)}
}

// scan adds one symbol per pattern match. An empty capture falls back to
// fallbackName (used for anonymous default exports).
func (c *symbolCollector) scan(pattern *regexp.Regexp, kind SymbolKind, fallbackName string) {
	for _, m := range pattern.FindAllSubmatchIndex(c.source, -1) {
		name := ""
		if m[2] >= 0 {
			name = string(c.source[m[2]:m[3]])
		}
		if name == "" {
			name = fallbackName
		}
		offset := m[2]
		if offset < 0 {
			offset = m[0]
		}
		c.add(name, kind, offset)
	}
}

func (c *symbolCollector) add(name string, kind SymbolKind, offset int) {
	if name == "" {
		return
	}
	key := [2]string{name, string(kind)}
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.out = append(c.out, Symbol{
		Name: name,
		Kind: kind,
		Line: lineAtOffset(c.source, offset),
	})
}

// sorted returns the collected symbols ordered by ascending line number.
// Heuristic extraction does not reconstruct true source nesting, so the flat
// line order is the outline.
func (c *symbolCollector) sorted() []Symbol {
	sort.SliceStable(c.out, func(i, j int) bool {
		return c.out[i].Line < c.out[j].Line
	})
	return c.out
}

// lineAtOffset converts a byte offset into a 1-based line number.
func lineAtOffset(source []byte, offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
