package graph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSHeuristic_Symbols(t *testing.T) {
	src := readFixture(t, "testdata/fixtures/src/widgets.js")
	ext := &jsHeuristicExtractor{}
	res := ext.Extract("src/widgets.js", src)

	renderAll := findSymbol(res.Symbols, "renderAll")
	require.NotNil(t, renderAll)
	assert.Equal(t, SymbolKindFunction, renderAll.Kind)

	widgetList := findSymbol(res.Symbols, "WidgetList")
	require.NotNil(t, widgetList)
	assert.Equal(t, SymbolKindClass, widgetList.Kind)

	version := findSymbol(res.Symbols, "VERSION")
	require.NotNil(t, version)
	assert.Equal(t, SymbolKindVariable, version.Kind)

	def := findSymbol(res.Symbols, "mount")
	require.NotNil(t, def, "named default export keeps its name")
	assert.Equal(t, SymbolKindDefaultExport, def.Kind)

	toolbar := findSymbol(res.Symbols, "Toolbar")
	require.NotNil(t, toolbar, "capitalized function declaration is a component")
	assert.Equal(t, SymbolKindComponent, toolbar.Kind)

	sidebar := findSymbol(res.Symbols, "Sidebar")
	require.NotNil(t, sidebar, "capitalized arrow const is a component")
	assert.Equal(t, SymbolKindComponent, sidebar.Kind)

	loadTheme := findSymbol(res.Symbols, "loadTheme")
	require.NotNil(t, loadTheme)
	assert.Equal(t, SymbolKindFunction, loadTheme.Kind)
}

func TestJSHeuristic_SymbolsSortedByLine(t *testing.T) {
	src := readFixture(t, "testdata/fixtures/src/widgets.js")
	res := (&jsHeuristicExtractor{}).Extract("src/widgets.js", src)

	require.NotEmpty(t, res.Symbols)
	lines := make([]int, len(res.Symbols))
	for i, sym := range res.Symbols {
		lines[i] = sym.Line
	}
	assert.True(t, sort.IntsAreSorted(lines), "flat outline must be line-ordered: %v", lines)
}

func TestJSHeuristic_DedupByNameAndKind(t *testing.T) {
	// renderAll matches both the export-function and the plain function
	// pattern; only the first match survives.
	src := []byte("export function renderAll(widgets) {\n  return widgets;\n}\n")
	res := (&jsHeuristicExtractor{}).Extract("dup.js", src)

	count := 0
	for _, sym := range res.Symbols {
		if sym.Name == "renderAll" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestJSHeuristic_Imports(t *testing.T) {
	src := readFixture(t, "testdata/fixtures/src/widgets.js")
	res := (&jsHeuristicExtractor{}).Extract("src/widgets.js", src)

	assert.Equal(t, []string{"react", "./format", "fs", "./theme"}, res.Imports)
}

func TestJSHeuristic_AnonymousDefaultExport(t *testing.T) {
	src := []byte("export default function (props) {\n  return props;\n}\n")
	res := (&jsHeuristicExtractor{}).Extract("anon.js", src)

	def := findSymbol(res.Symbols, "default")
	require.NotNil(t, def, "anonymous default export is named 'default'")
	assert.Equal(t, SymbolKindDefaultExport, def.Kind)
}

func TestJSHeuristic_EmptySource(t *testing.T) {
	res := (&jsHeuristicExtractor{}).Extract("empty.js", []byte(""))
	assert.Empty(t, res.Symbols)
	assert.Empty(t, res.Imports)
	assert.NotEmpty(t, res.Summary)
}
