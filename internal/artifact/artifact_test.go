package artifact

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/codetree/internal/graph"
)

func newTestArtifact() *Artifact {
	results := []*graph.FileResult{
		{
			Path:     "pkg/b.py",
			Language: graph.LangPython,
			Summary:  "Top-level declarations: 0 classes, 1 functions; module length 1 statements.",
			Symbols:  []graph.Symbol{{Name: "thing", Kind: graph.SymbolKindFunction, Line: 1}},
		},
		{
			Path:     "pkg/a.py",
			Language: graph.LangPython,
			Summary:  "Top-level declarations: 1 classes, 0 functions; module length 3 statements.",
			Symbols:  []graph.Symbol{{Name: "Widget", Kind: graph.SymbolKindClass, Line: 3}},
			Imports:  []string{"pkg.b", "os"},
		},
	}
	dg := graph.BuildGraph("/nonexistent", results)
	return New("/repo", results, dg, []string{"Could not read pkg/c.py: permission denied"})
}

func TestNew_FilesSortedByPath(t *testing.T) {
	a := newTestArtifact()

	require.Len(t, a.Files, 2)
	assert.Equal(t, "pkg/a.py", a.Files[0].Path)
	assert.Equal(t, "pkg/b.py", a.Files[1].Path)
}

func TestNew_MetadataFromFinalGraph(t *testing.T) {
	a := newTestArtifact()

	assert.Equal(t, "2", a.Metadata.FileCount)
	assert.Equal(t, "2", a.Metadata.DependencyEdges)
	assert.Equal(t, []string{"Could not read pkg/c.py: permission denied"}, a.Errors)
}

func TestNew_DependenciesAndDependents(t *testing.T) {
	a := newTestArtifact()

	rec := a.File("pkg/a.py")
	require.NotNil(t, rec)
	assert.Equal(t, []string{"os", "pkg/b.py"}, rec.Dependencies)
	assert.Empty(t, rec.Dependents)

	b := a.File("pkg/b.py")
	require.NotNil(t, b)
	assert.Equal(t, []string{"pkg/a.py"}, b.Dependents)
}

func TestArtifact_JSONShape(t *testing.T) {
	a := newTestArtifact()

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{"root_path", "files", "dependency_graph", "metadata", "errors"} {
		assert.Contains(t, decoded, key)
	}

	meta := decoded["metadata"].(map[string]any)
	assert.Equal(t, "2", meta["file_count"], "metadata counts serialize as strings")
	assert.Equal(t, "2", meta["dependency_edges"])

	file := decoded["files"].([]any)[0].(map[string]any)
	for _, key := range []string{"path", "language", "summary", "symbols", "dependencies", "dependents"} {
		assert.Contains(t, file, key)
	}
	sym := file["symbols"].([]any)[0].(map[string]any)
	assert.Contains(t, sym, "symbol_type")
	assert.Contains(t, sym, "lineno")
}

func TestArtifact_EmptyListsNotNull(t *testing.T) {
	dg := graph.BuildGraph("/nonexistent", []*graph.FileResult{
		{Path: "only.md", Language: graph.LangText, Summary: "2 non-empty lines"},
	})
	a := New("/repo", []*graph.FileResult{
		{Path: "only.md", Language: graph.LangText, Summary: "2 non-empty lines"},
	}, dg, nil)

	data, err := json.Marshal(a)
	require.NoError(t, err)
	s := string(data)
	assert.NotContains(t, s, `"symbols":null`)
	assert.NotContains(t, s, `"dependencies":null`)
	assert.NotContains(t, s, `"dependents":null`)
	assert.NotContains(t, s, `"errors":null`)
}

func TestWriteJSONAndLoad_Roundtrip(t *testing.T) {
	a := newTestArtifact()

	path := filepath.Join(t.TempDir(), "artifacts", "code_tree.json")
	require.NoError(t, a.WriteJSON(path), "parent directories are created")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, a.RootPath, loaded.RootPath)
	assert.Equal(t, a.Metadata, loaded.Metadata)
	assert.Len(t, loaded.Files, len(a.Files))
	assert.Equal(t, a.DependencyGraph, loaded.DependencyGraph)
}

func TestLoadStore_ReplaysGraph(t *testing.T) {
	a := newTestArtifact()
	store := graph.NewMemStore()
	ctx := context.Background()

	require.NoError(t, LoadStore(ctx, store, a))

	deps, err := store.Dependencies(ctx, "pkg/a.py")
	require.NoError(t, err)
	assert.Equal(t, []string{"os", "pkg/b.py"}, deps)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FileCount)
	assert.Equal(t, 2, stats.EdgeCount)
}
