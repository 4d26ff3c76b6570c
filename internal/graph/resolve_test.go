package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestResolver builds a resolver over a fixed file list without a go.mod.
func newTestResolver(files ...string) *Resolver {
	return NewResolver("/nonexistent", files)
}

// ---------------------------------------------------------------------------
// Module index
// ---------------------------------------------------------------------------

func TestResolver_IndexSpellings(t *testing.T) {
	r := newTestResolver("pkg/a.py", "pkg/b.py")

	t.Run("slash path", func(t *testing.T) {
		target, ok := r.Resolve("main.py", LangPython, "pkg/a.py")
		require.True(t, ok)
		assert.Equal(t, "pkg/a.py", target)
	})

	t.Run("dotted path", func(t *testing.T) {
		target, ok := r.Resolve("main.py", LangPython, "pkg.a")
		require.True(t, ok)
		assert.Equal(t, "pkg/a.py", target)
	})

	t.Run("bare stem", func(t *testing.T) {
		target, ok := r.Resolve("pkg/a.py", LangPython, "b")
		require.True(t, ok)
		assert.Equal(t, "pkg/b.py", target)
	})
}

func TestResolver_IndexCollisionFirstWins(t *testing.T) {
	// Both files register the stem "util"; discovery order decides.
	r := newTestResolver("app/util.py", "lib/util.py")

	target, ok := r.Resolve("main.py", LangPython, "util")
	require.True(t, ok)
	assert.Equal(t, "app/util.py", target)

	// The loser stays reachable through its other spellings.
	target, ok = r.Resolve("main.py", LangPython, "lib.util")
	require.True(t, ok)
	assert.Equal(t, "lib/util.py", target)
}

// ---------------------------------------------------------------------------
// Python
// ---------------------------------------------------------------------------

func TestResolver_Python(t *testing.T) {
	r := newTestResolver(
		"pkg/a.py",
		"pkg/b.py",
		"tools/__init__.py",
		"tools/cli.py",
	)

	t.Run("relative sibling", func(t *testing.T) {
		target, ok := r.Resolve("pkg/a.py", LangPython, "b")
		require.True(t, ok)
		assert.Equal(t, "pkg/b.py", target)
	})

	t.Run("flattened member strips one segment", func(t *testing.T) {
		// "from pkg.b import thing" arrives as pkg.b.thing.
		target, ok := r.Resolve("pkg/a.py", LangPython, "pkg.b.thing")
		require.True(t, ok)
		assert.Equal(t, "pkg/b.py", target)
	})

	t.Run("package init", func(t *testing.T) {
		target, ok := r.Resolve("pkg/a.py", LangPython, "tools")
		require.True(t, ok)
		assert.Equal(t, "tools/__init__.py", target)
	})

	t.Run("stdlib stays external", func(t *testing.T) {
		_, ok := r.Resolve("pkg/a.py", LangPython, "os.path")
		assert.False(t, ok)
	})
}

// ---------------------------------------------------------------------------
// JavaScript / TypeScript
// ---------------------------------------------------------------------------

func TestResolver_PathStyle(t *testing.T) {
	r := newTestResolver(
		"web/app.ts",
		"web/util.ts",
		"lib/index.ts",
		"assets/data.json",
	)

	t.Run("relative with extension probe", func(t *testing.T) {
		target, ok := r.Resolve("web/app.ts", LangTypeScript, "./util")
		require.True(t, ok)
		assert.Equal(t, "web/util.ts", target)
	})

	t.Run("directory resolves to index file", func(t *testing.T) {
		target, ok := r.Resolve("web/app.ts", LangTypeScript, "../lib")
		require.True(t, ok)
		assert.Equal(t, "lib/index.ts", target)
	})

	t.Run("rooted path", func(t *testing.T) {
		target, ok := r.Resolve("web/app.ts", LangJavaScript, "/assets/data.json")
		require.True(t, ok)
		assert.Equal(t, "assets/data.json", target)
	})

	t.Run("bare package is external", func(t *testing.T) {
		_, ok := r.Resolve("web/app.ts", LangTypeScript, "react")
		assert.False(t, ok)
	})
}

// ---------------------------------------------------------------------------
// Java
// ---------------------------------------------------------------------------

func TestResolver_Java(t *testing.T) {
	r := newTestResolver(
		"com/acme/store/Inventory.java",
		"com/acme/store/model/Item.java",
	)

	t.Run("specific type", func(t *testing.T) {
		target, ok := r.Resolve("Main.java", LangJava, "com.acme.store.model.Item")
		require.True(t, ok)
		assert.Equal(t, "com/acme/store/model/Item.java", target)
	})

	t.Run("wildcard resolves to package directory", func(t *testing.T) {
		target, ok := r.Resolve("Main.java", LangJava, "com.acme.store.model.*")
		require.True(t, ok)
		assert.Equal(t, "com/acme/store/model", target)
	})

	t.Run("unknown package is external", func(t *testing.T) {
		_, ok := r.Resolve("Main.java", LangJava, "java.util.List")
		assert.False(t, ok)
	})
}

// ---------------------------------------------------------------------------
// Go
// ---------------------------------------------------------------------------

func TestResolver_Go(t *testing.T) {
	root := t.TempDir()
	err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/demo\n\ngo 1.25\n"), 0o644)
	require.NoError(t, err)

	r := NewResolver(root, []string{
		"internal/util/util.go",
		"internal/util/util_test.go",
		"cmd/demo/main.go",
	})

	t.Run("module-relative import", func(t *testing.T) {
		target, ok := r.Resolve("cmd/demo/main.go", LangGo, "example.com/demo/internal/util")
		require.True(t, ok)
		assert.Equal(t, "internal/util/util.go", target, "test files are never the target")
	})

	t.Run("stdlib stays external", func(t *testing.T) {
		_, ok := r.Resolve("cmd/demo/main.go", LangGo, "fmt")
		assert.False(t, ok)
	})
}

// ---------------------------------------------------------------------------
// Rust
// ---------------------------------------------------------------------------

func TestResolver_Rust(t *testing.T) {
	r := newTestResolver(
		"src/main.rs",
		"src/store/mod.rs",
		"src/store/backend.rs",
	)

	t.Run("crate path to mod.rs", func(t *testing.T) {
		target, ok := r.Resolve("src/main.rs", LangRust, "crate::store")
		require.True(t, ok)
		assert.Equal(t, "src/store/mod.rs", target)
	})

	t.Run("self path", func(t *testing.T) {
		target, ok := r.Resolve("src/store/mod.rs", LangRust, "self::backend")
		require.True(t, ok)
		assert.Equal(t, "src/store/backend.rs", target)
	})

	t.Run("super path", func(t *testing.T) {
		target, ok := r.Resolve("src/store/backend.rs", LangRust, "super::main")
		require.True(t, ok)
		assert.Equal(t, "src/main.rs", target)
	})

	t.Run("external crate", func(t *testing.T) {
		_, ok := r.Resolve("src/main.rs", LangRust, "std::collections::HashMap")
		assert.False(t, ok)
	})
}

// ---------------------------------------------------------------------------
// Graph construction
// ---------------------------------------------------------------------------

func buildTestGraph() *DependencyGraph {
	results := []*FileResult{
		{Path: "pkg/a.py", Language: LangPython, Imports: []string{"pkg.b", "pkg.b", "os", "a"}},
		{Path: "pkg/b.py", Language: LangPython, Imports: []string{}},
		{Path: "main.py", Language: LangPython, Imports: []string{"pkg.a", "pkg.b"}},
	}
	return BuildGraph("/nonexistent", results)
}

func TestBuildGraph_Edges(t *testing.T) {
	dg := buildTestGraph()

	// Duplicate imports collapse; the self-referencing "a" token resolves to
	// pkg/a.py and is dropped; "os" stays verbatim as an external edge.
	assert.Equal(t, []string{"os", "pkg/b.py"}, dg.Adjacency["pkg/a.py"])
	assert.Equal(t, []string{"pkg/a.py", "pkg/b.py"}, dg.Adjacency["main.py"])
	assert.Empty(t, dg.Adjacency["pkg/b.py"])

	assert.Equal(t, 4, dg.EdgeCount())
}

func TestBuildGraph_TransposeInvariant(t *testing.T) {
	dg := buildTestGraph()

	files := map[string]bool{"pkg/a.py": true, "pkg/b.py": true, "main.py": true}
	for src, targets := range dg.Adjacency {
		for _, dst := range targets {
			if !files[dst] {
				continue // external edges have no dependents entry
			}
			assert.Contains(t, dg.Dependents[dst], src,
				"edge %s -> %s must appear in the transpose", src, dst)
		}
	}
	for dst, sources := range dg.Dependents {
		for _, src := range sources {
			assert.Contains(t, dg.Adjacency[src], dst)
		}
	}
}

func TestBuildGraph_Deterministic(t *testing.T) {
	first := buildTestGraph()
	second := buildTestGraph()
	assert.Equal(t, first.Adjacency, second.Adjacency)
	assert.Equal(t, first.Dependents, second.Dependents)
}
