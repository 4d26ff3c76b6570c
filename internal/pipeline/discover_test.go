package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/codetree/internal/config"
)

// writeTree creates the given files (with trivial content) under root.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	}
}

func TestDiscover_PrunesAndFilters(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a.py",
		"sub/b.ts",
		"image.png",
		"node_modules/dep/index.js",
		"deep/node_modules/stray.py",
		".git/hooks/x.py",
		"vendor/lib.go",
	)

	files, err := Discover(root, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py", "sub/b.ts"}, files)
}

func TestDiscover_GitignoreAtRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "keep.py", "ignored.py", "secret/key.py")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("ignored.py\nsecret/\n"), 0o644))

	files, err := Discover(root, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"keep.py"}, files)
}

func TestDiscover_SkipsUnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	root := t.TempDir()
	writeTree(t, root, "a.py", "locked/hidden.py")

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	files, err := Discover(root, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py"}, files)
}

func TestDiscover_ConfigExcludes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "app/main.py", "generated/gen.py", "app/schema_gen.py")

	cfg := &config.ProjectConfig{ExcludeDirs: []string{"generated", "*_gen.py"}}
	files, err := Discover(root, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"app/main.py"}, files)
}

func TestDiscover_DeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "z.py", "a.py", "m/n.py", "b.rs")

	first, err := Discover(root, nil)
	require.NoError(t, err)
	second, err := Discover(root, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py", "b.rs", "m/n.py", "z.py"}, first)
	assert.Equal(t, first, second)
}

func TestValidateRoot(t *testing.T) {
	assert.NoError(t, ValidateRoot(t.TempDir()))
	assert.Error(t, ValidateRoot(filepath.Join(t.TempDir(), "missing")))

	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.Error(t, ValidateRoot(file))
}
