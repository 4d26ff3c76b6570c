package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/codetree/internal/artifact"
)

func newTestArtifact() *artifact.Artifact {
	return &artifact.Artifact{
		RootPath: "/repo",
		Files: []artifact.FileRecord{
			{Path: "pkg/a.py", Dependencies: []string{"pkg/b.py"}, Dependents: []string{"main.py"}},
			{Path: "pkg/b.py", Dependencies: []string{}, Dependents: []string{"pkg/a.py"}},
			{Path: "main.py", Dependencies: []string{"pkg/a.py"}, Dependents: []string{}},
		},
		DependencyGraph: map[string][]string{
			"main.py":  {"pkg/a.py"},
			"pkg/a.py": {"pkg/b.py"},
			"pkg/b.py": {},
		},
	}
}

func TestGenerateMermaid_FullGraph(t *testing.T) {
	out, err := GenerateMermaid(newTestArtifact(), "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `["main.py"]`)
	assert.Contains(t, out, `["pkg/a.py"]`)
	assert.Contains(t, out, "-->")
}

func TestGenerateMermaid_Focused(t *testing.T) {
	out, err := GenerateMermaid(newTestArtifact(), "pkg/a.py")
	require.NoError(t, err)

	assert.Contains(t, out, `["pkg/a.py"]`)
	assert.Contains(t, out, `["pkg/b.py"]`, "dependency edge rendered")
	assert.Contains(t, out, `["main.py"]`, "dependent edge rendered")
	assert.NotContains(t, out, "TRUNC")
}

func TestGenerateMermaid_UnknownFocus(t *testing.T) {
	_, err := GenerateMermaid(newTestArtifact(), "missing.py")
	assert.Error(t, err)
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "a.py", shortPath("a.py"))
	assert.Equal(t, "pkg/a.py", shortPath("pkg/a.py"))
	assert.Equal(t, "deep/a.py", shortPath("src/very/deep/a.py"))
}
