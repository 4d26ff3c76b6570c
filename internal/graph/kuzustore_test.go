//go:build cgo

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestKuzuStore creates a fresh in-memory KuzuStore with an initialized
// schema and registers a cleanup to close it.
func newTestKuzuStore(t *testing.T) *KuzuStore {
	t.Helper()
	s, err := NewKuzuStore()
	require.NoError(t, err, "NewKuzuStore should not fail")
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.InitSchema(context.Background()), "InitSchema should not fail")
	return s
}

func seedKuzuStore(t *testing.T) *KuzuStore {
	t.Helper()
	s := newTestKuzuStore(t)
	ctx := context.Background()

	for _, f := range []string{"main.py", "app.py", "util.py"} {
		require.NoError(t, s.AddFile(ctx, f, LangPython))
	}
	for _, e := range []FileEdge{
		{Source: "main.py", Target: "app.py"},
		{Source: "app.py", Target: "util.py"},
		{Source: "app.py", Target: "requests"},
	} {
		require.NoError(t, s.AddEdge(ctx, e))
	}
	return s
}

func TestKuzuStore_Dependencies(t *testing.T) {
	s := seedKuzuStore(t)

	deps, err := s.Dependencies(context.Background(), "app.py")
	require.NoError(t, err)
	assert.Equal(t, []string{"requests", "util.py"}, deps,
		"external targets are stored as nodes too")
}

func TestKuzuStore_Dependents(t *testing.T) {
	s := seedKuzuStore(t)

	dependents, err := s.Dependents(context.Background(), "util.py")
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py"}, dependents)
}

func TestKuzuStore_Neighborhood(t *testing.T) {
	s := seedKuzuStore(t)

	chains, err := s.Neighborhood(context.Background(), "main.py", DirectionUpstream, 5)
	require.NoError(t, err)

	reached := map[string]bool{}
	for _, c := range chains {
		reached[c.Nodes[len(c.Nodes)-1]] = true
	}
	assert.True(t, reached["app.py"])
	assert.True(t, reached["util.py"], "transitive dependency should be reached")
}

func TestKuzuStore_AssessImpact(t *testing.T) {
	s := seedKuzuStore(t)

	impact, err := s.AssessImpact(context.Background(), []string{"util.py"})
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py"}, impact.DirectlyAffected)
	assert.Contains(t, impact.TransitivelyAffected, "main.py")
	assert.Greater(t, impact.RiskScore, 0.0)
}

func TestKuzuStore_Stats(t *testing.T) {
	s := seedKuzuStore(t)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	// Three source files plus the external "requests" node.
	assert.Equal(t, 4, stats.FileCount)
	assert.Equal(t, 3, stats.EdgeCount)
}
