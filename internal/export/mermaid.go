// Package export renders a persisted analysis artifact for human
// consumption.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/codetree/internal/artifact"
)

// maxDiagramNodes caps full-graph rendering: very large graphs produce an
// unreadable diagram, so the exporter truncates and says so.
const maxDiagramNodes = 150

// GenerateMermaid produces a Mermaid graph TD diagram of the artifact's
// dependency graph. When focus names a file, only that file's immediate
// neighborhood (dependencies and dependents) is rendered.
func GenerateMermaid(a *artifact.Artifact, focus string) (string, error) {
	if focus != "" {
		rec := a.File(focus)
		if rec == nil {
			return "", fmt.Errorf("export: file %s not found in artifact", focus)
		}
		return focusedDiagram(rec), nil
	}
	return fullDiagram(a), nil
}

func fullDiagram(a *artifact.Artifact) string {
	// Node -> ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(path string) string {
		if id, ok := nodeIDs[path]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[path] = id
		return id
	}

	sources := make([]string, 0, len(a.DependencyGraph))
	for src := range a.DependencyGraph {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	truncated := false
	for _, src := range sources {
		for _, dst := range a.DependencyGraph[src] {
			if len(nodeIDs) >= maxDiagramNodes {
				truncated = true
				break
			}
			sb.WriteString(fmt.Sprintf("  %s[\"%s\"] --> %s[\"%s\"]\n",
				getID(src), shortPath(src), getID(dst), shortPath(dst)))
		}
		if truncated {
			break
		}
	}
	if truncated {
		sb.WriteString(fmt.Sprintf("  TRUNC[\"... truncated at %d nodes\"]\n", maxDiagramNodes))
	}
	return sb.String()
}

func focusedDiagram(rec *artifact.FileRecord) string {
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(path string) string {
		if id, ok := nodeIDs[path]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[path] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")
	center := getID(rec.Path)
	sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", center, shortPath(rec.Path)))
	for _, dep := range rec.Dependencies {
		sb.WriteString(fmt.Sprintf("  %s --> %s[\"%s\"]\n", center, getID(dep), shortPath(dep)))
	}
	for _, dep := range rec.Dependents {
		sb.WriteString(fmt.Sprintf("  %s[\"%s\"] --> %s\n", getID(dep), shortPath(dep), center))
	}
	return sb.String()
}

// shortPath returns the last 2 path segments for readability.
func shortPath(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}
