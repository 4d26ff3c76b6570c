package graph

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Resolver turns raw import specifiers into keys of discovered files. It is
// built once per run from the complete set of root-relative file keys; after
// construction it is read-only and performs no filesystem probing beyond the
// one-time go.mod scan.
type Resolver struct {
	fileSet  map[string]bool
	dirSet   map[string]bool
	dirIndex map[string][]string // dir -> sorted file keys in that dir
	index    map[string]string   // module spelling -> file key
	goModule string
}

// jsExtensions are the candidate extensions probed for path-style imports, in
// order, followed by the index-file convention for directory imports.
var jsExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".json"}

// NewResolver builds the module index for the given file keys. For every file
// it registers the slash path, the dotted path with the extension stripped,
// and the bare filename stem; the first registration wins on collision, so
// the deterministic discovery order decides ties. rootDir is only used to
// read the repository's go.mod module path, if one exists.
func NewResolver(rootDir string, files []string) *Resolver {
	r := &Resolver{
		fileSet:  make(map[string]bool, len(files)),
		dirSet:   make(map[string]bool),
		dirIndex: make(map[string][]string),
		index:    make(map[string]string, len(files)*3),
	}

	for _, f := range files {
		r.fileSet[f] = true
		for dir := path.Dir(f); dir != "." && dir != "/"; dir = path.Dir(dir) {
			r.dirSet[dir] = true
		}
		dir := path.Dir(f)
		r.dirIndex[dir] = append(r.dirIndex[dir], f)

		for _, spelling := range moduleSpellings(f) {
			if _, exists := r.index[spelling]; !exists {
				r.index[spelling] = f
			}
		}
	}
	for dir := range r.dirIndex {
		sort.Strings(r.dirIndex[dir])
	}

	r.scanGoMod(rootDir)
	return r
}

// moduleSpellings returns the plausible name spellings by which another file
// might reference f.
func moduleSpellings(f string) []string {
	ext := path.Ext(f)
	stripped := strings.TrimSuffix(f, ext)
	stem := path.Base(stripped)
	spellings := []string{f, strings.ReplaceAll(stripped, "/", ".")}
	if stem != "" {
		spellings = append(spellings, stem)
	}
	return spellings
}

// scanGoMod reads the module directive from rootDir/go.mod, if present.
func (r *Resolver) scanGoMod(rootDir string) {
	f, err := os.Open(filepath.Join(rootDir, "go.mod"))
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "module ") {
			r.goModule = strings.TrimSpace(strings.TrimPrefix(line, "module"))
			return
		}
	}
}

// Resolve maps one raw import token from sourceFile to a discovered file key.
// The second return is false when the token stays an external reference. The
// dotted index probe runs first for every language; path-style probing is
// per family.
func (r *Resolver) Resolve(sourceFile string, lang Language, token string) (string, bool) {
	if token == "" {
		return "", false
	}

	if target, ok := r.lookupIndex(token); ok {
		return target, true
	}

	switch lang {
	case LangPython:
		return r.resolvePython(sourceFile, token)
	case LangJavaScript, LangTypeScript:
		return r.resolvePathStyle(sourceFile, token)
	case LangJava:
		return r.resolveJava(token)
	case LangGo:
		return r.resolveGo(token)
	case LangRust:
		return r.resolveRust(sourceFile, token)
	default:
		return "", false
	}
}

// lookupIndex probes the module index with the dotted spelling, then the
// slash spelling, then the raw token, and finally checks whether the token is
// itself a discovered file key.
func (r *Resolver) lookupIndex(token string) (string, bool) {
	normalized := strings.ReplaceAll(token, "\\", "/")
	dotted := strings.ReplaceAll(normalized, "/", ".")
	for _, candidate := range []string{dotted, normalized, token} {
		if target, ok := r.index[candidate]; ok {
			return target, true
		}
	}
	if r.fileSet[token] {
		return token, true
	}
	return "", false
}

// --- Python resolution ---

// resolvePython probes dotted module paths against the tree: relative to the
// importing file's directory, as a package __init__, and relative to the
// root. A from-import flattens the imported member onto the module path, so
// one trailing segment may be stripped and re-probed.
func (r *Resolver) resolvePython(sourceFile, token string) (string, bool) {
	dotted := strings.ReplaceAll(strings.ReplaceAll(token, "::", "."), "/", ".")
	rel := strings.ReplaceAll(strings.TrimLeft(dotted, "."), ".", "/")
	if rel == "" {
		return "", false
	}

	if target, ok := r.probePythonPath(sourceFile, rel); ok {
		return target, true
	}

	// Strip the flattened member segment: "pkg.b.thing" -> "pkg/b".
	if idx := strings.LastIndex(rel, "/"); idx > 0 {
		parent := rel[:idx]
		if target, ok := r.index[strings.ReplaceAll(parent, "/", ".")]; ok {
			return target, true
		}
		if target, ok := r.probePythonPath(sourceFile, parent); ok {
			return target, true
		}
	}
	return "", false
}

func (r *Resolver) probePythonPath(sourceFile, rel string) (string, bool) {
	candidates := []string{
		path.Join(path.Dir(sourceFile), rel) + ".py",
		rel + "/__init__.py",
		rel + ".py",
	}
	for _, c := range candidates {
		c = path.Clean(c)
		if r.fileSet[c] {
			return c, true
		}
	}
	return "", false
}

// --- JavaScript / TypeScript resolution ---

// resolvePathStyle handles relative (./, ../), rooted (/) and bare
// slash-containing specifiers. Candidates are probed against the discovered
// file set with the fixed extension list and the index-file convention; no
// disk I/O happens here.
func (r *Resolver) resolvePathStyle(sourceFile, token string) (string, bool) {
	var base string
	switch {
	case strings.HasPrefix(token, "./") || strings.HasPrefix(token, "../"):
		base = path.Join(path.Dir(sourceFile), token)
	case strings.HasPrefix(token, "/"):
		base = strings.TrimPrefix(token, "/")
	case strings.Contains(token, "/"):
		base = token
	default:
		return "", false // bare package name, external
	}
	return r.probeFile(path.Clean(base), jsExtensions)
}

// probeFile checks base itself, then base with each candidate extension, then
// the index-file convention when base is a discovered directory.
func (r *Resolver) probeFile(base string, extensions []string) (string, bool) {
	if r.fileSet[base] {
		return base, true
	}
	for _, ext := range extensions {
		if candidate := base + ext; r.fileSet[candidate] {
			return candidate, true
		}
	}
	if r.dirSet[base] {
		for _, ext := range extensions {
			if candidate := base + "/index" + ext; r.fileSet[candidate] {
				return candidate, true
			}
		}
	}
	return "", false
}

// --- Java resolution ---

// resolveJava maps a wildcard import to the package directory's key when any
// discovered file lives under it, and a specific type import to the file
// built from the dotted name.
func (r *Resolver) resolveJava(token string) (string, bool) {
	if strings.HasSuffix(token, ".*") {
		dir := strings.ReplaceAll(strings.TrimSuffix(token, ".*"), ".", "/")
		if r.dirSet[dir] {
			return dir, true
		}
		return "", false
	}

	candidate := strings.ReplaceAll(token, ".", "/") + ".java"
	if r.fileSet[candidate] {
		return candidate, true
	}
	return "", false
}

// --- Go resolution ---

// resolveGo strips the repository's module path from the import and picks
// the first non-test .go file in the target directory.
func (r *Resolver) resolveGo(token string) (string, bool) {
	if r.goModule == "" || !strings.HasPrefix(token, r.goModule) {
		return "", false // stdlib or external module
	}

	relDir := strings.TrimPrefix(strings.TrimPrefix(token, r.goModule), "/")
	if relDir == "" {
		relDir = "."
	}
	for _, f := range r.dirIndex[relDir] {
		if strings.HasSuffix(f, ".go") && !strings.HasSuffix(f, "_test.go") {
			return f, true
		}
	}
	return "", false
}

// --- Rust resolution ---

// resolveRust handles crate::, self:: and super:: module paths with .rs and
// mod.rs probing. External crates stay unresolved.
func (r *Resolver) resolveRust(sourceFile, token string) (string, bool) {
	rustExts := []string{".rs", "/mod.rs"}

	switch {
	case strings.HasPrefix(token, "crate::"):
		rel := strings.ReplaceAll(strings.TrimPrefix(token, "crate::"), "::", "/")
		candidates := []string{path.Join("src", rel), rel}
		if crateRoot := findCrateRoot(sourceFile); crateRoot != "" {
			candidates = append(candidates, path.Join(crateRoot, rel))
		}
		for _, base := range candidates {
			if target, ok := r.probeRust(base, rustExts); ok {
				return target, true
			}
		}
		return "", false

	case strings.HasPrefix(token, "self::"):
		rel := strings.ReplaceAll(strings.TrimPrefix(token, "self::"), "::", "/")
		return r.probeRust(path.Join(path.Dir(sourceFile), rel), rustExts)

	case strings.HasPrefix(token, "super::"):
		rel := strings.ReplaceAll(strings.TrimPrefix(token, "super::"), "::", "/")
		return r.probeRust(path.Join(path.Dir(path.Dir(sourceFile)), rel), rustExts)

	default:
		return "", false // external crate
	}
}

func (r *Resolver) probeRust(base string, extensions []string) (string, bool) {
	base = path.Clean(base)
	if r.fileSet[base] {
		return base, true
	}
	for _, ext := range extensions {
		if candidate := base + ext; r.fileSet[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// findCrateRoot walks up from a file key to the nearest "src" directory, the
// conventional Rust crate source root.
func findCrateRoot(fileKey string) string {
	for dir := path.Dir(fileKey); dir != "." && dir != "/" && dir != ""; dir = path.Dir(dir) {
		if path.Base(dir) == "src" {
			return dir
		}
	}
	return ""
}

// --- Graph construction ---

// DependencyGraph holds the resolved adjacency relation and its transpose.
// Adjacency targets are either resolved keys (files, or package directories
// for wildcard imports) or verbatim external tokens; Dependents is keyed by
// resolved targets only, never by external tokens.
type DependencyGraph struct {
	Adjacency  map[string][]string
	Dependents map[string][]string
}

// BuildGraph resolves every file's raw imports against the module index and
// returns the dependency graph. Self-edges are dropped; per-file adjacency
// and dependents lists are deduplicated and sorted.
func BuildGraph(rootDir string, results []*FileResult) *DependencyGraph {
	keys := make([]string, 0, len(results))
	for _, res := range results {
		keys = append(keys, res.Path)
	}
	resolver := NewResolver(rootDir, keys)

	adjacency := make(map[string][]string, len(results))
	dependents := make(map[string][]string)

	for _, res := range results {
		var edges []string
		for _, token := range res.Imports {
			target, ok := resolver.Resolve(res.Path, res.Language, token)
			if !ok {
				edges = append(edges, token) // external reference, kept verbatim
				continue
			}
			if target == res.Path {
				continue // no self-edges
			}
			edges = append(edges, target)
			dependents[target] = append(dependents[target], res.Path)
		}
		adjacency[res.Path] = sortedUnique(edges)
	}

	for key := range dependents {
		dependents[key] = sortedUnique(dependents[key])
	}

	return &DependencyGraph{Adjacency: adjacency, Dependents: dependents}
}

// EdgeCount returns the total number of edges across all adjacency lists.
func (g *DependencyGraph) EdgeCount() int {
	total := 0
	for _, targets := range g.Adjacency {
		total += len(targets)
	}
	return total
}

// sortedUnique returns the deduplicated, sorted copy of values. A nil input
// yields an empty, non-nil slice so JSON output stays an array.
func sortedUnique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
