package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/dusk-indust/codetree/internal/config"
	"github.com/dusk-indust/codetree/internal/graph"
)

// skipDirs are directory names pruned unconditionally during discovery.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"__pycache__":  true,
	"node_modules": true,
	".venv":        true,
	"venv":         true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
}

// Discover walks rootDir and returns the repo-relative, slash-separated
// paths of every analyzable file, sorted. Pruned directories are never
// descended into, and files matched by a root-level .gitignore or by
// configured exclude patterns are dropped.
func Discover(rootDir string, cfg *config.ProjectConfig) ([]string, error) {
	allowed := graph.AllowedExtensions()

	exclude := func(string) bool { return false }
	if cfg != nil {
		m, err := cfg.ExcludeMatcher()
		if err != nil {
			return nil, err
		}
		exclude = m
	}

	var ignorer *gitignore.GitIgnore
	if gi, err := gitignore.CompileIgnoreFile(filepath.Join(rootDir, ".gitignore")); err == nil {
		ignorer = gi
	}

	langFilter := map[string]bool(nil)
	if cfg != nil {
		langFilter = cfg.LanguageSet()
	}

	var files []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal. Only a failure
			// on the root itself (d is nil) aborts the walk.
			if d == nil {
				return err
			}
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if exclude(rel) {
				return filepath.SkipDir
			}
			if ignorer != nil && ignorer.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if !allowed[ext] {
			return nil
		}
		if exclude(rel) {
			return nil
		}
		if ignorer != nil && ignorer.MatchesPath(rel) {
			return nil
		}
		if langFilter != nil && !langFilter[string(graph.DetectLanguage(rel))] {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: walk %s: %w", rootDir, err)
	}

	sort.Strings(files)
	return files, nil
}

// ValidateRoot checks that rootDir exists and is a directory.
func ValidateRoot(rootDir string) error {
	info, err := os.Stat(rootDir)
	if err != nil {
		return fmt.Errorf("pipeline: root %s: %w", rootDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("pipeline: root %s is not a directory", rootDir)
	}
	return nil
}
