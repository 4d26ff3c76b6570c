// Package config loads optional project-level settings from a codetree.yml
// file at the analyzed tree's root.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from codetree.yml.
type ProjectConfig struct {
	OutputPath    string   `yaml:"outputPath,omitempty"`
	Workers       int      `yaml:"workers,omitempty"`
	Languages     []string `yaml:"languages,omitempty"`
	ExcludeDirs   []string `yaml:"excludeDirs,omitempty"`
	GraphExcludes []string `yaml:"graphExcludes,omitempty"`
	Verbose       bool     `yaml:"verbose,omitempty"`
}

// Load attempts to read codetree.yml or codetree.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"codetree.yml", "codetree.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// ExcludeMatcher compiles the configured exclude patterns into a single
// predicate over repo-relative paths. Patterns apply to both directory
// names and full relative paths.
func (c *ProjectConfig) ExcludeMatcher() (func(relPath string) bool, error) {
	if len(c.ExcludeDirs) == 0 {
		return func(string) bool { return false }, nil
	}
	globs := make([]glob.Glob, 0, len(c.ExcludeDirs))
	for _, pat := range c.ExcludeDirs {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("config: bad exclude pattern %q: %w", pat, err)
		}
		globs = append(globs, g)
	}
	return func(relPath string) bool {
		base := filepath.Base(relPath)
		for _, g := range globs {
			if g.Match(relPath) || g.Match(base) {
				return true
			}
		}
		return false
	}, nil
}

// LanguageSet returns the configured language filter as a set, or nil when
// all detected languages should be analyzed.
func (c *ProjectConfig) LanguageSet() map[string]bool {
	if len(c.Languages) == 0 {
		return nil
	}
	set := make(map[string]bool, len(c.Languages))
	for _, l := range c.Languages {
		set[l] = true
	}
	return set
}
