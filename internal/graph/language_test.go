package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		path string
		want Language
	}{
		{"app/server.py", LangPython},
		{"types.pyi", LangPython},
		{"web/App.tsx", LangTypeScript},
		{"web/index.mjs", LangJavaScript},
		{"Main.java", LangJava},
		{"cmd/main.go", LangGo},
		{"src/lib.rs", LangRust},
		{"package.json", LangJSON},
		{"ci.yml", LangYAML},
		{"README.md", LangText},
		{"build.gradle", Language("gradle")},
		{"Makefile", LangUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectLanguage(tc.path), "path %s", tc.path)
	}
}

func TestAllowedExtensions(t *testing.T) {
	allowed := AllowedExtensions()

	for _, ext := range []string{".py", ".ts", ".go", ".rs", ".java", ".json", ".yaml", ".md", ".toml"} {
		assert.True(t, allowed[ext], "%s should be allowed", ext)
	}
	assert.False(t, allowed[".exe"])
	assert.False(t, allowed[".png"])
}
