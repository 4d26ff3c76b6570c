package graph

import (
	"path/filepath"
	"strings"
)

// extLanguages maps lowercase file extensions to language labels. Extensions
// not listed here classify as the bare suffix, or "unknown" when there is none.
var extLanguages = map[string]Language{
	".py":   LangPython,
	".pyi":  LangPython,
	".js":   LangJavaScript,
	".jsx":  LangJavaScript,
	".mjs":  LangJavaScript,
	".cjs":  LangJavaScript,
	".ts":   LangTypeScript,
	".tsx":  LangTypeScript,
	".java": LangJava,
	".go":   LangGo,
	".rs":   LangRust,
	".json": LangJSON,
	".yml":  LangYAML,
	".yaml": LangYAML,
	".md":   LangText,
	".txt":  LangText,
}

// DetectLanguage infers a language label from a file path. It is a pure
// function of the extension.
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extLanguages[ext]; ok {
		return lang
	}
	if trimmed := strings.TrimPrefix(ext, "."); trimmed != "" {
		return Language(trimmed)
	}
	return LangUnknown
}

// AllowedExtensions returns the fixed extension allow-list used by discovery:
// source code for the supported language families plus structured data and
// plain documentation formats.
func AllowedExtensions() map[string]bool {
	allowed := map[string]bool{
		".toml": true,
		".ini":  true,
		".cfg":  true,
	}
	for ext := range extLanguages {
		allowed[ext] = true
	}
	return allowed
}
