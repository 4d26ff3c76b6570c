package graph

// ExtractResult holds one file's extraction output. An empty Summary means
// the caller should fall back to the universal line-count summary.
type ExtractResult struct {
	Symbols []Symbol
	Imports []string
	Summary string
}

// Extractor produces a symbol outline and a raw import list for a single
// file's source text. Implementations must tolerate missing matches silently:
// zero symbols and zero imports is a valid, non-error result.
type Extractor interface {
	Extract(path string, source []byte) ExtractResult
}

// ExtractorSet is the strategy table mapping languages to extraction
// variants. It is resolved once at startup: precise tree-sitter extraction
// where a grammar loads, pattern-heuristic extraction otherwise. Languages
// absent from the table (data and documentation formats) produce no symbols
// or imports.
type ExtractorSet struct {
	byLang map[Language]Extractor
}

// NewExtractorSet builds the resolved strategy table. Grammar availability is
// checked here, not per file: a grammar that fails to load downgrades its
// language to the registered heuristic fallback, or drops extraction for that
// language entirely when no fallback exists.
func NewExtractorSet() *ExtractorSet {
	set := &ExtractorSet{byLang: make(map[Language]Extractor)}

	precise := []struct {
		lang     Language
		build    func() (Extractor, error)
		fallback Extractor
	}{
		{LangPython, newPythonExtractor, nil},
		{LangTypeScript, newTypeScriptExtractor, nil},
		{LangGo, newGoExtractor, nil},
		{LangRust, newRustExtractor, nil},
		{LangJava, newJavaExtractor, &javaHeuristicExtractor{}},
	}

	for _, p := range precise {
		ext, err := p.build()
		if err != nil {
			if p.fallback != nil {
				set.byLang[p.lang] = p.fallback
			}
			continue
		}
		set.byLang[p.lang] = ext
	}

	set.byLang[LangJavaScript] = &jsHeuristicExtractor{}

	return set
}

// For returns the extractor registered for lang, if any.
func (s *ExtractorSet) For(lang Language) (Extractor, bool) {
	ext, ok := s.byLang[lang]
	return ext, ok
}
