package graph

import "regexp"

var (
	javaImportPattern = regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?([^;\s]+)\s*;?`)
	javaTypePattern   = regexp.MustCompile(`(?m)^\s*(?:(?:public|protected|private|abstract|final|static)\s+)*(class|interface|enum)\s+(\w+)`)
	javaMethodPattern = regexp.MustCompile(`(?m)^\s*(?:public|protected|private|static|final|synchronized|abstract)\s+[\w\[\]<>?,\s]+\s+(\w+)\s*\(`)
)

// javaHeuristicExtractor is the pattern-heuristic fallback for Java, used
// when the grammar is unavailable. Method-to-type nesting is approximated by
// slicing the text after each type declaration up to the next one; members of
// adjacent types can be mis-attributed, which is an accepted limitation of
// the heuristic variant.
type javaHeuristicExtractor struct{}

func (e *javaHeuristicExtractor) Extract(_ string, source []byte) ExtractResult {
	typeMatches := javaTypePattern.FindAllSubmatchIndex(source, -1)

	var symbols []Symbol
	for i, m := range typeMatches {
		kind := SymbolKind(source[m[2]:m[3]])
		name := string(source[m[4]:m[5]])

		sym := Symbol{
			Name: name,
			Kind: kind,
			Line: lineAtOffset(source, m[4]),
		}

		bodyEnd := len(source)
		if i+1 < len(typeMatches) {
			bodyEnd = typeMatches[i+1][0]
		}
		body := source[m[1]:bodyEnd]
		for _, mm := range javaMethodPattern.FindAllSubmatchIndex(body, -1) {
			sym.Children = append(sym.Children, Symbol{
				Name: string(body[mm[2]:mm[3]]),
				Kind: SymbolKindMethod,
				Line: lineAtOffset(source, m[1]+mm[2]),
			})
		}

		symbols = append(symbols, sym)
	}

	var imports []string
	for _, m := range javaImportPattern.FindAllSubmatchIndex(source, -1) {
		imports = append(imports, string(source[m[2]:m[3]]))
	}

	return ExtractResult{
		Symbols: symbols,
		Imports: imports,
		Summary: javaSummary(symbols),
	}
}
