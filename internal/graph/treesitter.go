package graph

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// treeWalker extracts symbols and import specifiers from a parsed
// tree-sitter AST and derives the per-language summary string.
type treeWalker interface {
	Extract(root *tree_sitter.Node, source []byte) ([]Symbol, []string)
	Summarize(root *tree_sitter.Node, symbols []Symbol) string
}

// treeSitterExtractor is the precise-parse extraction variant. A new
// tree-sitter parser is created per Extract call, so a single instance is
// safe for concurrent use across files.
type treeSitterExtractor struct {
	language *tree_sitter.Language
	walker   treeWalker
}

// newTreeSitterExtractor verifies once that the grammar can be loaded into a
// parser. A version-mismatched grammar fails here, at startup, rather than
// per file.
func newTreeSitterExtractor(language *tree_sitter.Language, walker treeWalker) (Extractor, error) {
	probe := tree_sitter.NewParser()
	defer probe.Close()
	if err := probe.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("load grammar: %w", err)
	}
	return &treeSitterExtractor{language: language, walker: walker}, nil
}

// syntaxErrorSummary replaces the per-language summary when a file fails to
// parse cleanly.
const syntaxErrorSummary = "Syntax error encountered; detailed summary unavailable."

// Extract parses source and walks the tree. Malformed source degrades to
// empty symbol and import lists rather than an error: syntactically invalid
// files are expected and must not halt the pipeline.
func (e *treeSitterExtractor) Extract(_ string, source []byte) ExtractResult {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(e.language); err != nil {
		return ExtractResult{}
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return ExtractResult{}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return ExtractResult{Summary: syntaxErrorSummary}
	}

	symbols, imports := e.walker.Extract(root, source)
	return ExtractResult{
		Symbols: symbols,
		Imports: imports,
		Summary: e.walker.Summarize(root, symbols),
	}
}

// lineOf returns the 1-based declaration line of a node.
func lineOf(node *tree_sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// precedingComment returns the text of the comment block immediately above
// node, with comment markers stripped. Consecutive comment siblings are
// joined when each sits directly on the line above the next.
func precedingComment(node *tree_sitter.Node, source []byte) string {
	var lines []string
	expect := node.StartPosition().Row
	for prev := node.PrevNamedSibling(); prev != nil; prev = prev.PrevNamedSibling() {
		kind := prev.Kind()
		if kind != "comment" && kind != "line_comment" && kind != "block_comment" {
			break
		}
		if prev.EndPosition().Row+1 != expect && prev.EndPosition().Row != expect {
			break
		}
		lines = append([]string{cleanComment(prev.Utf8Text(source))}, lines...)
		expect = prev.StartPosition().Row
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// cleanComment strips //, /* */-style, and leading-* markers from a comment.
func cleanComment(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/*") {
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
		var cleaned []string
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimPrefix(line, "*")
			cleaned = append(cleaned, strings.TrimSpace(line))
		}
		return strings.TrimSpace(strings.Join(cleaned, "\n"))
	}
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "//")
		cleaned = append(cleaned, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
