package graph

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// newTypeScriptExtractor builds the precise-parse extractor for TypeScript
// and TSX sources.
func newTypeScriptExtractor() (Extractor, error) {
	return newTreeSitterExtractor(
		tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		&tsWalker{},
	)
}

// tsWalker walks TypeScript ASTs. Classes carry their methods as children;
// capitalized arrow-function consts are reported as components, matching the
// heuristic used for plain JavaScript.
type tsWalker struct{}

func (w *tsWalker) Extract(root *tree_sitter.Node, source []byte) ([]Symbol, []string) {
	var symbols []Symbol
	var imports []string
	w.walk(root, source, &symbols, &imports)
	return symbols, imports
}

func (w *tsWalker) walk(node *tree_sitter.Node, source []byte, symbols *[]Symbol, imports *[]string) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "function_declaration", "generator_function_declaration":
			if sym, ok := w.named(child, source, SymbolKindFunction); ok {
				*symbols = append(*symbols, sym)
			}
		case "class_declaration", "abstract_class_declaration":
			if sym, ok := w.class(child, source); ok {
				*symbols = append(*symbols, sym)
			}
		case "interface_declaration":
			if sym, ok := w.named(child, source, SymbolKindInterface); ok {
				*symbols = append(*symbols, sym)
			}
		case "type_alias_declaration":
			if sym, ok := w.named(child, source, SymbolKindType); ok {
				*symbols = append(*symbols, sym)
			}
		case "enum_declaration":
			if sym, ok := w.named(child, source, SymbolKindEnum); ok {
				*symbols = append(*symbols, sym)
			}
		case "lexical_declaration", "variable_declaration":
			*symbols = append(*symbols, w.declarators(child, source)...)
		case "import_statement":
			if spec := w.importSource(child, source); spec != "" {
				*imports = append(*imports, spec)
			}
		case "export_statement":
			w.walk(child, source, symbols, imports)
		}
	}
}

func (w *tsWalker) named(node *tree_sitter.Node, source []byte, kind SymbolKind) (Symbol, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Symbol{}, false
	}
	return Symbol{
		Name: nameNode.Utf8Text(source),
		Kind: kind,
		Line: lineOf(node),
		Doc:  precedingComment(node, source),
	}, true
}

func (w *tsWalker) class(node *tree_sitter.Node, source []byte) (Symbol, bool) {
	sym, ok := w.named(node, source, SymbolKindClass)
	if !ok {
		return Symbol{}, false
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return sym, true
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		if member == nil || member.Kind() != "method_definition" {
			continue
		}
		nameNode := member.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		sym.Children = append(sym.Children, Symbol{
			Name: nameNode.Utf8Text(source),
			Kind: SymbolKindMethod,
			Line: lineOf(member),
		})
	}
	return sym, true
}

// declarators reports const/let/var declarations whose value is a function.
// A capitalized arrow function is treated as a component; other function
// values are plain functions and remaining declarations are skipped.
func (w *tsWalker) declarators(node *tree_sitter.Node, source []byte) []Symbol {
	var out []Symbol
	for i := uint(0); i < node.NamedChildCount(); i++ {
		decl := node.NamedChild(i)
		if decl == nil || decl.Kind() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		value := decl.ChildByFieldName("value")
		if nameNode == nil || value == nil {
			continue
		}
		name := nameNode.Utf8Text(source)
		switch value.Kind() {
		case "arrow_function", "function_expression", "generator_function":
			kind := SymbolKindFunction
			if isCapitalized(name) {
				kind = SymbolKindComponent
			}
			out = append(out, Symbol{Name: name, Kind: kind, Line: lineOf(decl)})
		}
	}
	return out
}

func (w *tsWalker) importSource(node *tree_sitter.Node, source []byte) string {
	srcNode := node.ChildByFieldName("source")
	if srcNode == nil {
		return ""
	}
	return strings.Trim(srcNode.Utf8Text(source), `'"`)
}

// Summarize mirrors the JavaScript-family summary, derived from the
// extracted symbol list.
func (w *tsWalker) Summarize(_ *tree_sitter.Node, symbols []Symbol) string {
	return jsFamilySummary(symbols)
}

// jsFamilySummary is shared by the TypeScript walker and the JavaScript
// pattern-heuristic extractor.
func jsFamilySummary(symbols []Symbol) string {
	components := 0
	functions := 0
	classes := 0
	for _, sym := range symbols {
		switch sym.Kind {
		case SymbolKindComponent:
			components++
		case SymbolKindFunction, SymbolKindDefaultExport:
			functions++
		case SymbolKindClass:
			classes++
		}
	}
	return fmt.Sprintf(
		"Exports %d components, %d functions, %d classes; %d top-level symbols detected.",
		components, functions, classes, len(symbols),
	)
}

// isCapitalized reports whether the first rune of name is an uppercase letter.
func isCapitalized(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
