package graph

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

// newGoExtractor builds the precise-parse extractor for Go sources.
func newGoExtractor() (Extractor, error) {
	return newTreeSitterExtractor(
		tree_sitter.NewLanguage(tree_sitter_go.Language()),
		&goWalker{},
	)
}

// goWalker walks Go ASTs. Methods are not textually nested inside their
// receiver's type declaration, so they stay at the root of the outline.
type goWalker struct{}

func (w *goWalker) Extract(root *tree_sitter.Node, source []byte) ([]Symbol, []string) {
	var symbols []Symbol
	var imports []string

	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "function_declaration":
			if sym, ok := w.named(child, source, SymbolKindFunction); ok {
				symbols = append(symbols, sym)
			}
		case "method_declaration":
			if sym, ok := w.named(child, source, SymbolKindMethod); ok {
				symbols = append(symbols, sym)
			}
		case "type_declaration":
			symbols = append(symbols, w.typeSpecs(child, source)...)
		case "import_declaration":
			w.importSpecs(child, source, &imports)
		}
	}

	return symbols, imports
}

func (w *goWalker) named(node *tree_sitter.Node, source []byte, kind SymbolKind) (Symbol, bool) {
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

// typeSpecs expands a type_declaration, which may group several type_spec
// children under one keyword.
func (w *goWalker) typeSpecs(node *tree_sitter.Node, source []byte) []Symbol {
	var out []Symbol
	for i := uint(0); i < node.NamedChildCount(); i++ {
		spec := node.NamedChild(i)
		if spec == nil || (spec.Kind() != "type_spec" && spec.Kind() != "type_alias") {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		kind := SymbolKindType
		if typeNode := spec.ChildByFieldName("type"); typeNode != nil && typeNode.Kind() == "interface_type" {
			kind = SymbolKindInterface
		}
		out = append(out, Symbol{
			Name: nameNode.Utf8Text(source),
			Kind: kind,
			Line: lineOf(spec),
			Doc:  precedingComment(node, source),
		})
	}
	return out
}

func (w *goWalker) importSpecs(node *tree_sitter.Node, source []byte, out *[]string) {
	var visit func(n *tree_sitter.Node)
	visit = func(n *tree_sitter.Node) {
		if n.Kind() == "import_spec" {
			pathNode := n.ChildByFieldName("path")
			if pathNode == nil {
				return
			}
			if spec := strings.Trim(pathNode.Utf8Text(source), `"`); spec != "" {
				*out = append(*out, spec)
			}
			return
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if child := n.NamedChild(i); child != nil {
				visit(child)
			}
		}
	}
	visit(node)
}

func (w *goWalker) Summarize(_ *tree_sitter.Node, symbols []Symbol) string {
	types := 0
	functions := 0
	methods := 0
	for _, sym := range symbols {
		switch sym.Kind {
		case SymbolKindType, SymbolKindInterface:
			types++
		case SymbolKindFunction:
			functions++
		case SymbolKindMethod:
			methods++
		}
	}
	return fmt.Sprintf("Declares %d types, %d functions, %d methods.", types, functions, methods)
}
