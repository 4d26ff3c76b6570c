package graph

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// newJavaExtractor builds the precise-parse extractor for Java sources. When
// the grammar cannot be loaded the strategy table falls back to the
// pattern-heuristic variant.
func newJavaExtractor() (Extractor, error) {
	return newTreeSitterExtractor(
		tree_sitter.NewLanguage(tree_sitter_java.Language()),
		&javaWalker{},
	)
}

// javaWalker walks Java ASTs. Type declarations carry their methods and
// nested types as children.
type javaWalker struct{}

func (w *javaWalker) Extract(root *tree_sitter.Node, source []byte) ([]Symbol, []string) {
	var symbols []Symbol
	var imports []string
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
			if sym, ok := w.typeDeclaration(child, source); ok {
				symbols = append(symbols, sym)
			}
		case "import_declaration":
			if spec := w.importSpecifier(child, source); spec != "" {
				imports = append(imports, spec)
			}
		}
	}
	return symbols, imports
}

func (w *javaWalker) typeDeclaration(node *tree_sitter.Node, source []byte) (Symbol, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Symbol{}, false
	}

	var kind SymbolKind
	switch node.Kind() {
	case "interface_declaration":
		kind = SymbolKindInterface
	case "enum_declaration":
		kind = SymbolKindEnum
	default:
		kind = SymbolKindClass
	}

	sym := Symbol{
		Name: nameNode.Utf8Text(source),
		Kind: kind,
		Line: lineOf(node),
		Doc:  precedingComment(node, source),
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return sym, true
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		if member == nil {
			continue
		}
		switch member.Kind() {
		case "method_declaration", "constructor_declaration":
			memberName := member.ChildByFieldName("name")
			if memberName == nil {
				continue
			}
			sym.Children = append(sym.Children, Symbol{
				Name: memberName.Utf8Text(source),
				Kind: SymbolKindMethod,
				Line: lineOf(member),
				Doc:  precedingComment(member, source),
			})
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
			if nested, ok := w.typeDeclaration(member, source); ok {
				sym.Children = append(sym.Children, nested)
			}
		}
	}
	return sym, true
}

// importSpecifier returns the dotted import target, keeping a trailing ".*"
// for wildcard imports so the resolver can map them to a package directory.
func (w *javaWalker) importSpecifier(node *tree_sitter.Node, source []byte) string {
	text := node.Utf8Text(source)
	text = strings.TrimPrefix(text, "import")
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "static")
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	return strings.ReplaceAll(strings.TrimSpace(text), " ", "")
}

func (w *javaWalker) Summarize(_ *tree_sitter.Node, symbols []Symbol) string {
	return javaSummary(symbols)
}

// javaSummary is shared by the precise walker and the heuristic fallback.
func javaSummary(symbols []Symbol) string {
	types := 0
	methods := 0
	for _, sym := range symbols {
		switch sym.Kind {
		case SymbolKindClass, SymbolKindInterface, SymbolKindEnum:
			types++
		}
		for _, child := range sym.Children {
			if child.Kind == SymbolKindMethod {
				methods++
			}
		}
	}
	return fmt.Sprintf("Declares %d types with %d methods.", types, methods)
}
