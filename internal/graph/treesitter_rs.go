package graph

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// newRustExtractor builds the precise-parse extractor for Rust sources.
func newRustExtractor() (Extractor, error) {
	return newTreeSitterExtractor(
		tree_sitter.NewLanguage(tree_sitter_rust.Language()),
		&rsWalker{},
	)
}

// rsWalker walks Rust ASTs. Functions inside an impl block become method
// children of a synthetic symbol named after the impl target, so the outline
// keeps textual containment.
type rsWalker struct{}

func (w *rsWalker) Extract(root *tree_sitter.Node, source []byte) ([]Symbol, []string) {
	var symbols []Symbol
	var imports []string
	w.walk(root, source, &symbols, &imports)
	return symbols, imports
}

func (w *rsWalker) walk(node *tree_sitter.Node, source []byte, symbols *[]Symbol, imports *[]string) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "function_item":
			if sym, ok := w.named(child, source, SymbolKindFunction); ok {
				*symbols = append(*symbols, sym)
			}
		case "struct_item":
			if sym, ok := w.named(child, source, SymbolKindType); ok {
				*symbols = append(*symbols, sym)
			}
		case "enum_item":
			if sym, ok := w.named(child, source, SymbolKindEnum); ok {
				*symbols = append(*symbols, sym)
			}
		case "trait_item":
			if sym, ok := w.trait(child, source); ok {
				*symbols = append(*symbols, sym)
			}
		case "type_item":
			if sym, ok := w.named(child, source, SymbolKindType); ok {
				*symbols = append(*symbols, sym)
			}
		case "impl_item":
			if sym, ok := w.impl(child, source); ok {
				*symbols = append(*symbols, sym)
			}
		case "mod_item":
			// Inline modules keep their declarations in the same file.
			if body := child.ChildByFieldName("body"); body != nil {
				w.walk(body, source, symbols, imports)
			}
		case "use_declaration":
			if spec := w.useSpecifier(child, source); spec != "" {
				*imports = append(*imports, spec)
			}
		}
	}
}

func (w *rsWalker) named(node *tree_sitter.Node, source []byte, kind SymbolKind) (Symbol, bool) {
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

func (w *rsWalker) trait(node *tree_sitter.Node, source []byte) (Symbol, bool) {
	sym, ok := w.named(node, source, SymbolKindInterface)
	if !ok {
		return Symbol{}, false
	}
	sym.Children = w.bodyFunctions(node.ChildByFieldName("body"), source)
	return sym, true
}

// impl produces a symbol named after the impl target type carrying the
// block's functions as method children.
func (w *rsWalker) impl(node *tree_sitter.Node, source []byte) (Symbol, bool) {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return Symbol{}, false
	}
	return Symbol{
		Name:     typeNode.Utf8Text(source),
		Kind:     SymbolKindClass,
		Line:     lineOf(node),
		Children: w.bodyFunctions(node.ChildByFieldName("body"), source),
	}, true
}

func (w *rsWalker) bodyFunctions(body *tree_sitter.Node, source []byte) []Symbol {
	if body == nil {
		return nil
	}
	var out []Symbol
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child == nil || child.Kind() != "function_item" && child.Kind() != "function_signature_item" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		out = append(out, Symbol{
			Name: nameNode.Utf8Text(source),
			Kind: SymbolKindMethod,
			Line: lineOf(child),
		})
	}
	return out
}

// useSpecifier returns the use path with any trailing use-list stripped:
// "crate::model::{Repository, User}" becomes "crate::model".
func (w *rsWalker) useSpecifier(node *tree_sitter.Node, source []byte) string {
	argNode := node.ChildByFieldName("argument")
	if argNode == nil {
		return ""
	}
	spec := argNode.Utf8Text(source)
	if idx := strings.Index(spec, "::{"); idx != -1 {
		spec = spec[:idx]
	}
	return strings.TrimSpace(spec)
}

func (w *rsWalker) Summarize(_ *tree_sitter.Node, symbols []Symbol) string {
	types := 0
	functions := 0
	methods := 0
	for _, sym := range symbols {
		switch sym.Kind {
		case SymbolKindType, SymbolKindEnum, SymbolKindInterface, SymbolKindClass:
			types++
		case SymbolKindFunction:
			functions++
		}
		methods += len(sym.Children)
	}
	return fmt.Sprintf("Declares %d types, %d functions, %d methods.", types, functions, methods)
}
