package graph

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// newPythonExtractor builds the precise-parse extractor for Python sources.
func newPythonExtractor() (Extractor, error) {
	return newTreeSitterExtractor(
		tree_sitter.NewLanguage(tree_sitter_python.Language()),
		&pyWalker{},
	)
}

// pyWalker walks Python ASTs. Class and function definitions become symbols
// with their nested definitions as children; definitions inside plain
// statements (conditionals, try blocks) attach to the nearest enclosing
// definition, or to the module root.
type pyWalker struct{}

func (w *pyWalker) Extract(root *tree_sitter.Node, source []byte) ([]Symbol, []string) {
	symbols := w.collect(root, source)
	var imports []string
	w.collectImports(root, source, &imports)
	return symbols, imports
}

func (w *pyWalker) collect(node *tree_sitter.Node, source []byte) []Symbol {
	var out []Symbol
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "function_definition":
			out = append(out, w.definition(child, source, w.functionKind(child)))
		case "class_definition":
			out = append(out, w.definition(child, source, SymbolKindClass))
		default:
			out = append(out, w.collect(child, source)...)
		}
	}
	return out
}

func (w *pyWalker) definition(node *tree_sitter.Node, source []byte, kind SymbolKind) Symbol {
	name := ""
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		name = nameNode.Utf8Text(source)
	}
	sym := Symbol{
		Name: name,
		Kind: kind,
		Line: lineOf(node),
		Doc:  pyDocstring(node, source),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		sym.Children = w.collect(body, source)
	}
	return sym
}

// functionKind distinguishes async from plain function definitions by the
// presence of the "async" keyword token.
func (w *pyWalker) functionKind(node *tree_sitter.Node) SymbolKind {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == "async" {
			return SymbolKindAsyncFunction
		}
	}
	return SymbolKindFunction
}

// pyDocstring returns the docstring of a definition: the string literal that
// forms the first statement of its body, if any.
func pyDocstring(node *tree_sitter.Node, source []byte) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	stmt := body.NamedChild(0)
	if stmt == nil || stmt.Kind() != "expression_statement" || stmt.NamedChildCount() == 0 {
		return ""
	}
	str := stmt.NamedChild(0)
	if str == nil || str.Kind() != "string" {
		return ""
	}
	for i := uint(0); i < str.NamedChildCount(); i++ {
		part := str.NamedChild(i)
		if part != nil && part.Kind() == "string_content" {
			return strings.TrimSpace(part.Utf8Text(source))
		}
	}
	return ""
}

// collectImports flattens import and from-import statements into dotted or
// plain module names. "from pkg.b import thing" yields "pkg.b.thing";
// relative-import dots are dropped so "from . import b" yields "b", which the
// resolver probes against the importing file's directory.
func (w *pyWalker) collectImports(node *tree_sitter.Node, source []byte, out *[]string) {
	switch node.Kind() {
	case "import_statement":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "dotted_name":
				if name := child.Utf8Text(source); name != "" {
					*out = append(*out, name)
				}
			case "aliased_import":
				if nameNode := child.ChildByFieldName("name"); nameNode != nil {
					if name := nameNode.Utf8Text(source); name != "" {
						*out = append(*out, name)
					}
				}
			}
		}
		return

	case "import_from_statement":
		w.collectFromImport(node, source, out)
		return
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil {
			w.collectImports(child, source, out)
		}
	}
}

func (w *pyWalker) collectFromImport(node *tree_sitter.Node, source []byte, out *[]string) {
	moduleNode := node.ChildByFieldName("module_name")
	module := ""
	if moduleNode != nil {
		module = strings.Trim(moduleNode.Utf8Text(source), ".")
	}

	appended := false
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || (moduleNode != nil && child.Id() == moduleNode.Id()) {
			continue
		}
		var name string
		switch child.Kind() {
		case "dotted_name", "identifier":
			name = child.Utf8Text(source)
		case "aliased_import":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				name = nameNode.Utf8Text(source)
			}
		case "wildcard_import":
			if module != "" {
				*out = append(*out, module)
				appended = true
			}
			continue
		default:
			continue
		}
		if name == "" {
			continue
		}
		if module != "" {
			*out = append(*out, module+"."+name)
		} else {
			*out = append(*out, name)
		}
		appended = true
	}

	if !appended && module != "" {
		*out = append(*out, module)
	}
}

// Summarize reports top-level declaration counts and the module statement
// length, both derived from the real parse tree.
func (w *pyWalker) Summarize(root *tree_sitter.Node, symbols []Symbol) string {
	classes := 0
	functions := 0
	for _, sym := range symbols {
		switch sym.Kind {
		case SymbolKindClass:
			classes++
		case SymbolKindFunction, SymbolKindAsyncFunction:
			functions++
		}
	}
	return fmt.Sprintf(
		"Top-level declarations: %d classes, %d functions; module length %d statements.",
		classes, functions, root.NamedChildCount(),
	)
}
