package quality

import (
	"fmt"
	"strings"

	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/dfg"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
)

// PreferUsing is Q020: flags declarators initialized by a call to a
// disposable-producing API whose binding is never returned, suggesting
// `using`/`await using`.
type PreferUsing struct{}

func (PreferUsing) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "Q020",
		Name:            "prefer-using",
		Description:     "suggest `using`/`await using` for bindings holding a disposable resource",
		Category:        rules.Quality,
		DefaultSeverity: diagnostic.Info,
		MinTier:         rules.Pro,
	}
}

// disposableMethods are exact object-path-agnostic method names known to
// return a disposable resource.
var disposableMethods = map[string]bool{
	"open":    true,
	"acquire": true,
	"connect": true,
}

func looksDisposable(callee gast.Node) (bool, diagnostic.Confidence) {
	name, chain, ok := calleeParts(callee)
	if !ok {
		return false, diagnostic.Low
	}
	if len(chain) > 0 && chain[len(chain)-1] == "fsPromises" && name == "open" {
		return true, diagnostic.High
	}
	if disposableMethods[name] {
		return true, diagnostic.High
	}
	if strings.HasPrefix(name, "openFile") {
		return true, diagnostic.Medium
	}
	return false, diagnostic.Low
}

// calleeParts extracts (methodName, objectChain, ok) from a call's callee
// expression, reusing the dfg package's chain walker for member expressions.
func calleeParts(callee gast.Node) (string, []string, bool) {
	switch callee.Type() {
	case "identifier":
		return callee.Text(), nil, true
	case "member_expression":
		prop := callee.ChildByFieldName("property")
		if prop.IsZero() {
			return "", nil, false
		}
		chain, _ := dfg.ObjectChain(callee)
		return prop.Text(), chain, true
	default:
		return "", nil, false
	}
}

func (r PreferUsing) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	var visit func(n gast.Node)
	visit = func(n gast.Node) {
		if n.Type() == "variable_declarator" {
			if value := n.ChildByFieldName("value"); !value.IsZero() {
				call := value
				if call.Type() == "await_expression" && call.NamedChildCount() > 0 {
					call = call.NamedChild(0)
				}
				if call.Type() == "call_expression" {
					if callee := call.ChildByFieldName("function"); !callee.IsZero() {
						if ok, conf := looksDisposable(callee); ok {
							name := n.ChildByFieldName("name")
							nameText := "binding"
							if !name.IsZero() {
								nameText = name.Text()
							}
							if !isReturned(enclosingBody(n), nameText) {
								out = append(out, rules.Diag(r.Metadata(), f, span(n),
									fmt.Sprintf("'%s' holds a disposable resource; consider `using`/`await using`", nameText),
									conf))
							}
						}
					}
				}
			}
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(f.Tree.Root)
	return out
}

// enclosingBody walks up from n to the nearest enclosing function's body, or
// the program root for a top-level declarator.
func enclosingBody(n gast.Node) gast.Node {
	cur := n.Parent()
	for !cur.IsZero() {
		switch cur.Type() {
		case "function_declaration", "function_expression", "generator_function_declaration",
			"generator_function", "method_definition", "arrow_function":
			if body := cur.ChildByFieldName("body"); !body.IsZero() {
				return body
			}
			return cur
		case "program":
			return cur
		}
		cur = cur.Parent()
	}
	return n
}

// isReturned reports whether nameText appears anywhere in the expression of
// a return_statement within body, the "subsequently returned" condition that
// exempts a disposable binding from the using suggestion.
func isReturned(body gast.Node, nameText string) bool {
	found := false
	var visit func(n gast.Node)
	visit = func(n gast.Node) {
		if found {
			return
		}
		if n.Type() == "return_statement" && identifierIn(n, nameText) {
			found = true
			return
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(body)
	return found
}

func identifierIn(n gast.Node, nameText string) bool {
	if n.Type() == "identifier" && n.Text() == nameText {
		return true
	}
	for _, c := range n.Children() {
		if identifierIn(c, nameText) {
			return true
		}
	}
	return false
}
