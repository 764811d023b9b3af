package security

import (
	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
)

// NoUnsafeDeserialization is S022: flags JSON.parse(x, reviver) where the
// reviver invokes a code-execution primitive, and the reverse direction:
// a code-execution primitive called with a JSON.parse(...) result.
type NoUnsafeDeserialization struct{}

func (NoUnsafeDeserialization) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "S022",
		Name:            "no-unsafe-deserialization",
		Description:     "disallow JSON.parse revivers or wrappers that invoke eval/Function/setTimeout/setInterval",
		Category:        rules.Security,
		DefaultSeverity: diagnostic.Error,
		MinTier:         rules.Free,
	}
}

var dangerousCallees = map[string]bool{
	"eval": true, "Function": true, "setTimeout": true, "setInterval": true,
}

func isJSONParse(n gast.Node) bool {
	if n.Type() != "call_expression" {
		return false
	}
	callee := n.ChildByFieldName("function")
	if callee.IsZero() || callee.Type() != "member_expression" {
		return false
	}
	obj := callee.ChildByFieldName("object")
	prop := callee.ChildByFieldName("property")
	return !obj.IsZero() && obj.Type() == "identifier" && obj.Text() == "JSON" &&
		!prop.IsZero() && prop.Text() == "parse"
}

func isDangerousCall(n gast.Node) bool {
	if n.Type() != "call_expression" && n.Type() != "new_expression" {
		return false
	}
	field := "function"
	if n.Type() == "new_expression" {
		field = "constructor"
	}
	callee := n.ChildByFieldName(field)
	return !callee.IsZero() && callee.Type() == "identifier" && dangerousCallees[callee.Text()]
}

func containsDangerousCall(n gast.Node) bool {
	if isDangerousCall(n) {
		return true
	}
	for _, c := range n.Children() {
		if containsDangerousCall(c) {
			return true
		}
	}
	return false
}

func containsJSONParse(n gast.Node) bool {
	if isJSONParse(n) {
		return true
	}
	for _, c := range n.Children() {
		if containsJSONParse(c) {
			return true
		}
	}
	return false
}

func (r NoUnsafeDeserialization) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	var visit func(n gast.Node)
	visit = func(n gast.Node) {
		if isJSONParse(n) {
			args := n.ChildByFieldName("arguments")
			if !args.IsZero() && args.NamedChildCount() > 1 {
				reviver := args.NamedChild(1)
				if containsDangerousCall(reviver) {
					out = append(out, rules.Diag(r.Metadata(), f, span(n),
						"JSON.parse reviver invokes a code-execution primitive", diagnostic.High))
				}
			}
		}
		if isDangerousCall(n) {
			args := n.ChildByFieldName("arguments")
			if !args.IsZero() {
				for i := 0; i < args.NamedChildCount(); i++ {
					if containsJSONParse(args.NamedChild(i)) {
						out = append(out, rules.Diag(r.Metadata(), f, span(n),
							"code-execution primitive called with a JSON.parse() result", diagnostic.High))
						break
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
