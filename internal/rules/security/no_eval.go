package security

import (
	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
	"github.com/grayline/vetjs/internal/sourcemap"
)

// NoEval is S020: a non-taint-gated companion to the taint engine's
// eval/Function finding (S001). Flags every call regardless of argument
// taint, at Warning severity.
type NoEval struct{}

func (NoEval) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "S020",
		Name:            "no-eval",
		Description:     "disallow eval and the Function constructor regardless of argument taint",
		Category:        rules.Security,
		DefaultSeverity: diagnostic.Warning,
		MinTier:         rules.Pro,
	}
}

func (r NoEval) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	var visit func(n gast.Node)
	visit = func(n gast.Node) {
		if n.Type() == "call_expression" || n.Type() == "new_expression" {
			if callee := n.ChildByFieldName("function"); !callee.IsZero() && callee.Type() == "identifier" {
				if callee.Text() == "eval" || callee.Text() == "Function" {
					out = append(out, rules.Diag(r.Metadata(), f, span(n),
						"unexpected eval/Function constructor use", diagnostic.High))
				}
			}
			if n.Type() == "new_expression" {
				if ctor := n.ChildByFieldName("constructor"); !ctor.IsZero() && ctor.Type() == "identifier" && ctor.Text() == "Function" {
					out = append(out, rules.Diag(r.Metadata(), f, span(n),
						"unexpected eval/Function constructor use", diagnostic.High))
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

func span(n gast.Node) sourcemap.Span {
	return sourcemap.Span{Lo: n.StartByte(), Hi: n.EndByte()}
}
