package quality

import (
	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
)

// NoDebugger is Q005: flags `debugger;` statements left in source.
type NoDebugger struct{}

func (NoDebugger) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "Q005",
		Name:            "no-debugger",
		Description:     "disallow debugger statements",
		Category:        rules.Quality,
		DefaultSeverity: diagnostic.Warning,
		MinTier:         rules.Free,
	}
}

func (r NoDebugger) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	var visit func(n gast.Node)
	visit = func(n gast.Node) {
		if n.Type() == "debugger_statement" {
			out = append(out, rules.Diag(r.Metadata(), f, span(n), "unexpected debugger statement", diagnostic.High))
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(f.Tree.Root)
	return out
}
