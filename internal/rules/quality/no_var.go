package quality

import (
	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
)

// NoVar is Q030: flags `var` declarations, which hoist to function scope
// and ignore block boundaries, in favor of `let`/`const`.
type NoVar struct{}

func (NoVar) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "Q030",
		Name:            "no-var",
		Description:     "disallow `var` declarations in favor of `let`/`const`",
		Category:        rules.Quality,
		DefaultSeverity: diagnostic.Warning,
		MinTier:         rules.Free,
	}
}

func (r NoVar) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	var visit func(n gast.Node)
	visit = func(n gast.Node) {
		if n.Type() == "variable_declaration" {
			out = append(out, rules.Diag(r.Metadata(), f, span(n),
				"unexpected var, use let or const instead", diagnostic.High))
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(f.Tree.Root)
	return out
}
