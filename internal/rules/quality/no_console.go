package quality

import (
	"fmt"
	"strings"

	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
)

// NoConsole is Q002: flags console.* calls outside files that look like
// scripts or CLI entry points, where console output is the point.
type NoConsole struct{}

func (NoConsole) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "Q002",
		Name:            "no-console",
		Description:     "disallow console.* calls outside scripts and CLI entry points",
		Category:        rules.Quality,
		DefaultSeverity: diagnostic.Info,
		MinTier:         rules.Free,
	}
}

func (r NoConsole) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	if looksLikeScript(f.Path) {
		return nil
	}
	var out []diagnostic.Diagnostic
	var visit func(n gast.Node)
	visit = func(n gast.Node) {
		if n.Type() == "call_expression" {
			if callee := n.ChildByFieldName("function"); !callee.IsZero() && callee.Type() == "member_expression" {
				obj := callee.ChildByFieldName("object")
				prop := callee.ChildByFieldName("property")
				if !obj.IsZero() && obj.Type() == "identifier" && obj.Text() == "console" && !prop.IsZero() {
					out = append(out, rules.Diag(r.Metadata(), f, span(n),
						fmt.Sprintf("unexpected console.%s, use the project logger instead", prop.Text()),
						diagnostic.High))
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

func looksLikeScript(path string) bool {
	p := strings.ToLower(path)
	for _, marker := range []string{"/scripts/", "/cli/", "/bin/"} {
		if strings.Contains(p, marker) || strings.HasPrefix(p, marker[1:]) {
			return true
		}
	}
	return false
}
