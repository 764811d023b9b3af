package quality

import (
	"fmt"

	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
	"github.com/grayline/vetjs/internal/scope"
	"github.com/grayline/vetjs/internal/semantic"
	"github.com/grayline/vetjs/internal/sourcemap"
	"github.com/grayline/vetjs/internal/symbol"
)

// PreferConst is Q031: flags `let` bindings that are never reassigned and
// suggests rewriting them to `const`.
type PreferConst struct{}

func (PreferConst) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "Q031",
		Name:            "prefer-const",
		Description:     "disallow `let` bindings that are never reassigned",
		Category:        rules.Quality,
		DefaultSeverity: diagnostic.Warning,
		MinTier:         rules.Free,
	}
}

func (r PreferConst) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	model := f.Semantic
	var out []diagnostic.Diagnostic
	for _, sym := range model.Symbols.All() {
		if sym.Kind != symbol.Variable || sym.Decl != symbol.DeclLet {
			continue
		}
		if model.Scopes.Get(sym.Scope).Kind == scope.For {
			continue // for/for-in/for-of head bindings are conservatively mutable
		}
		if !model.Initialized[sym.ID] {
			continue
		}
		if everMutated(sym, model) {
			continue
		}
		letSpan, ok := model.LetKeyword[sym.ID]
		if !ok {
			continue
		}
		endLoc := rules.Location(f, sourcemap.Span{Lo: letSpan.Hi, Hi: letSpan.Hi})
		diag := rules.Diag(r.Metadata(), f, letSpan,
			fmt.Sprintf("'%s' is never reassigned; use const instead of let", sym.Name), diagnostic.High)
		diag.Suggestion = "use const instead of let"
		diag.Fixes = []diagnostic.Fix{{
			Title:     "Replace 'let' with 'const'",
			Kind:      diagnostic.ReplaceWith,
			Text:      "const",
			EndLine:   endLoc.Line,
			EndColumn: endLoc.Column,
		}}
		out = append(out, diag)
	}
	return out
}

// everMutated reports whether sym is ever reassigned: a plain assignment
// (RefWrite) or the operand of an increment/decrement expression, even
// though the latter counts as a Read for no-unused-vars and taint purposes.
func everMutated(sym symbol.Symbol, model *semantic.Model) bool {
	if model.Updated[sym.ID] {
		return true
	}
	for _, span := range sym.References {
		if kind, ok := model.RefKinds[span]; ok && kind == semantic.RefWrite {
			return true
		}
	}
	return false
}
