// Package quality implements the Quality-category rule catalogue.
package quality

import (
	"fmt"
	"strings"

	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
	"github.com/grayline/vetjs/internal/scope"
	"github.com/grayline/vetjs/internal/semantic"
	"github.com/grayline/vetjs/internal/symbol"
)

// NoUnusedVars is Q001: flags declared symbols that are never read.
type NoUnusedVars struct{}

func (NoUnusedVars) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "Q001",
		Name:            "no-unused-vars",
		Description:     "disallow declared variables, functions, and classes that are never used",
		Category:        rules.Quality,
		DefaultSeverity: diagnostic.Warning,
		MinTier:         rules.Free,
	}
}

func (r NoUnusedVars) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	model := f.Semantic
	var out []diagnostic.Diagnostic

	paramGroups := groupParameters(model)

	for _, sym := range model.Symbols.All() {
		if sym.Kind == symbol.Import {
			continue // covered by Q003
		}
		if sym.Exported {
			continue
		}
		if strings.HasPrefix(sym.Name, "_") {
			continue
		}
		if sym.Kind == symbol.Parameter && model.Scopes.Get(sym.Scope).Kind == scope.Catch {
			continue
		}
		if sym.Kind == symbol.Parameter && isReactImportInJSX(sym, model, f) {
			continue
		}

		if sym.Kind == symbol.Parameter {
			if argsAfterUsed(sym, paramGroups) {
				continue
			}
		}

		if len(sym.References) == 0 {
			if sym.Kind == symbol.FunctionSym && isReactInJSX(sym, model, f) {
				continue
			}
			out = append(out, rules.Diag(r.Metadata(), f, sym.DeclSpan,
				fmt.Sprintf("'%s' is never used", sym.Name), diagnostic.High))
			continue
		}

		if sym.Kind == symbol.Variable || sym.Kind == symbol.Constant {
			if writeOnly(sym, model) {
				out = append(out, rules.Diag(r.Metadata(), f, sym.DeclSpan,
					fmt.Sprintf("'%s' is assigned a value but never used", sym.Name), diagnostic.Medium))
			}
		}
	}
	return out
}

func writeOnly(sym symbol.Symbol, model *semantic.Model) bool {
	for _, span := range sym.References {
		kind, marked := model.RefKinds[span]
		if !marked || kind != semantic.RefWrite {
			return false
		}
	}
	return true
}

// isReactImportInJSX / isReactInJSX suppress the "React" import/name in
// JSX-containing files where JSX desugars to a reference the parser itself
// doesn't always model explicitly.
func isReactImportInJSX(sym symbol.Symbol, model *semantic.Model, f *file.ParsedFile) bool {
	return sym.Name == "React" && model.HasJSX
}

func isReactInJSX(sym symbol.Symbol, model *semantic.Model, f *file.ParsedFile) bool {
	return sym.Name == "React" && model.HasJSX
}

// groupParameters buckets parameter symbols by their declaring scope, the
// unit "args-after-used" reasons about.
func groupParameters(model *semantic.Model) map[scope.ID][]symbol.Symbol {
	groups := make(map[scope.ID][]symbol.Symbol)
	for _, sym := range model.Symbols.All() {
		if sym.Kind != symbol.Parameter {
			continue
		}
		if model.Scopes.Get(sym.Scope).Kind == scope.Catch {
			continue
		}
		groups[sym.Scope] = append(groups[sym.Scope], sym)
	}
	for scopeID := range groups {
		params := groups[scopeID]
		for i := 0; i < len(params); i++ {
			for j := i + 1; j < len(params); j++ {
				if params[j].DeclSpan.Lo < params[i].DeclSpan.Lo {
					params[i], params[j] = params[j], params[i]
				}
			}
		}
		groups[scopeID] = params
	}
	return groups
}

// argsAfterUsed reports whether sym is a callback parameter positioned
// before the last parameter in its group that has any reference, the
// "args-after-used" exception, e.g. (item, index) => use(index).
func argsAfterUsed(sym symbol.Symbol, groups map[scope.ID][]symbol.Symbol) bool {
	params := groups[sym.Scope]
	lastUsed := -1
	myIndex := -1
	for i, p := range params {
		if p.ID == sym.ID {
			myIndex = i
		}
		if len(p.References) > 0 {
			lastUsed = i
		}
	}
	return myIndex >= 0 && myIndex < lastUsed
}
