package quality

import (
	"fmt"

	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
	"github.com/grayline/vetjs/internal/symbol"
)

// NoUnusedImports is Q003: flags imported bindings that are never
// referenced and not re-exported.
type NoUnusedImports struct{}

func (NoUnusedImports) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "Q003",
		Name:            "no-unused-imports",
		Description:     "disallow imported bindings that are never used",
		Category:        rules.Quality,
		DefaultSeverity: diagnostic.Warning,
		MinTier:         rules.Free,
	}
}

func (r NoUnusedImports) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	model := f.Semantic
	var out []diagnostic.Diagnostic
	for _, sym := range model.Symbols.All() {
		if sym.Kind != symbol.Import {
			continue
		}
		if sym.Exported {
			continue
		}
		if sym.Name == "React" && model.HasJSX {
			continue
		}
		if len(sym.References) == 0 {
			out = append(out, rules.Diag(r.Metadata(), f, sym.DeclSpan,
				fmt.Sprintf("'%s' is imported but never used", sym.Name), diagnostic.High))
		}
	}
	return out
}
