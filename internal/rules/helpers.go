package rules

import (
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/sourcemap"
)

// Diag builds a Diagnostic for meta at span within f, resolving line/column
// information from f's source map. Rules use this instead of constructing
// diagnostic.Diagnostic literals directly so location resolution stays
// consistent across the catalogue.
func Diag(meta Metadata, f *file.ParsedFile, span sourcemap.Span, message string, confidence diagnostic.Confidence) diagnostic.Diagnostic {
	rng := f.SourceMap.SpanToRange(span)
	return diagnostic.Diagnostic{
		RuleID:     meta.ID,
		Severity:   meta.DefaultSeverity,
		Confidence: confidence,
		Message:    message,
		File:       f.Path,
		StartLine:  rng.Start.Line,
		StartCol:   rng.Start.Column,
		EndLine:    rng.End.Line,
		EndCol:     rng.End.Column,
	}
}

// Location is a convenience wrapper for rules that just need a line/col.
func Location(f *file.ParsedFile, span sourcemap.Span) sourcemap.Location {
	return f.SourceMap.SpanToLocation(span)
}
