// Package format renders a finished analysis run, tool metadata plus the
// diagnostics it produced, into the five output shapes the driver
// supports: pretty, plain, JSON, NDJSON, and SARIF 2.1.0.
package format

import (
	"fmt"

	"github.com/grayline/vetjs/internal/diagnostic"
)

// Name identifies one of the supported output formats, matching the
// `--format` flag's accepted values.
type Name string

const (
	Pretty Name = "pretty"
	Plain  Name = "plain"
	JSON   Name = "json"
	NDJSON Name = "ndjson"
	SARIF  Name = "sarif"
)

// ParseName validates a `--format` flag value.
func ParseName(s string) (Name, bool) {
	switch Name(s) {
	case Pretty, Plain, JSON, NDJSON, SARIF:
		return Name(s), true
	default:
		return "", false
	}
}

// Result is everything a formatter needs about one analysis run.
type Result struct {
	ToolName      string
	ToolVersion   string
	RootPath      string
	FilesAnalyzed int
	Diagnostics   []diagnostic.Diagnostic
}

// LineSource looks up the raw text of one line of one file, for pretty's
// source-snippet rendering. Returns "" if the file or line is unknown.
type LineSource func(file string, line int) string

// Render dispatches to the formatter named by name.
func Render(name Name, result Result, src LineSource, color bool) (string, error) {
	switch name {
	case Pretty:
		return RenderPretty(result, src, color), nil
	case Plain:
		return RenderPlain(result), nil
	case JSON:
		return RenderJSON(result)
	case NDJSON:
		return RenderNDJSON(result)
	case SARIF:
		return RenderSARIF(result)
	default:
		return "", fmt.Errorf("format: unknown format %q", name)
	}
}

// isSecurityRule classifies a rule id by the catalogue's own id
// convention (Q-prefixed quality ids, S-prefixed security ids) rather
// than threading rules.Category through diagnostic.Diagnostic; the
// driver-facing formatters only ever see the flat diagnostic slice, not
// the registry that produced it.
func isSecurityRule(ruleID string) bool {
	return len(ruleID) > 0 && ruleID[0] == 'S'
}
