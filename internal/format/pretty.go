package format

import (
	"fmt"
	"strings"

	"github.com/grayline/vetjs/internal/diagnostic"
)

// ANSI escape codes. The handful of sequences needed are few and fixed,
// not worth a dependency to generate.
const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiGray   = "\x1b[90m"
)

func severityColor(s diagnostic.Severity) string {
	switch s {
	case diagnostic.Error:
		return ansiRed
	case diagnostic.Warning:
		return ansiYellow
	default:
		return ansiCyan
	}
}

// RenderPretty renders a human-readable report: one block per diagnostic
// with a source-snippet line and a caret under the offending column, when
// src can resolve the line's text.
func RenderPretty(result Result, src LineSource, color bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "analyzed %d file(s) under %s\n\n", result.FilesAnalyzed, result.RootPath)
	if len(result.Diagnostics) == 0 {
		b.WriteString("no diagnostics\n")
		return b.String()
	}
	for _, d := range result.Diagnostics {
		writeDiagBlock(&b, d, src, color)
	}
	fmt.Fprintf(&b, "%d diagnostic(s)\n", len(result.Diagnostics))
	return b.String()
}

func writeDiagBlock(b *strings.Builder, d diagnostic.Diagnostic, src LineSource, color bool) {
	sev := strings.ToUpper(d.Severity.String())
	if color {
		fmt.Fprintf(b, "%s%s%s %s[%s]%s %s\n", severityColor(d.Severity), sev, ansiReset, ansiBold, d.RuleID, ansiReset, d.Message)
	} else {
		fmt.Fprintf(b, "%s [%s] %s\n", sev, d.RuleID, d.Message)
	}
	fmt.Fprintf(b, "  --> %s:%d:%d\n", d.File, d.StartLine, d.StartCol)
	if src != nil {
		if line := src(d.File, d.StartLine); line != "" {
			gutter := fmt.Sprintf("%d", d.StartLine)
			fmt.Fprintf(b, "  %s | %s\n", gutter, line)
			caretPad := strings.Repeat(" ", d.StartCol)
			caretColor, caretReset := "", ""
			if color {
				caretColor, caretReset = ansiRed, ansiReset
			}
			fmt.Fprintf(b, "  %s | %s%s^%s\n", strings.Repeat(" ", len(gutter)), caretPad, caretColor, caretReset)
		}
	}
	if d.Suggestion != "" {
		if color {
			fmt.Fprintf(b, "  %ssuggestion:%s %s\n", ansiGray, ansiReset, d.Suggestion)
		} else {
			fmt.Fprintf(b, "  suggestion: %s\n", d.Suggestion)
		}
	}
	b.WriteString("\n")
}
