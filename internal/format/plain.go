package format

import (
	"fmt"
	"strings"
)

// RenderPlain renders one line per diagnostic:
// `file:line:col: severity [rule]: message`, followed by an indented
// `suggestion:` line when the diagnostic carries one.
func RenderPlain(result Result) string {
	var b strings.Builder
	for _, d := range result.Diagnostics {
		fmt.Fprintf(&b, "%s:%d:%d: %s [%s]: %s\n",
			d.File, d.StartLine, d.StartCol, d.Severity, d.RuleID, d.Message)
		if d.Suggestion != "" {
			fmt.Fprintf(&b, "  suggestion: %s\n", d.Suggestion)
		}
	}
	return b.String()
}
