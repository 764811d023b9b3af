// Package security implements the Security-category rule catalogue,
// combining the taint propagator (C8/C9) with single-purpose AST checks.
package security

import (
	"fmt"

	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/dfg"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
	"github.com/grayline/vetjs/internal/taint"
)

// TaintFindings runs the full Seed/Propagate/Find pipeline over a file's
// data-flow graph and reports every source-to-sink flow found. Each sink
// category carries its own stable SARIF id, looked up from sinkRuleIDs;
// the rule registration below (ID "S000") is an umbrella used only for
// tier/category/disable gating.
type TaintFindings struct {
	Registries *taint.Registries
}

// NewTaintFindings builds the rule with the built-in source/sink/sanitizer
// registries merged with any user-configured patterns.
func NewTaintFindings(reg *taint.Registries) TaintFindings {
	return TaintFindings{Registries: reg}
}

func (TaintFindings) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "S000",
		Name:            "taint-to-sink",
		Description:     "report data-flow paths from an untrusted source to a dangerous sink",
		Category:        rules.Security,
		DefaultSeverity: diagnostic.Error,
		MinTier:         rules.Free,
	}
}

var sinkRuleIDs = map[taint.SinkCategory]string{
	taint.CodeExecution:    "S001",
	taint.CommandInjection: "S002",
	taint.SqlInjection:     "S003",
	taint.XssSink:          "S004",
	taint.FileSystemSink:   "S005",
	taint.PathTraversal:    "S006",
	taint.NetworkRequest:   "S007",
	taint.CryptoSensitive:  "S011",
}

var sinkRuleNames = map[taint.SinkCategory]string{
	taint.CodeExecution:    "taint-to-code-execution",
	taint.CommandInjection: "taint-to-command-injection",
	taint.SqlInjection:     "taint-to-sql-injection",
	taint.XssSink:          "taint-to-xss",
	taint.FileSystemSink:   "taint-to-file-system",
	taint.PathTraversal:    "taint-to-path-traversal",
	taint.NetworkRequest:   "taint-to-network-request",
	taint.CryptoSensitive:  "insecure-randomness",
}

func (r TaintFindings) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	g := dfg.Build(f.Tree.Root, f.Semantic.Scopes.Root())
	state := taint.Seed(g, r.Registries)
	taint.Propagate(g, r.Registries, state)
	findings := taint.Find(g, r.Registries, state)

	var out []diagnostic.Diagnostic
	for _, finding := range findings {
		meta := r.Metadata()
		if id, ok := sinkRuleIDs[finding.SinkCategory]; ok {
			meta.ID = id
		}
		if name, ok := sinkRuleNames[finding.SinkCategory]; ok {
			meta.Name = name
		}
		msg := fmt.Sprintf("untrusted data (%s) flows into a %s sink", finding.SourceCategory, finding.SinkCategory)
		diag := rules.Diag(meta, f, finding.SinkSpan, msg, diagnostic.High)
		out = append(out, diag)
	}
	return out
}
