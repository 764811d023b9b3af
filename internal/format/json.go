package format

import (
	"bytes"
	"encoding/json"

	"github.com/grayline/vetjs/internal/diagnostic"
)

// jsonDocument is the single-document JSON shape: tool info, file count,
// analyzed path, and the full diagnostic array.
type jsonDocument struct {
	Tool          jsonTool           `json:"tool"`
	RootPath      string             `json:"rootPath"`
	FilesAnalyzed int                `json:"filesAnalyzed"`
	Diagnostics   []jsonDiagnostic   `json:"diagnostics"`
}

type jsonTool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type jsonDiagnostic struct {
	RuleID     string     `json:"ruleId"`
	Severity   string     `json:"severity"`
	Confidence string     `json:"confidence"`
	Message    string     `json:"message"`
	File       string     `json:"file"`
	StartLine  int        `json:"startLine"`
	StartCol   int        `json:"startCol"`
	EndLine    int        `json:"endLine"`
	EndCol     int        `json:"endCol"`
	Suggestion string     `json:"suggestion,omitempty"`
	Fixes      []jsonFix  `json:"fixes,omitempty"`
}

type jsonFix struct {
	Title     string `json:"title"`
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	EndLine   int    `json:"endLine,omitempty"`
	EndColumn int    `json:"endColumn,omitempty"`
}

func toJSONDiagnostic(d diagnostic.Diagnostic) jsonDiagnostic {
	jd := jsonDiagnostic{
		RuleID:     d.RuleID,
		Severity:   d.Severity.String(),
		Confidence: d.Confidence.String(),
		Message:    d.Message,
		File:       d.File,
		StartLine:  d.StartLine,
		StartCol:   d.StartCol,
		EndLine:    d.EndLine,
		EndCol:     d.EndCol,
		Suggestion: d.Suggestion,
	}
	for _, fx := range d.Fixes {
		kind := "replaceWith"
		if fx.Kind == diagnostic.InsertBefore {
			kind = "insertBefore"
		}
		jd.Fixes = append(jd.Fixes, jsonFix{
			Title: fx.Title, Kind: kind, Text: fx.Text,
			EndLine: fx.EndLine, EndColumn: fx.EndColumn,
		})
	}
	return jd
}

// RenderJSON renders the whole run as one JSON document.
func RenderJSON(result Result) (string, error) {
	doc := jsonDocument{
		Tool:          jsonTool{Name: result.ToolName, Version: result.ToolVersion},
		RootPath:      result.RootPath,
		FilesAnalyzed: result.FilesAnalyzed,
	}
	for _, d := range result.Diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, toJSONDiagnostic(d))
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderNDJSON renders one JSON object per diagnostic, newline-delimited.
func RenderNDJSON(result Result) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range result.Diagnostics {
		if err := enc.Encode(toJSONDiagnostic(d)); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
