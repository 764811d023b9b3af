package security

import (
	"math"
	"regexp"
	"strings"

	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
)

// NoHardcodedSecrets is S010: flags string/template literal initializers
// that match a known credential format, or that look like a sensitive
// secret by name and pass a Shannon-entropy heuristic.
type NoHardcodedSecrets struct{}

func (NoHardcodedSecrets) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "S010",
		Name:            "no-hardcoded-secrets",
		Description:     "disallow hardcoded credentials and high-entropy secret-shaped literals",
		Category:        rules.Security,
		DefaultSeverity: diagnostic.Error,
		MinTier:         rules.Free,
	}
}

// secretFormat pairs a known-credential regexp with the human-readable name
// of what it matches, so a finding can name the credential type instead of
// a generic "known secret format" message.
type secretFormat struct {
	pattern *regexp.Regexp
	label   string
}

var secretPatterns = []secretFormat{
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "AWS Access Key"},
	{regexp.MustCompile(`sk_live_[0-9a-zA-Z]{16,}`), "Stripe Live Secret Key"},
	{regexp.MustCompile(`sk_test_[0-9a-zA-Z]{16,}`), "Stripe Test Secret Key"},
	{regexp.MustCompile(`gh[pous]_[0-9A-Za-z]{36,}`), "GitHub Token"},
	{regexp.MustCompile(`ghr_[0-9A-Za-z]{36,}`), "GitHub Refresh Token"},
	{regexp.MustCompile(`xox[baprs]-[0-9A-Za-z-]{10,}`), "Slack Token"},
	{regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`), "Google API Key"},
}

var sensitiveName = regexp.MustCompile(`(?i)(password|secret|token|api_?key|private_?key|credential)`)

var placeholderMarkers = []string{"your_", "xxx", "placeholder", "example", "${", "{{", "<", ">"}

func (r NoHardcodedSecrets) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	var visit func(n gast.Node)
	visit = func(n gast.Node) {
		if n.Type() == "variable_declarator" {
			if diag, ok := r.checkDeclarator(n, f); ok {
				out = append(out, diag)
			}
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(f.Tree.Root)
	return out
}

func (r NoHardcodedSecrets) checkDeclarator(n gast.Node, f *file.ParsedFile) (diagnostic.Diagnostic, bool) {
	name := n.ChildByFieldName("name")
	value := n.ChildByFieldName("value")
	if name.IsZero() || value.IsZero() || name.Type() != "identifier" {
		return diagnostic.Diagnostic{}, false
	}
	if isProcessEnvAccess(value) {
		return diagnostic.Diagnostic{}, false
	}
	literal, ok := stringLiteralValue(value)
	if !ok {
		return diagnostic.Diagnostic{}, false
	}
	for _, sf := range secretPatterns {
		if sf.pattern.MatchString(literal) {
			return rules.Diag(r.Metadata(), f, span(n),
				"hardcoded credential matches the "+sf.label+" format", diagnostic.High), true
		}
	}
	if !sensitiveName.MatchString(name.Text()) {
		return diagnostic.Diagnostic{}, false
	}
	if looksLikePlaceholder(literal) {
		return diagnostic.Diagnostic{}, false
	}
	if len(literal) < 16 {
		return diagnostic.Diagnostic{}, false
	}
	if shannonEntropy(literal) <= 3.5 {
		return diagnostic.Diagnostic{}, false
	}
	return rules.Diag(r.Metadata(), f, span(n),
		"'"+name.Text()+"' looks like a hardcoded high-entropy secret", diagnostic.Medium), true
}

// stringLiteralValue extracts the literal text of a plain string or a
// single-chunk (no interpolation) template literal.
func stringLiteralValue(n gast.Node) (string, bool) {
	switch n.Type() {
	case "string":
		text := n.Text()
		if len(text) >= 2 {
			return text[1 : len(text)-1], true
		}
		return "", false
	case "template_string":
		for _, c := range n.Children() {
			if c.Type() == "template_substitution" {
				return "", false
			}
		}
		text := n.Text()
		if len(text) >= 2 {
			return text[1 : len(text)-1], true
		}
		return "", false
	default:
		return "", false
	}
}

func isProcessEnvAccess(n gast.Node) bool {
	if n.Type() != "member_expression" {
		return false
	}
	obj := n.ChildByFieldName("object")
	if obj.IsZero() || obj.Type() != "member_expression" {
		return false
	}
	innerObj := obj.ChildByFieldName("object")
	innerProp := obj.ChildByFieldName("property")
	return !innerObj.IsZero() && innerObj.Type() == "identifier" && innerObj.Text() == "process" &&
		!innerProp.IsZero() && innerProp.Text() == "env"
}

func looksLikePlaceholder(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// shannonEntropy computes H = -Σ p_i · log2(p_i) over per-character
// frequencies in s.
func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	freq := make(map[rune]int)
	for _, r := range s {
		freq[r]++
	}
	total := float64(len(s))
	var h float64
	for _, count := range freq {
		p := float64(count) / total
		h -= p * math.Log2(p)
	}
	return h
}
