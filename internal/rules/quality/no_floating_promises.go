package quality

import (
	"strings"

	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
)

// NoFloatingPromises is Q021: flags expression-statement calls that look
// asynchronous but whose result is neither awaited, voided, nor chained
// with .catch()/.finally().
type NoFloatingPromises struct{}

func (NoFloatingPromises) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "Q021",
		Name:            "no-floating-promises",
		Description:     "disallow unhandled promise-returning calls used as statements",
		Category:        rules.Quality,
		DefaultSeverity: diagnostic.Warning,
		MinTier:         rules.Pro,
	}
}

var asyncNamePrefixes = []string{
	"fetch", "get", "post", "put", "patch", "delete", "load", "save", "send",
	"create", "update", "remove", "connect", "query", "request",
}

var promiseStatics = map[string]bool{
	"all": true, "race": true, "any": true, "allSettled": true, "resolve": true, "reject": true,
}

func (r NoFloatingPromises) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	var visit func(n gast.Node)
	visit = func(n gast.Node) {
		if n.Type() == "expression_statement" && n.NamedChildCount() > 0 {
			expr := n.NamedChild(0)
			if isUnhandledAsyncCall(expr) {
				out = append(out, rules.Diag(r.Metadata(), f, span(expr),
					"promise-returning call is not awaited, voided, or handled with .catch()",
					asyncConfidence(expr)))
			}
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(f.Tree.Root)
	return out
}

func isUnhandledAsyncCall(n gast.Node) bool {
	if n.Type() != "call_expression" {
		return false
	}
	callee := n.ChildByFieldName("function")
	if callee.IsZero() {
		return false
	}
	if callee.Type() == "member_expression" {
		prop := callee.ChildByFieldName("property")
		if !prop.IsZero() && (prop.Text() == "catch" || prop.Text() == "finally") {
			return false
		}
	}
	return looksAsync(callee)
}

func asyncConfidence(n gast.Node) diagnostic.Confidence {
	callee := n.ChildByFieldName("function")
	name, chain, ok := calleeParts(callee)
	if ok && len(chain) > 0 && chain[len(chain)-1] == "Promise" && promiseStatics[name] {
		return diagnostic.High
	}
	if ok && strings.HasSuffix(name, "Async") {
		return diagnostic.High
	}
	return diagnostic.Medium
}

func looksAsync(callee gast.Node) bool {
	name, chain, ok := calleeParts(callee)
	if !ok {
		return false
	}
	if name == "then" {
		return true
	}
	if len(chain) > 0 && chain[len(chain)-1] == "Promise" && promiseStatics[name] {
		return true
	}
	if strings.HasSuffix(name, "Async") {
		return true
	}
	lower := strings.ToLower(name)
	for _, prefix := range asyncNamePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
