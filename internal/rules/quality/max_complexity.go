package quality

import (
	"fmt"
	"strings"

	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
)

// MaxComplexity is Q010: flags functions whose cyclomatic complexity
// exceeds the threshold.
type MaxComplexity struct {
	Threshold int
}

// NewMaxComplexity builds the rule with the default threshold of 10.
func NewMaxComplexity() MaxComplexity { return MaxComplexity{Threshold: 10} }

func (MaxComplexity) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "Q010",
		Name:            "max-complexity",
		Description:     "disallow functions whose cyclomatic complexity exceeds the configured threshold",
		Category:        rules.Quality,
		DefaultSeverity: diagnostic.Warning,
		MinTier:         rules.Free,
	}
}

var functionLikeTypes = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"generator_function_declaration": true,
	"generator_function":             true,
	"arrow_function":                 true,
	"method_definition":              true,
}

func (r MaxComplexity) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	threshold := r.Threshold
	if threshold == 0 {
		threshold = 10
	}
	var out []diagnostic.Diagnostic

	var visit func(n gast.Node)
	visit = func(n gast.Node) {
		if functionLikeTypes[n.Type()] {
			count := 1 + complexityOf(n, f.Source)
			if count > threshold {
				name := "anonymous function"
				if nm := n.ChildByFieldName("name"); !nm.IsZero() {
					name = nm.Text()
				}
				out = append(out, rules.Diag(r.Metadata(), f, span(n),
					fmt.Sprintf("function '%s' has a cyclomatic complexity of %d (threshold %d)", name, count, threshold),
					diagnostic.High))
			}
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(f.Tree.Root)
	return out
}

// complexityOf counts decision points within n, not descending into nested
// function-like nodes (those are counted as their own units).
func complexityOf(n gast.Node, src []byte) int {
	total := 0
	for _, c := range n.Children() {
		if functionLikeTypes[c.Type()] {
			continue
		}
		total += nodeComplexity(c, src)
		total += complexityOf(c, src)
	}
	return total
}

func nodeComplexity(n gast.Node, src []byte) int {
	switch n.Type() {
	case "if_statement", "while_statement", "do_statement", "for_statement", "for_in_statement", "catch_clause", "ternary_expression":
		return 1
	case "switch_case":
		if value := n.ChildByFieldName("value"); !value.IsZero() {
			return 1
		}
		return 0
	case "binary_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if left.IsZero() || right.IsZero() {
			return 0
		}
		op := strings.TrimSpace(string(src[left.EndByte():right.StartByte()]))
		if op == "&&" || op == "||" || op == "??" {
			return 1
		}
		return 0
	default:
		return 0
	}
}
