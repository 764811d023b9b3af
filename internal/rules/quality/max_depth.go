package quality

import (
	"fmt"

	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
)

// MaxDepth is Q011: flags functions whose control-flow nesting exceeds the
// configured threshold.
type MaxDepth struct {
	Threshold int
}

func NewMaxDepth() MaxDepth { return MaxDepth{Threshold: 4} }

func (MaxDepth) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "Q011",
		Name:            "max-depth",
		Description:     "disallow control-flow nesting deeper than the configured threshold",
		Category:        rules.Quality,
		DefaultSeverity: diagnostic.Warning,
		MinTier:         rules.Free,
	}
}

var depthTypes = map[string]bool{
	"if_statement":      true,
	"while_statement":   true,
	"do_statement":      true,
	"for_statement":     true,
	"for_in_statement":  true,
	"switch_statement":  true,
	"try_statement":     true,
	"with_statement":    true,
}

func (r MaxDepth) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	threshold := r.Threshold
	if threshold == 0 {
		threshold = 4
	}
	var out []diagnostic.Diagnostic
	var visit func(n gast.Node)
	visit = func(n gast.Node) {
		if functionLikeTypes[n.Type()] {
			best, deepest := maxDepth(n, 0, n)
			if best > threshold {
				name := "anonymous function"
				if nm := n.ChildByFieldName("name"); !nm.IsZero() {
					name = nm.Text()
				}
				out = append(out, rules.Diag(r.Metadata(), f, span(deepest),
					fmt.Sprintf("function '%s' has a nesting depth of %d (threshold %d)", name, best, threshold),
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

func maxDepth(n gast.Node, d int, best gast.Node) (int, gast.Node) {
	bestDepth := d
	bestNode := best
	for _, c := range n.Children() {
		if functionLikeTypes[c.Type()] {
			continue
		}
		nd := d
		node := bestNode
		if depthTypes[c.Type()] {
			nd = d + 1
			if nd > bestDepth {
				bestDepth = nd
				bestNode = c
				node = c
			}
		}
		sub, subNode := maxDepth(c, nd, node)
		if sub > bestDepth {
			bestDepth = sub
			bestNode = subNode
		}
	}
	return bestDepth, bestNode
}
