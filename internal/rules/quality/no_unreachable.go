package quality

import (
	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
	"github.com/grayline/vetjs/internal/sourcemap"
)

// NoUnreachable is Q004: flags statements that follow a terminating
// statement within the same block.
type NoUnreachable struct{}

func (NoUnreachable) Metadata() rules.Metadata {
	return rules.Metadata{
		ID:              "Q004",
		Name:            "no-unreachable",
		Description:     "disallow code after return, throw, break, continue, or an exhaustively terminating if/switch/try",
		Category:        rules.Quality,
		DefaultSeverity: diagnostic.Warning,
		MinTier:         rules.Free,
	}
}

func (r NoUnreachable) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	var walk func(n gast.Node)
	walk = func(n gast.Node) {
		switch n.Type() {
		case "program", "statement_block":
			processBlock(n.Children(), &out, r.Metadata(), f, walk)
		default:
			for _, c := range n.Children() {
				walk(c)
			}
		}
	}
	walk(f.Tree.Root)
	return out
}

func processBlock(stmts []gast.Node, out *[]diagnostic.Diagnostic, meta rules.Metadata, f *file.ParsedFile, walk func(gast.Node)) {
	afterTerm := false
	for _, s := range stmts {
		if afterTerm {
			if s.Type() != "function_declaration" && s.Type() != "generator_function_declaration" {
				*out = append(*out, rules.Diag(meta, f, span(s), "unreachable code", diagnostic.High))
			}
		}
		walk(s)
		if !afterTerm && terminates(s) {
			afterTerm = true
		}
	}
}

func span(n gast.Node) sourcemap.Span {
	return sourcemap.Span{Lo: n.StartByte(), Hi: n.EndByte()}
}

func blockTerminates(stmts []gast.Node) bool {
	for _, s := range stmts {
		if terminates(s) {
			return true
		}
	}
	return false
}

func terminates(n gast.Node) bool {
	switch n.Type() {
	case "return_statement", "throw_statement", "break_statement", "continue_statement":
		return true
	case "statement_block":
		return blockTerminates(n.Children())
	case "if_statement":
		alt := n.ChildByFieldName("alternative")
		if alt.IsZero() {
			return false
		}
		cons := n.ChildByFieldName("consequence")
		if cons.IsZero() {
			return false
		}
		return terminates(cons) && terminates(alt)
	case "else_clause":
		return blockTerminates(n.Children())
	case "switch_statement":
		body := n.ChildByFieldName("body")
		if body.IsZero() {
			return false
		}
		hasDefault := false
		allTerminate := true
		any := false
		for _, c := range body.Children() {
			if c.Type() != "switch_case" && c.Type() != "switch_default" {
				continue
			}
			any = true
			if c.Type() == "switch_default" {
				hasDefault = true
			}
			if !blockTerminates(c.Children()) {
				allTerminate = false
			}
		}
		return any && hasDefault && allTerminate
	case "try_statement":
		return tryTerminates(n)
	default:
		return false
	}
}

func tryTerminates(n gast.Node) bool {
	var catchNode, finallyNode gast.Node
	tryBody := n.ChildByFieldName("body")
	for _, c := range n.Children() {
		switch c.Type() {
		case "catch_clause":
			catchNode = c
		case "finally_clause":
			finallyNode = c
		}
	}
	if !finallyNode.IsZero() {
		return blockTerminates(finallyNode.Children())
	}
	if tryBody.IsZero() {
		return false
	}
	if catchNode.IsZero() {
		return false
	}
	catchBody := catchNode.ChildByFieldName("body")
	if catchBody.IsZero() {
		return false
	}
	return blockTerminates(tryBody.Children()) && blockTerminates(catchBody.Children())
}
