// Package cfg implements the control-flow graph: basic blocks threaded
// through a "current block" cursor as statements are visited, matching
// the statement-threading idiom this analyzer's builder packages all
// share. Built on demand by rules that need it, not during the main
// semantic pass.
package cfg

import (
	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/sourcemap"
)

// BlockKind distinguishes the basic block roles spec'd for the graph.
type BlockKind int

const (
	Entry BlockKind = iota
	Exit
	Normal
	Condition
	LoopHeader
)

// BlockID addresses a block within a Graph's arena.
type BlockID int

// Block is one basic block: its statement span and its edges.
type Block struct {
	ID   BlockID
	Kind BlockKind
	Span sourcemap.Span
	Pred []BlockID
	Succ []BlockID
	// DroppedExits counts break/continue statements whose target edge was
	// not modeled (the graph has no edges for break/continue), so
	// conservative consumers can tell a block apart from one that is
	// genuinely unreachable.
	DroppedExits int
}

// Graph is one function (or module top level)'s control-flow graph.
type Graph struct {
	blocks []Block
	entry  BlockID
	exit   BlockID
	cur    BlockID
}

// Build constructs a CFG for the statements in body (a function body or the
// module's top-level statement list).
func Build(body gast.Node) *Graph {
	g := &Graph{}
	g.entry = g.newBlock(Entry, body)
	g.exit = g.newBlock(Exit, body)
	g.cur = g.entry
	for _, c := range body.Children() {
		g.stmt(c)
	}
	g.edge(g.cur, g.exit)
	return g
}

func spanOf(n gast.Node) sourcemap.Span {
	return sourcemap.Span{Lo: n.StartByte(), Hi: n.EndByte()}
}

func (g *Graph) newBlock(kind BlockKind, n gast.Node) BlockID {
	id := BlockID(len(g.blocks))
	g.blocks = append(g.blocks, Block{ID: id, Kind: kind, Span: spanOf(n)})
	return id
}

func (g *Graph) edge(from, to BlockID) {
	g.blocks[from].Succ = append(g.blocks[from].Succ, to)
	g.blocks[to].Pred = append(g.blocks[to].Pred, from)
}

// Entry, Exit, Blocks, Block expose the graph for rule consumption.
func (g *Graph) Entry() BlockID         { return g.entry }
func (g *Graph) Exit() BlockID          { return g.exit }
func (g *Graph) Blocks() []Block        { return g.blocks }
func (g *Graph) Block(id BlockID) Block { return g.blocks[id] }

func (g *Graph) sequential(n gast.Node) {
	next := g.newBlock(Normal, n)
	g.edge(g.cur, next)
	g.cur = next
}

func (g *Graph) stmt(n gast.Node) {
	switch n.Type() {
	case "if_statement":
		cond := g.newBlock(Condition, n)
		g.edge(g.cur, cond)
		g.cur = cond

		merge := g.newBlock(Normal, n)

		thenStart := g.newBlock(Normal, n)
		g.edge(cond, thenStart)
		g.cur = thenStart
		if cons := n.ChildByFieldName("consequence"); !cons.IsZero() {
			g.stmt(cons)
		}
		g.edge(g.cur, merge)

		if alt := n.ChildByFieldName("alternative"); !alt.IsZero() {
			elseStart := g.newBlock(Normal, n)
			g.edge(cond, elseStart)
			g.cur = elseStart
			g.stmt(alt)
			g.edge(g.cur, merge)
		} else {
			g.edge(cond, merge)
		}
		g.cur = merge

	case "for_statement", "for_in_statement":
		header := g.newBlock(LoopHeader, n)
		g.edge(g.cur, header)
		cond := g.newBlock(Condition, n)
		g.edge(header, cond)
		bodyStart := g.newBlock(Normal, n)
		g.edge(cond, bodyStart)
		g.cur = bodyStart
		if body := n.ChildByFieldName("body"); !body.IsZero() {
			g.stmt(body)
		}
		g.edge(g.cur, header)
		after := g.newBlock(Normal, n)
		g.edge(cond, after)
		g.cur = after

	case "while_statement":
		header := g.newBlock(LoopHeader, n)
		g.edge(g.cur, header)
		cond := g.newBlock(Condition, n)
		g.edge(header, cond)
		bodyStart := g.newBlock(Normal, n)
		g.edge(cond, bodyStart)
		g.cur = bodyStart
		if body := n.ChildByFieldName("body"); !body.IsZero() {
			g.stmt(body)
		}
		g.edge(g.cur, header)
		after := g.newBlock(Normal, n)
		g.edge(cond, after)
		g.cur = after

	case "do_statement":
		header := g.newBlock(LoopHeader, n)
		g.edge(g.cur, header)
		bodyStart := g.newBlock(Normal, n)
		g.edge(header, bodyStart)
		g.cur = bodyStart
		if body := n.ChildByFieldName("body"); !body.IsZero() {
			g.stmt(body)
		}
		cond := g.newBlock(Condition, n)
		g.edge(g.cur, cond)
		g.edge(cond, header)
		after := g.newBlock(Normal, n)
		g.edge(cond, after)
		g.cur = after

	case "switch_statement":
		disc := g.newBlock(Condition, n)
		g.edge(g.cur, disc)
		merge := g.newBlock(Normal, n)
		prev := disc
		if body := n.ChildByFieldName("body"); !body.IsZero() {
			for _, c := range body.Children() {
				caseStart := g.newBlock(Normal, c)
				g.edge(prev, caseStart)
				g.cur = caseStart
				for _, stmt := range c.Children() {
					g.stmt(stmt)
				}
				prev = g.cur
			}
		}
		g.edge(prev, merge)
		g.edge(disc, merge)
		g.cur = merge

	case "try_statement":
		tryStart := g.newBlock(Normal, n)
		g.edge(g.cur, tryStart)
		g.cur = tryStart
		if body := n.ChildByFieldName("body"); !body.IsZero() {
			g.stmt(body)
		}
		tryEnd := g.cur

		var catchEnd BlockID
		hasCatch := false
		var finallyNode gast.Node
		for _, c := range n.Children() {
			switch c.Type() {
			case "catch_clause":
				hasCatch = true
				catchStart := g.newBlock(Normal, c)
				g.edge(tryStart, catchStart)
				g.cur = catchStart
				if cbody := c.ChildByFieldName("body"); !cbody.IsZero() {
					g.stmt(cbody)
				}
				catchEnd = g.cur
			case "finally_clause":
				finallyNode = c
			}
		}

		if !finallyNode.IsZero() {
			finallyStart := g.newBlock(Normal, finallyNode)
			g.edge(tryEnd, finallyStart)
			if hasCatch {
				g.edge(catchEnd, finallyStart)
			}
			g.cur = finallyStart
			for _, c := range finallyNode.Children() {
				g.stmt(c)
			}
		} else {
			merge := g.newBlock(Normal, n)
			g.edge(tryEnd, merge)
			if hasCatch {
				g.edge(catchEnd, merge)
			}
			g.cur = merge
		}

	case "return_statement", "throw_statement":
		g.edge(g.cur, g.exit)
		g.sequential(n)

	case "break_statement", "continue_statement":
		g.blocks[g.cur].DroppedExits++
		g.sequential(n)

	case "statement_block":
		for _, c := range n.Children() {
			g.stmt(c)
		}

	default:
		g.sequential(n)
	}
}

// IsBackEdge reports whether the edge u->v is a back edge: v is a
// LoopHeader and u is reachable from v (i.e. v dominates the path back to
// itself through the loop body).
func (g *Graph) IsBackEdge(u, v BlockID) bool {
	if g.blocks[v].Kind != LoopHeader {
		return false
	}
	seen := make(map[BlockID]bool)
	var stack []BlockID
	for _, s := range g.blocks[v].Succ {
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == u {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, g.blocks[n].Succ...)
	}
	return false
}
