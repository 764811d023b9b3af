// Package dfg implements the data-flow graph: a directed graph of typed
// value nodes with flows-to/flows-from edges, built by a traversal
// mirroring the semantic builder's. It is the substrate the taint
// propagator runs over.
package dfg

import (
	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/scope"
	"github.com/grayline/vetjs/internal/sourcemap"
)

// NodeKind enumerates the DFG node variants.
type NodeKind int

const (
	VariableNode NodeKind = iota
	ParameterNode
	LiteralNode
	CallNode
	PropertyAccessNode
	BinaryOpNode
	UnknownNode
)

// NodeID addresses a node within a Graph's arena.
type NodeID int

// Node is one data-flow value.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Span     sourcemap.Span
	Name     string // Variable/Parameter name, Call callee name, PropertyAccess property name
	Index    int    // Parameter index
	Object   NodeID // PropertyAccess object node
	ObjectChain []string // Call/PropertyAccess: identifier chain before the final member, e.g. ["req","body"]
	FlowsTo  []NodeID
	FlowsFrom []NodeID
}

// Graph is one function (or module top level)'s data-flow graph.
type Graph struct {
	nodes   []Node
	current map[key]NodeID
}

type key struct {
	scope scope.ID
	name  string
}

func spanOf(n gast.Node) sourcemap.Span {
	return sourcemap.Span{Lo: n.StartByte(), Hi: n.EndByte()}
}

// Build constructs the DFG for a function body or module top level. Every
// binding in body, including those inside nested functions and blocks, is
// keyed under topScope: nested scopes are not distinguished, so the same
// name declared in two scopes shares one current-value entry.
func Build(body gast.Node, topScope scope.ID) *Graph {
	g := &Graph{current: make(map[key]NodeID)}
	b := &dfgBuilder{g: g}
	for _, c := range body.Children() {
		b.stmt(c, topScope)
	}
	return g
}

func (g *Graph) newNode(kind NodeKind, n gast.Node) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Kind: kind, Span: spanOf(n)})
	return id
}

func (g *Graph) edge(from, to NodeID) {
	if from == to {
		return
	}
	for _, e := range g.nodes[from].FlowsTo {
		if e == to {
			return
		}
	}
	g.nodes[from].FlowsTo = append(g.nodes[from].FlowsTo, to)
	g.nodes[to].FlowsFrom = append(g.nodes[to].FlowsFrom, from)
}

// Node, Nodes expose the graph to consumers (taint propagator, rules).
func (g *Graph) Node(id NodeID) Node { return g.nodes[id] }
func (g *Graph) Nodes() []Node       { return g.nodes }

// GetVariableNode returns the current node bound to (scope, name), if any.
func (g *Graph) GetVariableNode(s scope.ID, name string) (NodeID, bool) {
	id, ok := g.current[key{s, name}]
	return id, ok
}

// GetSources returns the transitive predecessors of n with no incoming
// flows (the DFG roots that feed it).
func (g *Graph) GetSources(n NodeID) []NodeID {
	return g.reachable(n, func(node Node) []NodeID { return node.FlowsFrom }, func(node Node) bool { return len(node.FlowsFrom) == 0 })
}

// GetDependents returns the transitive successors of n.
func (g *Graph) GetDependents(n NodeID) []NodeID {
	return g.reachable(n, func(node Node) []NodeID { return node.FlowsTo }, nil)
}

// DependsOn reports whether m is transitively reachable from n's
// predecessors (n depends on m).
func (g *Graph) DependsOn(n, m NodeID) bool {
	for _, s := range g.GetSources(n) {
		if s == m {
			return true
		}
	}
	seen := make(map[NodeID]bool)
	var stack []NodeID
	stack = append(stack, g.nodes[n].FlowsFrom...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == m {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, g.nodes[cur].FlowsFrom...)
	}
	return false
}

func (g *Graph) reachable(start NodeID, next func(Node) []NodeID, leafOnly func(Node) bool) []NodeID {
	seen := map[NodeID]bool{start: true}
	stack := []NodeID{start}
	var out []NodeID
	first := true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := g.nodes[cur]
		if !first && (leafOnly == nil || leafOnly(node)) {
			out = append(out, cur)
		}
		first = false
		for _, nb := range next(node) {
			if !seen[nb] {
				seen[nb] = true
				stack = append(stack, nb)
			}
		}
	}
	return out
}

type dfgBuilder struct {
	g *Graph
}

func (b *dfgBuilder) bindVariable(s scope.ID, name string, id NodeID) {
	b.g.current[key{s, name}] = id
}

func (b *dfgBuilder) stmt(n gast.Node, s scope.ID) {
	switch n.Type() {
	case "statement_block":
		for _, c := range n.Children() {
			b.stmt(c, s)
		}
	case "lexical_declaration", "variable_declaration":
		for _, d := range n.Children() {
			if d.Type() == "variable_declarator" {
				b.declarator(d, s)
			}
		}
	case "expression_statement":
		for _, c := range n.Children() {
			b.expr(c, s)
		}
	case "return_statement", "throw_statement":
		for _, c := range n.Children() {
			b.expr(c, s)
		}
	case "if_statement":
		if cond := n.ChildByFieldName("condition"); !cond.IsZero() {
			b.expr(cond, s)
		}
		if cons := n.ChildByFieldName("consequence"); !cons.IsZero() {
			b.stmt(cons, s)
		}
		if alt := n.ChildByFieldName("alternative"); !alt.IsZero() {
			b.stmt(alt, s)
		}
	case "for_statement", "for_in_statement", "while_statement", "do_statement":
		for _, c := range n.Children() {
			b.stmt(c, s)
		}
	case "function_declaration", "function_expression", "arrow_function", "method_definition", "generator_function", "generator_function_declaration":
		b.function(n, s)
	default:
		for _, c := range n.Children() {
			b.stmt(c, s)
		}
	}
}

func (b *dfgBuilder) function(n gast.Node, s scope.ID) {
	params := n.ChildByFieldName("parameters")
	if !params.IsZero() {
		idx := 0
		for _, p := range params.Children() {
			name := p
			if p.Type() == "required_parameter" || p.Type() == "optional_parameter" {
				if pat := p.ChildByFieldName("pattern"); !pat.IsZero() {
					name = pat
				}
			}
			if name.Type() == "identifier" {
				id := b.g.newNode(ParameterNode, name)
				b.g.nodes[id].Name = name.Text()
				b.g.nodes[id].Index = idx
				b.bindVariable(s, name.Text(), id)
			}
			idx++
		}
	}
	if body := n.ChildByFieldName("body"); !body.IsZero() {
		if body.Type() == "statement_block" {
			for _, c := range body.Children() {
				b.stmt(c, s)
			}
		} else {
			b.expr(body, s)
		}
	}
}

func (b *dfgBuilder) declarator(n gast.Node, s scope.ID) {
	name := n.ChildByFieldName("name")
	value := n.ChildByFieldName("value")
	if name.Type() == "identifier" {
		if value.IsZero() {
			id := b.g.newNode(VariableNode, n)
			b.g.nodes[id].Name = name.Text()
			b.bindVariable(s, name.Text(), id)
			return
		}
		valID := b.expr(value, s)
		id := b.g.newNode(VariableNode, n)
		b.g.nodes[id].Name = name.Text()
		b.g.edge(valID, id)
		b.bindVariable(s, name.Text(), id)
		return
	}
	// Destructuring: conservatively bind each pattern name to a fresh
	// Variable node with no synthesized edge from the source value.
	if !value.IsZero() {
		b.expr(value, s)
	}
	b.bindDestructured(name, s)
}

func (b *dfgBuilder) bindDestructured(n gast.Node, s scope.ID) {
	switch n.Type() {
	case "identifier":
		id := b.g.newNode(VariableNode, n)
		b.g.nodes[id].Name = n.Text()
		b.bindVariable(s, n.Text(), id)
	case "shorthand_property_identifier_pattern":
		id := b.g.newNode(VariableNode, n)
		b.g.nodes[id].Name = n.Text()
		b.bindVariable(s, n.Text(), id)
	default:
		for _, c := range n.Children() {
			b.bindDestructured(c, s)
		}
	}
}

// expr evaluates an expression, returning the DFG node id representing its
// value (creating one if necessary).
func (b *dfgBuilder) expr(n gast.Node, s scope.ID) NodeID {
	switch n.Type() {
	case "identifier":
		if id, ok := b.g.GetVariableNode(s, n.Text()); ok {
			return id
		}
		id := b.g.newNode(VariableNode, n)
		b.g.nodes[id].Name = n.Text()
		b.bindVariable(s, n.Text(), id)
		return id

	case "number", "string", "template_string", "true", "false", "null", "undefined", "regex":
		if n.Type() == "template_string" {
			return b.templateLiteral(n, s)
		}
		return b.g.newNode(LiteralNode, n)

	case "assignment_expression", "augmented_assignment_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		rhs := b.expr(right, s)
		if left.Type() == "identifier" {
			id := b.g.newNode(VariableNode, n)
			b.g.nodes[id].Name = left.Text()
			b.g.edge(rhs, id)
			if n.Type() == "augmented_assignment_expression" {
				// `x += y` depends on x's prior value as well as y, unlike
				// plain `x = y`.
				if oldID, ok := b.g.GetVariableNode(s, left.Text()); ok {
					b.g.edge(oldID, id)
				}
			}
			b.bindVariable(s, left.Text(), id)
			return id
		}
		if left.Type() == "member_expression" {
			propID := b.member(left, s)
			b.g.edge(rhs, propID)
			return propID
		}
		b.expr(left, s)
		return rhs

	case "call_expression":
		return b.call(n, s)

	case "member_expression":
		return b.member(n, s)

	case "subscript_expression":
		obj := n.ChildByFieldName("object")
		index := n.ChildByFieldName("index")
		objID := b.expr(obj, s)
		var idxID NodeID
		hasIdx := false
		if !index.IsZero() {
			idxID = b.expr(index, s)
			hasIdx = true
		}
		id := b.g.newNode(PropertyAccessNode, n)
		b.g.nodes[id].Object = objID
		b.g.nodes[id].Name = "[computed]"
		b.g.edge(objID, id)
		if hasIdx {
			b.g.edge(idxID, id)
		}
		return id

	case "binary_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		id := b.g.newNode(BinaryOpNode, n)
		if !left.IsZero() {
			b.g.edge(b.expr(left, s), id)
		}
		if !right.IsZero() {
			b.g.edge(b.expr(right, s), id)
		}
		return id

	case "ternary_expression":
		cons := n.ChildByFieldName("consequence")
		alt := n.ChildByFieldName("alternative")
		id := b.g.newNode(UnknownNode, n)
		if !cons.IsZero() {
			b.g.edge(b.expr(cons, s), id)
		}
		if !alt.IsZero() {
			b.g.edge(b.expr(alt, s), id)
		}
		return id

	case "parenthesized_expression":
		for _, c := range n.Children() {
			return b.expr(c, s)
		}
		return b.g.newNode(UnknownNode, n)

	case "arrow_function", "function_expression", "generator_function", "class":
		b.function(n, s)
		return b.g.newNode(UnknownNode, n)

	case "optional_chain", "non_null_expression":
		for _, c := range n.Children() {
			return b.expr(c, s)
		}
		return b.g.newNode(UnknownNode, n)

	default:
		id := b.g.newNode(UnknownNode, n)
		for _, c := range n.Children() {
			b.g.edge(b.expr(c, s), id)
		}
		return id
	}
}

func (b *dfgBuilder) templateLiteral(n gast.Node, s scope.ID) NodeID {
	var exprs []gast.Node
	for _, c := range n.Children() {
		if c.Type() == "template_substitution" {
			for _, sc := range c.Children() {
				exprs = append(exprs, sc)
			}
		}
	}
	if len(exprs) == 0 {
		return b.g.newNode(LiteralNode, n)
	}
	id := b.g.newNode(UnknownNode, n)
	for _, e := range exprs {
		b.g.edge(b.expr(e, s), id)
	}
	return id
}

// calleeName extracts the syntactic callee name: the last identifier in
// the callee chain, or "unknown".
func calleeName(callee gast.Node) string {
	switch callee.Type() {
	case "identifier":
		return callee.Text()
	case "member_expression":
		if prop := callee.ChildByFieldName("property"); !prop.IsZero() {
			return prop.Text()
		}
	}
	return "unknown"
}

// ObjectChain extracts the ordered identifier-name sequence of a member
// expression's object chain, e.g. req.body -> ["req"], a.b.c -> ["a","b"].
func ObjectChain(callee gast.Node) ([]string, bool) {
	if callee.Type() != "member_expression" {
		return nil, false
	}
	obj := callee.ChildByFieldName("object")
	var chain []string
	for {
		switch obj.Type() {
		case "identifier":
			chain = append([]string{obj.Text()}, chain...)
			return chain, true
		case "member_expression":
			if prop := obj.ChildByFieldName("property"); !prop.IsZero() {
				chain = append([]string{prop.Text()}, chain...)
			}
			obj = obj.ChildByFieldName("object")
		default:
			return chain, len(chain) > 0
		}
	}
}

func (b *dfgBuilder) call(n gast.Node, s scope.ID) NodeID {
	callee := n.ChildByFieldName("function")
	if !callee.IsZero() {
		b.expr(callee, s)
	}
	id := b.g.newNode(CallNode, n)
	if !callee.IsZero() {
		b.g.nodes[id].Name = calleeName(callee)
		if chain, ok := ObjectChain(callee); ok {
			b.g.nodes[id].ObjectChain = chain
		} else if callee.Type() == "identifier" {
			b.g.nodes[id].ObjectChain = nil
		}
	} else {
		b.g.nodes[id].Name = "unknown"
	}
	args := n.ChildByFieldName("arguments")
	if !args.IsZero() {
		for _, a := range args.Children() {
			b.g.edge(b.expr(a, s), id)
		}
	}
	return id
}

func (b *dfgBuilder) member(n gast.Node, s scope.ID) NodeID {
	obj := n.ChildByFieldName("object")
	prop := n.ChildByFieldName("property")
	objID := b.expr(obj, s)
	id := b.g.newNode(PropertyAccessNode, n)
	b.g.nodes[id].Object = objID
	if !prop.IsZero() {
		b.g.nodes[id].Name = prop.Text()
	}
	if chain, ok := ObjectChain(n); ok {
		b.g.nodes[id].ObjectChain = chain
	} else if obj.Type() == "identifier" {
		b.g.nodes[id].ObjectChain = []string{obj.Text()}
	}
	b.g.edge(objID, id)
	return id
}
