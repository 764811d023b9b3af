// Package ast adapts github.com/smacker/go-tree-sitter parse trees into the
// narrow shape the rest of this analyzer needs: a node's type name, its
// byte span, its children, and field-by-name lookup. Keeping this adapter
// thin means the semantic builder, CFG, and DFG packages never import
// go-tree-sitter directly.
package ast

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Flavor identifies which grammar a file was parsed with.
type Flavor int

const (
	JS Flavor = iota
	JSX
	TS
	TSX
)

// FlavorForPath infers the flavor from a file extension.
func FlavorForPath(path string) Flavor {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".mts", ".cts":
		if strings.ToLower(filepath.Ext(path)) == ".tsx" {
			return TSX
		}
		return TS
	case ".ts":
		return TS
	case ".jsx":
		return JSX
	default:
		return JS
	}
}

func languageFor(f Flavor) *sitter.Language {
	switch f {
	case TS:
		return typescript.GetLanguage()
	case TSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// Node is a thin wrapper over *sitter.Node restricting the surface to what
// the rest of the analyzer needs.
type Node struct {
	n   *sitter.Node
	src []byte
}

// Tree is a parsed file: its root node plus the source bytes it was parsed
// from (spans are byte offsets into this slice).
type Tree struct {
	Root   Node
	Source []byte
	Flavor Flavor
}

// Parse parses src with the grammar selected by flavor.
func Parse(ctx context.Context, src []byte, flavor Flavor) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(languageFor(flavor))

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	return &Tree{
		Root:   Node{n: tree.RootNode(), src: src},
		Source: src,
		Flavor: flavor,
	}, nil
}

// IsZero reports whether this wraps a nil tree-sitter node.
func (n Node) IsZero() bool { return n.n == nil }

// Type returns the grammar node type, e.g. "identifier", "call_expression".
func (n Node) Type() string {
	if n.n == nil {
		return ""
	}
	return n.n.Type()
}

// StartByte and EndByte give the half-open byte span of this node.
func (n Node) StartByte() uint32 {
	if n.n == nil {
		return 0
	}
	return n.n.StartByte()
}

func (n Node) EndByte() uint32 {
	if n.n == nil {
		return 0
	}
	return n.n.EndByte()
}

// Text returns the source text this node covers.
func (n Node) Text() string {
	if n.n == nil {
		return ""
	}
	return string(n.src[n.n.StartByte():n.n.EndByte()])
}

// ChildCount returns the number of named+anonymous children.
func (n Node) ChildCount() int {
	if n.n == nil {
		return 0
	}
	return int(n.n.ChildCount())
}

// Child returns the i'th child.
func (n Node) Child(i int) Node {
	if n.n == nil {
		return Node{}
	}
	return Node{n: n.n.Child(i), src: n.src}
}

// NamedChildCount/NamedChild restrict iteration to named (non-punctuation)
// nodes, which is what most traversal logic wants.
func (n Node) NamedChildCount() int {
	if n.n == nil {
		return 0
	}
	return int(n.n.NamedChildCount())
}

func (n Node) NamedChild(i int) Node {
	if n.n == nil {
		return Node{}
	}
	return Node{n: n.n.NamedChild(i), src: n.src}
}

// Parent returns this node's parent, or a zero Node at the tree root.
func (n Node) Parent() Node {
	if n.n == nil {
		return Node{}
	}
	return Node{n: n.n.Parent(), src: n.src}
}

// ChildByFieldName looks up a child by its grammar field name, e.g. "name",
// "body", "parameters". Returns a zero Node if absent, so callers fall back
// to scanning children by type the way a grammar-version-tolerant walker
// should.
func (n Node) ChildByFieldName(name string) Node {
	if n.n == nil {
		return Node{}
	}
	return Node{n: n.n.ChildByFieldName(name), src: n.src}
}

// Children yields every named child in order.
func (n Node) Children() []Node {
	count := n.NamedChildCount()
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// AllChildren yields every child, named or anonymous, in order. Useful for
// finding punctuation-adjacent tokens like a specific keyword child.
func (n Node) AllChildren() []Node {
	count := n.ChildCount()
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.Child(i))
	}
	return out
}

// FindFirst recursively finds the first descendant (including self) whose
// Type matches any of typ.
func (n Node) FindFirst(typ ...string) (Node, bool) {
	for _, t := range typ {
		if n.Type() == t {
			return n, true
		}
	}
	for _, c := range n.Children() {
		if found, ok := c.FindFirst(typ...); ok {
			return found, true
		}
	}
	return Node{}, false
}

// ContainsType reports whether n or any descendant has the given type,
// used for cheap "does this subtree contain JSX" checks.
func (n Node) ContainsType(typ ...string) bool {
	_, ok := n.FindFirst(typ...)
	return ok
}
