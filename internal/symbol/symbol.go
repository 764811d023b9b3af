// Package symbol implements the symbol table: declarations and their
// references, keyed by (scope, name), with lookup that walks the
// enclosing scope chain. Modeled on an arena-per-crate Rust symbol table
// layout, adapted into Go's arena-of-slices idiom.
package symbol

import (
	"github.com/grayline/vetjs/internal/scope"
	"github.com/grayline/vetjs/internal/sourcemap"
)

// Kind is what a symbol denotes.
type Kind int

const (
	Variable Kind = iota
	Constant
	FunctionSym
	ClassSym
	Parameter
	Import
	TypeAlias
	Enum
)

// DeclarationKind is the syntactic form that introduced the symbol.
type DeclarationKind int

const (
	DeclVar DeclarationKind = iota
	DeclLet
	DeclConst
	DeclFunction
	DeclClass
	DeclParameter
	DeclImport
	DeclTypeAlias
	DeclEnum
)

// ID addresses a symbol within a Table's arena.
type ID int

// Symbol is one declaration (and its accumulated references).
type Symbol struct {
	ID         ID
	Name       string
	Kind       Kind
	Decl       DeclarationKind
	Scope      scope.ID
	DeclSpan   sourcemap.Span
	Exported   bool
	References []sourcemap.Span
}

// UnresolvedReference is an identifier use that no enclosing scope declares.
type UnresolvedReference struct {
	Name  string
	Span  sourcemap.Span
	Scope scope.ID
}

// Table owns every symbol declared during one file's analysis plus the
// (scope, name) -> symbol index used for declaration and lookup, and the
// separate per-declaration-span dedup set used to fold repeated var
// redeclarations into a single symbol.
type Table struct {
	tree        *scope.Tree
	symbols     []Symbol
	byScopeName map[scope.ID]map[string]ID
	declSpans   map[sourcemap.Span]bool
	Unresolved  []UnresolvedReference
}

// NewTable creates an empty table bound to tree, used for hoisting targets
// and ancestor-walk lookups.
func NewTable(tree *scope.Tree) *Table {
	return &Table{
		tree:        tree,
		byScopeName: make(map[scope.ID]map[string]ID),
		declSpans:   make(map[sourcemap.Span]bool),
	}
}

func (t *Table) bucket(s scope.ID) map[string]ID {
	b, ok := t.byScopeName[s]
	if !ok {
		b = make(map[string]ID)
		t.byScopeName[s] = b
	}
	return b
}

// Declare records a new declaration. If a symbol with the same name already
// exists directly in declScope (the case for repeated `var` redeclarations
// of the same binding), the existing symbol is reused rather than shadowed.
// declSpan is deduplicated per the hoisting pre-pass / main-pass overlap so
// the same syntactic declaration is never counted twice.
func (t *Table) Declare(name string, kind Kind, decl DeclarationKind, declScope scope.ID, declSpan sourcemap.Span, exported bool) ID {
	if t.declSpans[declSpan] {
		if id, ok := t.bucket(declScope)[name]; ok {
			return id
		}
	}
	t.declSpans[declSpan] = true

	if decl == DeclVar {
		if id, ok := t.bucket(declScope)[name]; ok {
			sym := &t.symbols[id]
			if exported {
				sym.Exported = true
			}
			return id
		}
	}

	id := ID(len(t.symbols))
	t.symbols = append(t.symbols, Symbol{
		ID:       id,
		Name:     name,
		Kind:     kind,
		Decl:     decl,
		Scope:    declScope,
		DeclSpan: declSpan,
		Exported: exported,
	})
	t.bucket(declScope)[name] = id
	return id
}

// Lookup resolves name starting at fromScope and walking up the scope
// chain, matching lexical shadowing (the nearest enclosing declaration
// wins).
func (t *Table) Lookup(name string, fromScope scope.ID) (ID, bool) {
	for _, s := range t.tree.Ancestors(fromScope) {
		if id, ok := t.byScopeName[s][name]; ok {
			return id, true
		}
	}
	return 0, false
}

// AddReference resolves name from fromScope and appends span to the
// resolved symbol's reference list; if resolution fails, the reference is
// recorded as unresolved instead, and the method reports whether it
// resolved.
func (t *Table) AddReference(name string, span sourcemap.Span, fromScope scope.ID) (ID, bool) {
	if id, ok := t.Lookup(name, fromScope); ok {
		t.symbols[id].References = append(t.symbols[id].References, span)
		return id, true
	}
	t.Unresolved = append(t.Unresolved, UnresolvedReference{Name: name, Span: span, Scope: fromScope})
	return 0, false
}

// Get returns the symbol for id.
func (t *Table) Get(id ID) *Symbol { return &t.symbols[id] }

// All returns every declared symbol, in declaration order.
func (t *Table) All() []Symbol { return t.symbols }

// InScope returns every symbol declared directly in s (not its ancestors).
func (t *Table) InScope(s scope.ID) []Symbol {
	var out []Symbol
	for _, id := range t.byScopeName[s] {
		out = append(out, t.symbols[id])
	}
	return out
}
