package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/scope"
	"github.com/grayline/vetjs/internal/sourcemap"
	"github.com/grayline/vetjs/internal/symbol"
)

func TestDeclare_CreatesNewSymbol(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	table := symbol.NewTable(tree)
	root := tree.Root()

	id := table.Declare("total", symbol.Variable, symbol.DeclLet, root, sourcemap.Span{Lo: 1, Hi: 6}, false)
	sym := table.Get(id)
	assert.Equal(t, "total", sym.Name)
	assert.Equal(t, symbol.DeclLet, sym.Decl)
	assert.False(t, sym.Exported)
}

func TestDeclare_VarRedeclarationReusesSymbol(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	table := symbol.NewTable(tree)
	root := tree.Root()

	first := table.Declare("v", symbol.Variable, symbol.DeclVar, root, sourcemap.Span{Lo: 1, Hi: 2}, false)
	second := table.Declare("v", symbol.Variable, symbol.DeclVar, root, sourcemap.Span{Lo: 10, Hi: 11}, false)

	assert.Equal(t, first, second)
	assert.Len(t, table.All(), 1)
}

func TestDeclare_SameDeclSpanIsNotCountedTwice(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	table := symbol.NewTable(tree)
	root := tree.Root()

	span := sourcemap.Span{Lo: 1, Hi: 2}
	first := table.Declare("x", symbol.Variable, symbol.DeclVar, root, span, false)
	second := table.Declare("x", symbol.Variable, symbol.DeclVar, root, span, false)
	assert.Equal(t, first, second)
	assert.Len(t, table.All(), 1)
}

func TestLookup_ResolvesThroughAncestorChain(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	table := symbol.NewTable(tree)
	root := tree.Root()
	fn := tree.Push(scope.Function, root, sourcemap.Span{Lo: 10, Hi: 80})

	table.Declare("outer", symbol.Variable, symbol.DeclLet, root, sourcemap.Span{Lo: 1, Hi: 6}, false)

	id, ok := table.Lookup("outer", fn)
	require.True(t, ok)
	assert.Equal(t, "outer", table.Get(id).Name)
}

func TestLookup_NearestDeclarationShadowsOuter(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	table := symbol.NewTable(tree)
	root := tree.Root()
	fn := tree.Push(scope.Function, root, sourcemap.Span{Lo: 10, Hi: 80})

	outer := table.Declare("x", symbol.Variable, symbol.DeclLet, root, sourcemap.Span{Lo: 1, Hi: 2}, false)
	inner := table.Declare("x", symbol.Variable, symbol.DeclLet, fn, sourcemap.Span{Lo: 15, Hi: 16}, false)

	id, ok := table.Lookup("x", fn)
	require.True(t, ok)
	assert.Equal(t, inner, id)
	assert.NotEqual(t, outer, id)
}

func TestAddReference_UnresolvedWhenNoDeclarationFound(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	table := symbol.NewTable(tree)
	root := tree.Root()

	_, ok := table.AddReference("missing", sourcemap.Span{Lo: 5, Hi: 12}, root)
	assert.False(t, ok)
	require.Len(t, table.Unresolved, 1)
	assert.Equal(t, "missing", table.Unresolved[0].Name)
}

func TestAddReference_AppendsSpanToResolvedSymbol(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	table := symbol.NewTable(tree)
	root := tree.Root()

	id := table.Declare("total", symbol.Variable, symbol.DeclLet, root, sourcemap.Span{Lo: 1, Hi: 6}, false)
	_, ok := table.AddReference("total", sourcemap.Span{Lo: 20, Hi: 25}, root)
	require.True(t, ok)
	assert.Len(t, table.Get(id).References, 1)
}

func TestInScope_OnlyReturnsDirectDeclarations(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	table := symbol.NewTable(tree)
	root := tree.Root()
	fn := tree.Push(scope.Function, root, sourcemap.Span{Lo: 10, Hi: 80})

	table.Declare("outer", symbol.Variable, symbol.DeclLet, root, sourcemap.Span{Lo: 1, Hi: 2}, false)
	table.Declare("inner", symbol.Variable, symbol.DeclLet, fn, sourcemap.Span{Lo: 15, Hi: 16}, false)

	inScope := table.InScope(fn)
	require.Len(t, inScope, 1)
	assert.Equal(t, "inner", inScope[0].Name)
}
