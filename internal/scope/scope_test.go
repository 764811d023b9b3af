package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grayline/vetjs/internal/scope"
	"github.com/grayline/vetjs/internal/sourcemap"
)

func TestNew_CreatesRootGlobalScope(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	root := tree.Root()
	got := tree.Get(root)
	assert.Equal(t, scope.Global, got.Kind)
	assert.Equal(t, scope.NoScope, got.Parent)
}

func TestPush_LinksChildToParent(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	root := tree.Root()
	child := tree.Push(scope.Function, root, sourcemap.Span{Lo: 10, Hi: 50})

	got := tree.Get(child)
	assert.Equal(t, root, got.Parent)
	assert.Contains(t, tree.Get(root).Children, child)
}

func TestAncestors_WalksUpToRoot(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	root := tree.Root()
	fn := tree.Push(scope.Function, root, sourcemap.Span{Lo: 10, Hi: 80})
	block := tree.Push(scope.Block, fn, sourcemap.Span{Lo: 20, Hi: 60})

	assert.Equal(t, []scope.ID{block, fn, root}, tree.Ancestors(block))
}

func TestIsDescendant(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	root := tree.Root()
	fn := tree.Push(scope.Function, root, sourcemap.Span{Lo: 10, Hi: 80})
	block := tree.Push(scope.Block, fn, sourcemap.Span{Lo: 20, Hi: 60})
	other := tree.Push(scope.Block, root, sourcemap.Span{Lo: 85, Hi: 90})

	assert.True(t, tree.IsDescendant(block, fn))
	assert.True(t, tree.IsDescendant(fn, root))
	assert.False(t, tree.IsDescendant(other, fn))
}

func TestNearestOfKind_FindsEnclosingFunctionForVarHoisting(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	root := tree.Root()
	fn := tree.Push(scope.Function, root, sourcemap.Span{Lo: 10, Hi: 80})
	block := tree.Push(scope.Block, fn, sourcemap.Span{Lo: 20, Hi: 60})
	loop := tree.Push(scope.For, block, sourcemap.Span{Lo: 25, Hi: 50})

	assert.Equal(t, fn, tree.NearestOfKind(loop, scope.Function, scope.Global, scope.Module))
}

func TestNearestOfKind_FallsBackToRootWhenNoMatch(t *testing.T) {
	tree := scope.New(sourcemap.Span{Lo: 0, Hi: 100})
	root := tree.Root()
	block := tree.Push(scope.Block, root, sourcemap.Span{Lo: 10, Hi: 50})

	assert.Equal(t, root, tree.NearestOfKind(block, scope.Class))
}
