package ast_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/ast"
)

func TestFlavorForPath(t *testing.T) {
	assert.Equal(t, ast.TS, ast.FlavorForPath("a.ts"))
	assert.Equal(t, ast.TSX, ast.FlavorForPath("a.tsx"))
	assert.Equal(t, ast.JSX, ast.FlavorForPath("a.jsx"))
	assert.Equal(t, ast.JS, ast.FlavorForPath("a.js"))
}

func TestParse_BuildsTreeWithFunctionDeclaration(t *testing.T) {
	tree, err := ast.Parse(context.Background(), []byte("function run(x) { return x; }"), ast.TS)
	require.NoError(t, err)
	assert.Equal(t, "program", tree.Root.Type())

	fn, ok := tree.Root.FindFirst("function_declaration")
	require.True(t, ok)
	name := fn.ChildByFieldName("name")
	require.False(t, name.IsZero())
	assert.Equal(t, "run", name.Text())
}

func TestNode_ChildByFieldNameMissingIsZero(t *testing.T) {
	tree, err := ast.Parse(context.Background(), []byte("const a = 1;"), ast.TS)
	require.NoError(t, err)
	assert.True(t, tree.Root.ChildByFieldName("nonexistent").IsZero())
}

func TestNode_ContainsTypeFindsNestedJSX(t *testing.T) {
	tree, err := ast.Parse(context.Background(), []byte("const el = <div>hi</div>;"), ast.TSX)
	require.NoError(t, err)
	assert.True(t, tree.Root.ContainsType("jsx_element"))
}

func TestNode_ContainsTypeFalseWhenAbsent(t *testing.T) {
	tree, err := ast.Parse(context.Background(), []byte("const a = 1;"), ast.TS)
	require.NoError(t, err)
	assert.False(t, tree.Root.ContainsType("jsx_element"))
}
