package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/semantic"
	"github.com/grayline/vetjs/internal/symbol"
)

func build(t *testing.T, src string) *file.ParsedFile {
	t.Helper()
	f, err := file.Parse("test.ts", []byte(src))
	require.NoError(t, err)
	return f
}

func findByName(t *testing.T, f *file.ParsedFile, name string) symbol.Symbol {
	t.Helper()
	for _, s := range f.Semantic.Symbols.All() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("symbol %q not found", name)
	return symbol.Symbol{}
}

func TestUpdateExpression_CountsAsReadNotJustMutation(t *testing.T) {
	f := build(t, `let x = 0; x++;`)
	sym := findByName(t, f, "x")
	assert.True(t, f.Semantic.Updated[sym.ID], "x++ should mark the binding as updated")
	for _, span := range sym.References {
		if kind, ok := f.Semantic.RefKinds[span]; ok {
			assert.NotEqual(t, semantic.RefWrite, kind, "update expressions are not RefWrite")
		}
	}
}

func TestLexicalDeclaration_RecordsLetKeywordSpan(t *testing.T) {
	f := build(t, `let total = 1;`)
	sym := findByName(t, f, "total")
	span, ok := f.Semantic.LetKeyword[sym.ID]
	require.True(t, ok)
	assert.Equal(t, "let", f.SourceMap.Text(span))
}

func TestLexicalDeclaration_NoLetSpanForConst(t *testing.T) {
	f := build(t, `const total = 1;`)
	sym := findByName(t, f, "total")
	_, ok := f.Semantic.LetKeyword[sym.ID]
	assert.False(t, ok, "const bindings never get a LetKeyword entry")
}

func TestNestedLexicalDeclaration_DoesNotCorruptSiblingLetSpan(t *testing.T) {
	// The inner `let inner` must not clobber the outer declaration's own
	// let-keyword span once control returns to the next sibling
	// declarator in the same outer lexical_declaration.
	src := `let a = (function () { let inner = 1; return inner; })(), c = 2;`
	f := build(t, src)

	a := findByName(t, f, "a")
	aSpan, ok := f.Semantic.LetKeyword[a.ID]
	require.True(t, ok)
	assert.Equal(t, "let", f.SourceMap.Text(aSpan))

	c := findByName(t, f, "c")
	cSpan, ok := f.Semantic.LetKeyword[c.ID]
	require.True(t, ok)
	assert.Equal(t, "let", f.SourceMap.Text(cSpan))
	assert.Equal(t, aSpan, cSpan)
}
