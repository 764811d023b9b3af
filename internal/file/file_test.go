package file_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/file"
)

func TestParse_InfersFlavorFromExtension(t *testing.T) {
	f, err := file.Parse("component.tsx", []byte("const el = <div>hi</div>;"))
	require.NoError(t, err)
	assert.Equal(t, gast.TSX, f.Flavor)
}

func TestParse_BuildsTreeAndSemanticModel(t *testing.T) {
	f, err := file.Parse("test.ts", []byte("function run(x) { return x; }"))
	require.NoError(t, err)
	require.NotNil(t, f.Tree)
	require.NotNil(t, f.Semantic)
	assert.Equal(t, "program", f.Tree.Root.Type())
}

func TestParse_SourceMapCoversWholeFile(t *testing.T) {
	src := []byte("const a = 1;\nconst b = 2;\n")
	f, err := file.Parse("test.ts", src)
	require.NoError(t, err)
	require.NotNil(t, f.SourceMap)
	assert.Equal(t, "const b = 2;", f.SourceMap.LineText(2))
}
