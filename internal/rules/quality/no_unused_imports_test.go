package quality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/rules/quality"
)

func TestNoUnusedImports_FlagsNeverReferencedImport(t *testing.T) {
	f := parse(t, "test.ts", `import { readFile } from 'fs';`)
	diags := quality.NoUnusedImports{}.Check(f)
	require.Len(t, diags, 1)
	assert.Equal(t, "Q003", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, "readFile")
}

func TestNoUnusedImports_SkipsReferencedImport(t *testing.T) {
	f := parse(t, "test.ts", `import { readFile } from 'fs'; readFile('a.txt');`)
	diags := quality.NoUnusedImports{}.Check(f)
	assert.Empty(t, diags)
}

func TestNoUnusedImports_SkipsReExportedImport(t *testing.T) {
	f := parse(t, "test.ts", `import { readFile } from 'fs'; export { readFile };`)
	diags := quality.NoUnusedImports{}.Check(f)
	assert.Empty(t, diags)
}
