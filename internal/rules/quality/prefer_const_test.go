package quality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/rules/quality"
)

func TestPreferConst_FlagsNeverReassignedLet(t *testing.T) {
	f := parse(t, "test.ts", `function run() { let total = 1; return total; }`)
	diags := quality.PreferConst{}.Check(f)
	require.Len(t, diags, 1)
	assert.Equal(t, "Q031", diags[0].RuleID)
	require.Len(t, diags[0].Fixes, 1)
	assert.Equal(t, diagnostic.ReplaceWith, diags[0].Fixes[0].Kind)
	assert.Equal(t, "const", diags[0].Fixes[0].Text)
}

func TestPreferConst_SkipsReassignedLet(t *testing.T) {
	f := parse(t, "test.ts", `function run() { let total = 1; total = 2; return total; }`)
	diags := quality.PreferConst{}.Check(f)
	assert.Empty(t, diags)
}

func TestPreferConst_UpdateExpressionCountsAsMutation(t *testing.T) {
	// x++ is a Read for Q001/taint purposes but still a mutation for
	// prefer-const: it must NOT be flagged.
	f := parse(t, "test.ts", `function run() { let count = 0; count++; return count; }`)
	diags := quality.PreferConst{}.Check(f)
	assert.Empty(t, diags)
}

func TestPreferConst_SkipsForLoopHeadBinding(t *testing.T) {
	f := parse(t, "test.ts", `function run() { for (let i = 0; i < 10; i++) { use(i); } }`)
	diags := quality.PreferConst{}.Check(f)
	assert.Empty(t, diags, "for-head let bindings are conservatively left alone")
}

func TestPreferConst_SkipsUninitializedLet(t *testing.T) {
	f := parse(t, "test.ts", `function run() { let total; total = compute(); return total; }`)
	diags := quality.PreferConst{}.Check(f)
	assert.Empty(t, diags)
}

func TestPreferConst_SkipsCompoundReassignedLet(t *testing.T) {
	f := parse(t, "test.ts", `function run() { let total = 0; total += 1; return total; }`)
	diags := quality.PreferConst{}.Check(f)
	assert.Empty(t, diags, "total += 1 is a mutation; rewriting to const would break the program")
}
