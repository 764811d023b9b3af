package quality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/rules/quality"
)

func TestNoVar_FlagsEveryVarDeclaration(t *testing.T) {
	f := parse(t, "test.ts", `var a = 1; function run() { var b = 2; }`)
	diags := quality.NoVar{}.Check(f)
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, "Q030", d.RuleID)
	}
}

func TestNoVar_NoFalsePositiveOnLetConst(t *testing.T) {
	f := parse(t, "test.ts", `let a = 1; const b = 2;`)
	diags := quality.NoVar{}.Check(f)
	assert.Empty(t, diags)
}
