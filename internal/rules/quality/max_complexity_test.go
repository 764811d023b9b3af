package quality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/rules/quality"
)

func TestMaxComplexity_FlagsFunctionAboveThreshold(t *testing.T) {
	src := `function run(x) {
		if (x === 1) { return 1; }
		if (x === 2) { return 2; }
		if (x === 3) { return 3; }
		if (x === 4) { return 4; }
		if (x === 5) { return 5; }
		if (x === 6) { return 6; }
		if (x === 7) { return 7; }
		if (x === 8) { return 8; }
		if (x === 9) { return 9; }
		if (x === 10) { return 10; }
		return 0;
	}`
	f := parse(t, "test.ts", src)
	diags := quality.NewMaxComplexity().Check(f)
	require.Len(t, diags, 1)
	assert.Equal(t, "Q010", diags[0].RuleID)
}

func TestMaxComplexity_NoFindingBelowThreshold(t *testing.T) {
	src := `function run(x) { if (x) { return 1; } return 0; }`
	f := parse(t, "test.ts", src)
	diags := quality.NewMaxComplexity().Check(f)
	assert.Empty(t, diags)
}

func TestMaxComplexity_NestedFunctionsCountedSeparately(t *testing.T) {
	src := `function outer(x) {
		if (x) { return 1; }
		const inner = function () {
			if (true) { return 1; }
			return 0;
		};
		return inner();
	}`
	f := parse(t, "test.ts", src)
	diags := quality.MaxComplexity{Threshold: 1}.Check(f)
	require.Len(t, diags, 2, "both outer and inner should be measured independently")
}
