package quality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/rules/quality"
)

func TestMaxDepth_FlagsDeeplyNestedFunction(t *testing.T) {
	src := `function run(a, b, c, d, e) {
		if (a) {
			if (b) {
				if (c) {
					if (d) {
						if (e) {
							return 1;
						}
					}
				}
			}
		}
		return 0;
	}`
	f := parse(t, "test.ts", src)
	diags := quality.NewMaxDepth().Check(f)
	require.Len(t, diags, 1)
	assert.Equal(t, "Q011", diags[0].RuleID)
}

func TestMaxDepth_NoFindingWithinThreshold(t *testing.T) {
	src := `function run(a) { if (a) { return 1; } return 0; }`
	f := parse(t, "test.ts", src)
	diags := quality.NewMaxDepth().Check(f)
	assert.Empty(t, diags)
}
