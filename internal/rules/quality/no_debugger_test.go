package quality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/rules/quality"
)

func TestNoDebugger_FlagsDebuggerStatement(t *testing.T) {
	f := parse(t, "test.ts", `function run() { debugger; return 1; }`)
	diags := quality.NoDebugger{}.Check(f)
	require.Len(t, diags, 1)
	assert.Equal(t, "Q005", diags[0].RuleID)
}

func TestNoDebugger_NoFindingWithoutDebugger(t *testing.T) {
	f := parse(t, "test.ts", `function run() { return 1; }`)
	diags := quality.NoDebugger{}.Check(f)
	assert.Empty(t, diags)
}
