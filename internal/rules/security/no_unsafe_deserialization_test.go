package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/rules/security"
)

func TestNoUnsafeDeserialization_FlagsDangerousReviver(t *testing.T) {
	src := `function run(raw) { return JSON.parse(raw, (k, v) => eval(v)); }`
	f := parse(t, "test.ts", src)
	diags := security.NoUnsafeDeserialization{}.Check(f)
	require.Len(t, diags, 1)
	assert.Equal(t, "S022", diags[0].RuleID)
}

func TestNoUnsafeDeserialization_FlagsParseResultPassedToEval(t *testing.T) {
	src := `function run(raw) { eval(JSON.parse(raw)); }`
	f := parse(t, "test.ts", src)
	diags := security.NoUnsafeDeserialization{}.Check(f)
	require.Len(t, diags, 1)
}

func TestNoUnsafeDeserialization_NoFindingForPlainParse(t *testing.T) {
	src := `function run(raw) { return JSON.parse(raw); }`
	f := parse(t, "test.ts", src)
	diags := security.NoUnsafeDeserialization{}.Check(f)
	assert.Empty(t, diags)
}
