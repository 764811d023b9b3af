package quality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/rules/quality"
)

func TestPreferUsing_FlagsFsPromisesOpen(t *testing.T) {
	f := parse(t, "test.ts", `async function run() { const handle = await fsPromises.open('f.txt'); handle.close(); }`)
	diags := quality.PreferUsing{}.Check(f)
	require.Len(t, diags, 1)
	assert.Equal(t, "Q020", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, "handle")
}

func TestPreferUsing_FlagsConnectCall(t *testing.T) {
	f := parse(t, "test.ts", `function run() { const conn = pool.connect(); conn.query('select 1'); }`)
	diags := quality.PreferUsing{}.Check(f)
	require.Len(t, diags, 1)
}

func TestPreferUsing_NoFindingForUnrelatedCall(t *testing.T) {
	f := parse(t, "test.ts", `function run() { const total = compute(); return total; }`)
	diags := quality.PreferUsing{}.Check(f)
	assert.Empty(t, diags)
}

func TestPreferUsing_SkipsWhenBindingIsReturned(t *testing.T) {
	f := parse(t, "test.ts", `async function run() { const handle = await fsPromises.open('f.txt'); return handle; }`)
	diags := quality.PreferUsing{}.Check(f)
	assert.Empty(t, diags)
}
