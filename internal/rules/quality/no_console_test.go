package quality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/rules/quality"
)

func TestNoConsole_FlagsConsoleCallOutsideScripts(t *testing.T) {
	f := parse(t, "src/service.ts", `function run() { console.log('hi'); }`)
	diags := quality.NoConsole{}.Check(f)
	require.Len(t, diags, 1)
	assert.Equal(t, "Q002", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, "console.log")
}

func TestNoConsole_IgnoresScriptsDirectory(t *testing.T) {
	f := parse(t, "scripts/migrate.ts", `console.log('migrating');`)
	diags := quality.NoConsole{}.Check(f)
	assert.Empty(t, diags)
}

func TestNoConsole_IgnoresCLIEntryPoints(t *testing.T) {
	f := parse(t, "src/cli/run.ts", `console.log('starting');`)
	diags := quality.NoConsole{}.Check(f)
	assert.Empty(t, diags)
}
