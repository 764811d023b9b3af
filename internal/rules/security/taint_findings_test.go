package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules/security"
	"github.com/grayline/vetjs/internal/taint"
)

func parse(t *testing.T, path, src string) *file.ParsedFile {
	t.Helper()
	f, err := file.Parse(path, []byte(src))
	require.NoError(t, err)
	return f
}

func TestTaintFindings_CommandInjectionFlowsFromExpressBody(t *testing.T) {
	src := `function handler(req) { child_process.exec(req.body.cmd); }`
	f := parse(t, "test.ts", src)
	reg := taint.NewRegistries()
	diags := security.NewTaintFindings(reg).Check(f)
	require.Len(t, diags, 1)
	assert.Equal(t, "S002", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, "command-injection")
}

func TestTaintFindings_NoFindingWhenSourceNeverReachesSink(t *testing.T) {
	src := `function handler(req) { const safe = "literal"; child_process.exec(safe); }`
	f := parse(t, "test.ts", src)
	reg := taint.NewRegistries()
	diags := security.NewTaintFindings(reg).Check(f)
	assert.Empty(t, diags)
}

func TestTaintFindings_SanitizerClearsTaint(t *testing.T) {
	src := `function handler(req) {
		const escaped = shellEscape(req.body.cmd);
		child_process.exec(escaped);
	}`
	f := parse(t, "test.ts", src)
	reg := taint.NewRegistries()
	diags := security.NewTaintFindings(reg).Check(f)
	assert.Empty(t, diags, "a recognized sanitizer call should clear the taint tag")
}
