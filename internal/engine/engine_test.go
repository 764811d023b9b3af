package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/engine"
	"github.com/grayline/vetjs/internal/taint"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestEngine_Run_FindsDiagnosticsAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", `function run() { let unused = 1; }`)
	writeFile(t, dir, "b.ts", `function run() { let total = 1; return total; }`)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))
	writeFile(t, filepath.Join(dir, "node_modules"), "ignored.ts", `var v = 1;`)

	reg := engine.DefaultRegistry(taint.NewRegistries())
	eng := engine.New(reg)

	results, err := eng.Run(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2, "node_modules should be skipped")

	flat := engine.Flatten(results)
	require.NotEmpty(t, flat)

	var sawQ001, sawQ031 bool
	for _, d := range flat {
		if d.RuleID == "Q001" {
			sawQ001 = true
		}
		if d.RuleID == "Q031" {
			sawQ031 = true
		}
	}
	assert.True(t, sawQ001, "a.ts's unused let should be flagged")
	assert.True(t, sawQ031, "b.ts's never-reassigned let should be flagged")
}

func TestExitCode_ErrorSeverityForcesOne(t *testing.T) {
	results := []engine.FileResult{{Diagnostics: []diagnostic.Diagnostic{{Severity: diagnostic.Error}}}}
	assert.Equal(t, 1, engine.ExitCode(results, false))
}

func TestExitCode_WarningOnlyCountsWithFailOnWarnings(t *testing.T) {
	results := []engine.FileResult{{Diagnostics: []diagnostic.Diagnostic{{Severity: diagnostic.Warning}}}}
	assert.Equal(t, 0, engine.ExitCode(results, false))
	assert.Equal(t, 1, engine.ExitCode(results, true))
}

func TestExitCode_CleanWhenNoDiagnostics(t *testing.T) {
	results := []engine.FileResult{{Diagnostics: nil}}
	assert.Equal(t, 0, engine.ExitCode(results, true))
}

func TestAnyReadErrors(t *testing.T) {
	assert.False(t, engine.AnyReadErrors([]engine.FileResult{{}}))
	assert.True(t, engine.AnyReadErrors([]engine.FileResult{{Err: assertErr{}}}))
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
