package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/rules"
)

func TestApplySeverityFlags_ParsesValidOverride(t *testing.T) {
	cfg := rules.DefaultConfig()
	require.NoError(t, applySeverityFlags(&cfg, []string{"Q001=error"}))
	assert.Equal(t, diagnostic.Error, cfg.SeverityOverride["Q001"])
}

func TestApplySeverityFlags_RejectsMissingEquals(t *testing.T) {
	cfg := rules.DefaultConfig()
	assert.Error(t, applySeverityFlags(&cfg, []string{"Q001"}))
}

func TestApplySeverityFlags_RejectsUnknownSeverity(t *testing.T) {
	cfg := rules.DefaultConfig()
	assert.Error(t, applySeverityFlags(&cfg, []string{"Q001=critical"}))
}

func TestUsageError_WrapsOriginalMessage(t *testing.T) {
	err := usageError(assertErr{"bad flag"})
	assert.Equal(t, "bad flag", err.Error())
	_, ok := err.(usageErr)
	assert.True(t, ok)
}

func TestCrashError_WrapsOriginalMessage(t *testing.T) {
	err := crashError(assertErr{"boom"})
	assert.Equal(t, "boom", err.Error())
	_, ok := err.(crashErr)
	assert.True(t, ok)
}

type assertErr struct{ msg string }

func (e assertErr) Error() string { return e.msg }
