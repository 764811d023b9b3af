package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/config"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/rules"
	"github.com/grayline/vetjs/internal/taint"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsUnknownSeverity(t *testing.T) {
	cfg := config.Default()
	cfg.Rules.Severity = map[string]string{"Q001": "critical"}
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsUnknownTier(t *testing.T) {
	cfg := config.Default()
	cfg.Tier = "enterprise-plus"
	assert.Error(t, cfg.Validate())
}

func TestRulesEngineConfig_MergesDisabledAndSeverity(t *testing.T) {
	cfg := config.Default()
	cfg.Rules.Disabled = []string{"Q001", "no-var"}
	cfg.Rules.Severity = map[string]string{"Q031": "error"}
	cfg.Tier = "pro"

	out, err := cfg.RulesEngineConfig()
	require.NoError(t, err)
	assert.True(t, out.Disabled["Q001"])
	assert.True(t, out.Disabled["no-var"])
	assert.Equal(t, diagnostic.Error, out.SeverityOverride["Q031"])
	assert.Equal(t, rules.Pro, out.Tier)
}

func TestRulesEngineConfig_CategoryToggles(t *testing.T) {
	cfg := config.Default()
	security := false
	cfg.Rules.Security = &security

	out, err := cfg.RulesEngineConfig()
	require.NoError(t, err)
	assert.True(t, out.QualityEnabled)
	assert.False(t, out.SecurityEnabled)
}

func TestApplyTaint_MergesCustomSinkPattern(t *testing.T) {
	cfg := config.Config{
		Taint: config.TaintConfig{
			Sinks: []config.SinkConfig{{
				PatternConfig: config.PatternConfig{
					ObjectPath: []string{"dangerousLib"},
					Property:   "run",
					Category:   "command-injection",
				},
				ArgPositions: []int{0},
			}},
		},
	}
	reg := taint.NewRegistries()
	require.NoError(t, cfg.ApplyTaint(reg))

	matches := reg.Sinks.MatchCall([]string{"dangerousLib"}, "run")
	require.Len(t, matches, 1)
	assert.Equal(t, taint.CommandInjection, matches[0].Category)
	assert.Equal(t, taint.Custom, matches[0].Provenance)
}

func TestApplyTaint_RejectsUnknownCategory(t *testing.T) {
	cfg := config.Config{
		Taint: config.TaintConfig{
			Sources: []config.PatternConfig{{ObjectPath: []string{"foo"}, Category: "not-a-category"}},
		},
	}
	reg := taint.NewRegistries()
	assert.Error(t, cfg.ApplyTaint(reg))
}
