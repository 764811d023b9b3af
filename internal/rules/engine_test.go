package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
)

type stubRule struct {
	meta rules.Metadata
	fn   func(f *file.ParsedFile) []diagnostic.Diagnostic
}

func (s stubRule) Metadata() rules.Metadata { return s.meta }
func (s stubRule) Check(f *file.ParsedFile) []diagnostic.Diagnostic {
	return s.fn(f)
}

func parsedFile(t *testing.T) *file.ParsedFile {
	t.Helper()
	f, err := file.Parse("test.ts", []byte("const a = 1;"))
	require.NoError(t, err)
	return f
}

func TestRunAll_SkipsRuleAboveActiveTier(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(stubRule{
		meta: rules.Metadata{ID: "X1", Category: rules.Quality, MinTier: rules.Pro, DefaultSeverity: diagnostic.Warning},
		fn: func(f *file.ParsedFile) []diagnostic.Diagnostic {
			return []diagnostic.Diagnostic{{RuleID: "X1", Severity: diagnostic.Warning}}
		},
	})
	cfg := rules.DefaultConfig()
	cfg.Tier = rules.Free
	reg.Configure(cfg)

	assert.Empty(t, reg.RunAll(parsedFile(t)))
}

func TestRunAll_SkipsDisabledRule(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(stubRule{
		meta: rules.Metadata{ID: "X2", Category: rules.Quality, DefaultSeverity: diagnostic.Warning},
		fn: func(f *file.ParsedFile) []diagnostic.Diagnostic {
			return []diagnostic.Diagnostic{{RuleID: "X2", Severity: diagnostic.Warning}}
		},
	})
	cfg := rules.DefaultConfig()
	cfg.Disabled["X2"] = true
	reg.Configure(cfg)

	assert.Empty(t, reg.RunAll(parsedFile(t)))
}

func TestRunAll_SkipsDisabledCategory(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(stubRule{
		meta: rules.Metadata{ID: "X3", Category: rules.Security, DefaultSeverity: diagnostic.Warning},
		fn: func(f *file.ParsedFile) []diagnostic.Diagnostic {
			return []diagnostic.Diagnostic{{RuleID: "X3", Severity: diagnostic.Warning}}
		},
	})
	cfg := rules.DefaultConfig()
	cfg.SecurityEnabled = false
	reg.Configure(cfg)

	assert.Empty(t, reg.RunAll(parsedFile(t)))
}

func TestRunAll_AppliesSeverityOverride(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(stubRule{
		meta: rules.Metadata{ID: "X4", Category: rules.Quality, DefaultSeverity: diagnostic.Warning},
		fn: func(f *file.ParsedFile) []diagnostic.Diagnostic {
			return []diagnostic.Diagnostic{{RuleID: "X4", Severity: diagnostic.Warning}}
		},
	})
	cfg := rules.DefaultConfig()
	cfg.SeverityOverride["X4"] = diagnostic.Error
	reg.Configure(cfg)

	diags := reg.RunAll(parsedFile(t))
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.Error, diags[0].Severity)
}

func TestRunAll_RecoversFromRulePanic(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(stubRule{
		meta: rules.Metadata{ID: "X5", Category: rules.Quality, DefaultSeverity: diagnostic.Warning},
		fn: func(f *file.ParsedFile) []diagnostic.Diagnostic {
			panic("boom")
		},
	})
	reg.Configure(rules.DefaultConfig())

	diags := reg.RunAll(parsedFile(t))
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.Error, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "crashed")
}

func TestRules_ReturnsMetadataInRegistrationOrder(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(stubRule{meta: rules.Metadata{ID: "A"}, fn: func(*file.ParsedFile) []diagnostic.Diagnostic { return nil }})
	reg.Register(stubRule{meta: rules.Metadata{ID: "B"}, fn: func(*file.ParsedFile) []diagnostic.Diagnostic { return nil }})

	metas := reg.Rules()
	require.Len(t, metas, 2)
	assert.Equal(t, "A", metas[0].ID)
	assert.Equal(t, "B", metas[1].ID)
}
