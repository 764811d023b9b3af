// Package rules implements the rule engine: a registry of Quality and
// Security checks, tier/category/disable gating, and per-rule panic
// isolation so one misbehaving rule cannot take down a run.
package rules

import (
	"fmt"

	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/file"
)

// Tier gates which rules run for a given license level.
type Tier int

const (
	Free Tier = iota
	Pro
	Enterprise
)

func ParseTier(s string) (Tier, bool) {
	switch s {
	case "free":
		return Free, true
	case "pro":
		return Pro, true
	case "enterprise":
		return Enterprise, true
	default:
		return 0, false
	}
}

// Category groups rules for the rules.quality / rules.security config
// flags.
type Category int

const (
	Quality Category = iota
	Security
)

// Metadata describes a rule for registry filtering and documentation.
type Metadata struct {
	ID             string
	Name           string
	Description    string
	Category       Category
	DefaultSeverity diagnostic.Severity
	MinTier        Tier
	DocsURL        string
	Example        string
}

// Rule is the polymorphic unit the registry dispatches: stateless across
// calls, it builds whatever CFG/DFG/taint state it needs from the
// ParsedFile it's given.
type Rule interface {
	Metadata() Metadata
	Check(f *file.ParsedFile) []diagnostic.Diagnostic
}

// Config configures a Registry's run: which rules are disabled, severity
// overrides, category toggles, and the active tier.
type Config struct {
	Disabled         map[string]bool
	SeverityOverride map[string]diagnostic.Severity
	QualityEnabled   bool
	SecurityEnabled  bool
	Tier             Tier
}

// DefaultConfig enables both categories at Free tier with no overrides.
func DefaultConfig() Config {
	return Config{
		Disabled:         map[string]bool{},
		SeverityOverride: map[string]diagnostic.Severity{},
		QualityEnabled:   true,
		SecurityEnabled:  true,
		Tier:             Free,
	}
}

// Registry holds every registered rule, in registration order, plus the
// active Config.
type Registry struct {
	rules  []Rule
	config Config
}

// NewRegistry creates an empty registry with DefaultConfig.
func NewRegistry() *Registry {
	return &Registry{config: DefaultConfig()}
}

// Register appends rule to the registry. Order matters: diagnostics from
// one file are emitted in rule-registration order.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Configure replaces the active configuration.
func (r *Registry) Configure(cfg Config) {
	r.config = cfg
}

func (r *Registry) disabled(meta Metadata) bool {
	return r.config.Disabled[meta.ID] || r.config.Disabled[meta.Name]
}

func (r *Registry) categoryEnabled(cat Category) bool {
	if cat == Quality {
		return r.config.QualityEnabled
	}
	return r.config.SecurityEnabled
}

// RunAll runs every enabled rule against f, in registration order, merging
// and returning their diagnostics. A rule that panics is isolated: its
// panic is recovered and surfaced as a synthetic Error diagnostic instead
// of aborting the run.
func (r *Registry) RunAll(f *file.ParsedFile) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, rule := range r.rules {
		meta := rule.Metadata()
		if meta.MinTier > r.config.Tier {
			continue
		}
		if !r.categoryEnabled(meta.Category) {
			continue
		}
		if r.disabled(meta) {
			continue
		}
		out = append(out, r.runOne(rule, meta, f)...)
	}
	return out
}

func (r *Registry) runOne(rule Rule, meta Metadata, f *file.ParsedFile) (result []diagnostic.Diagnostic) {
	defer func() {
		if rec := recover(); rec != nil {
			result = []diagnostic.Diagnostic{{
				RuleID:     meta.ID,
				Severity:   diagnostic.Error,
				Confidence: diagnostic.Low,
				Message:    fmt.Sprintf("rule %s crashed on %s: %v", meta.ID, f.Path, rec),
				File:       f.Path,
				StartLine:  1,
				StartCol:   0,
			}}
		}
	}()
	diags := rule.Check(f)
	if override, ok := r.config.SeverityOverride[meta.ID]; ok {
		for i := range diags {
			diags[i].Severity = override
		}
	} else if override, ok := r.config.SeverityOverride[meta.Name]; ok {
		for i := range diags {
			diags[i].Severity = override
		}
	}
	return diags
}

// Rules returns every registered rule's metadata, in registration order.
func (r *Registry) Rules() []Metadata {
	out := make([]Metadata, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule.Metadata())
	}
	return out
}
