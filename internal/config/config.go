// Package config loads and validates the analyzer's YAML configuration:
// rule gating, severity overrides, the active tier, and custom taint
// pattern lists merged into the built-in registries. Config files are
// loaded uniformly from local or remote locations via afs.
package config

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/rules"
	"github.com/grayline/vetjs/internal/taint"
)

// Config is the root of the YAML configuration document.
type Config struct {
	Rules RulesConfig `yaml:"rules"`
	Taint TaintConfig `yaml:"taint"`
	Tier  string      `yaml:"tier"`
}

// RulesConfig controls rule gating: disabled rules, severity overrides,
// and the quality/security category toggles.
type RulesConfig struct {
	Disabled []string          `yaml:"disabled"`
	Severity map[string]string `yaml:"severity"`
	Quality  *bool             `yaml:"quality"`
	Security *bool             `yaml:"security"`
}

// TaintConfig carries user-supplied pattern lists merged into the
// built-in source/sink/sanitizer registries, matching the object-path +
// property-matcher structure from §4.4.
type TaintConfig struct {
	Sources    []PatternConfig `yaml:"sources"`
	Sinks      []SinkConfig    `yaml:"sinks"`
	Sanitizers []PatternConfig `yaml:"sanitizers"`
}

// PatternConfig is one user-supplied source or sanitizer pattern.
type PatternConfig struct {
	ObjectPath []string `yaml:"objectPath"`
	Property   string   `yaml:"property"`   // exact property name; empty means None unless PropertyAny is set
	PropertyAny bool    `yaml:"propertyAny"` // explicit Any, independent of Property
	Category   string   `yaml:"category"`
	Description string  `yaml:"description"`
}

// SinkConfig is one user-supplied sink pattern; it additionally carries
// the 0-based argument positions the sink consumes.
type SinkConfig struct {
	PatternConfig `yaml:",inline"`
	ArgPositions  []int `yaml:"argPositions"`
}

// Default returns a Config equivalent to rules.DefaultConfig(): both
// categories enabled, Free tier, no overrides or custom patterns.
func Default() Config {
	return Config{
		Rules: RulesConfig{Quality: boolPtr(true), Security: boolPtr(true)},
		Tier:  "free",
	}
}

func boolPtr(b bool) *bool { return &b }

// Load reads and parses a YAML config file at path, which may be a local
// path or any afs-supported URL (s3://, gs://, ...).
func Load(ctx context.Context, path string) (Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config for values the loader can catch early:
// unparseable severities and an unrecognized tier name.
func (c Config) Validate() error {
	for id, sev := range c.Rules.Severity {
		if _, ok := diagnostic.ParseSeverity(sev); !ok {
			return fmt.Errorf("rules.severity[%s]: invalid severity %q", id, sev)
		}
	}
	if c.Tier != "" {
		if _, ok := rules.ParseTier(c.Tier); !ok {
			return fmt.Errorf("tier: invalid tier %q", c.Tier)
		}
	}
	return nil
}

// RulesEngineConfig converts the parsed config into a rules.Config ready
// to hand to a Registry.
func (c Config) RulesEngineConfig() (rules.Config, error) {
	out := rules.DefaultConfig()
	for _, id := range c.Rules.Disabled {
		out.Disabled[id] = true
	}
	for id, sev := range c.Rules.Severity {
		parsed, ok := diagnostic.ParseSeverity(sev)
		if !ok {
			return rules.Config{}, fmt.Errorf("rules.severity[%s]: invalid severity %q", id, sev)
		}
		out.SeverityOverride[id] = parsed
	}
	if c.Rules.Quality != nil {
		out.QualityEnabled = *c.Rules.Quality
	}
	if c.Rules.Security != nil {
		out.SecurityEnabled = *c.Rules.Security
	}
	if c.Tier != "" {
		tier, ok := rules.ParseTier(c.Tier)
		if !ok {
			return rules.Config{}, fmt.Errorf("tier: invalid tier %q", c.Tier)
		}
		out.Tier = tier
	}
	return out, nil
}

// ApplyTaint merges the config's custom source/sink/sanitizer patterns
// into reg, tagged taint.Custom per §4.4's BuiltIn-vs-Custom provenance.
func (c Config) ApplyTaint(reg *taint.Registries) error {
	for _, p := range c.Taint.Sources {
		cat, ok := parseSourceCategory(p.Category)
		if !ok {
			return fmt.Errorf("taint.sources: unknown category %q", p.Category)
		}
		reg.Sources.RegisterPattern(taint.SourcePattern{
			Pattern:  p.toPattern(),
			Category: cat,
		})
	}
	for _, s := range c.Taint.Sinks {
		cat, ok := parseSinkCategory(s.Category)
		if !ok {
			return fmt.Errorf("taint.sinks: unknown category %q", s.Category)
		}
		reg.Sinks.RegisterPattern(taint.SinkPattern{
			Pattern:      s.toPattern(),
			Category:     cat,
			ArgPositions: s.ArgPositions,
		})
	}
	for _, p := range c.Taint.Sanitizers {
		cat, ok := parseSanitizerCategory(p.Category)
		if !ok {
			return fmt.Errorf("taint.sanitizers: unknown category %q", p.Category)
		}
		reg.Sanitizers.RegisterPattern(taint.SanitizerPattern{
			Pattern:  p.toPattern(),
			Category: cat,
		})
	}
	return nil
}

func (p PatternConfig) toPattern() taint.Pattern {
	matcher := taint.PropertyMatcher{Kind: taint.None}
	switch {
	case p.PropertyAny:
		matcher = taint.PropertyMatcher{Kind: taint.Any}
	case p.Property != "":
		matcher = taint.PropertyMatcher{Kind: taint.Exact, Name: p.Property}
	}
	return taint.Pattern{
		ObjectPath:  p.ObjectPath,
		Property:    matcher,
		Description: p.Description,
		Provenance:  taint.Custom,
	}
}

func parseSourceCategory(s string) (taint.SourceCategory, bool) {
	switch s {
	case "http-request":
		return taint.HttpRequest, true
	case "environment":
		return taint.Environment, true
	case "user-input":
		return taint.UserInput, true
	case "file-system":
		return taint.FileSystem, true
	case "network":
		return taint.Network, true
	case "database":
		return taint.Database, true
	default:
		return 0, false
	}
}

func parseSinkCategory(s string) (taint.SinkCategory, bool) {
	switch s {
	case "code-execution":
		return taint.CodeExecution, true
	case "command-injection":
		return taint.CommandInjection, true
	case "sql-injection":
		return taint.SqlInjection, true
	case "xss":
		return taint.XssSink, true
	case "file-system":
		return taint.FileSystemSink, true
	case "path-traversal":
		return taint.PathTraversal, true
	case "network-request":
		return taint.NetworkRequest, true
	case "crypto-sensitive":
		return taint.CryptoSensitive, true
	default:
		return 0, false
	}
}

func parseSanitizerCategory(s string) (taint.SanitizerCategory, bool) {
	switch s {
	case "command-injection":
		return taint.SanitizeCommandInjection, true
	case "sql-injection":
		return taint.SanitizeSqlInjection, true
	case "xss":
		return taint.SanitizeXss, true
	case "path-traversal":
		return taint.SanitizePathTraversal, true
	case "url-encoding":
		return taint.SanitizeUrlEncoding, true
	case "general":
		return taint.SanitizeGeneral, true
	default:
		return 0, false
	}
}
