package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grayline/vetjs/internal/config"
	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/engine"
	"github.com/grayline/vetjs/internal/format"
	"github.com/grayline/vetjs/internal/rules"
	"github.com/grayline/vetjs/internal/sourcemap"
	"github.com/grayline/vetjs/internal/taint"
)

// toolVersion is stamped at release time; left as a plain constant since
// this repo has no build-time ldflags wiring.
const toolVersion = "0.1.0"

// Exit codes: clean run, diagnostics at or above the floor (or bad usage),
// or an internal/read/parse crash.
const (
	exitClean = 0
	exitDiag  = 1
	exitUsage = 1
	exitCrash = 2
)

var (
	configPath     string
	formatName     string
	noColor        bool
	failOnWarnings bool
	disabledRules  []string
	severityFlags  []string
	tierName       string
	qualityFlag    bool
	securityFlag   bool
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:           "vetjs [paths...]",
	Short:         "Static analysis for JavaScript and TypeScript",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "path or URL to a YAML config file")
	flags.StringVar(&formatName, "format", "pretty", "output format: pretty|plain|json|ndjson|sarif")
	flags.BoolVar(&noColor, "no-color", false, "disable ANSI color in pretty output")
	flags.BoolVar(&failOnWarnings, "fail-on-warnings", false, "exit 1 if any warning-severity diagnostic is emitted")
	flags.StringSliceVar(&disabledRules, "disable", nil, "rule ids or names to disable")
	flags.StringSliceVar(&severityFlags, "severity", nil, "rule=severity overrides, e.g. Q001=error")
	flags.StringVar(&tierName, "tier", "free", "license tier: free|pro|enterprise")
	flags.BoolVar(&qualityFlag, "quality", true, "run quality-category rules")
	flags.BoolVar(&securityFlag, "security", true, "run security-category rules")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	return cfg.Build()
}

func runRoot(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := resolveConfig(cmd.Context())
	if err != nil {
		return usageError(err)
	}
	rulesCfg, err := cfg.RulesEngineConfig()
	if err != nil {
		return usageError(err)
	}
	if cmd.Flags().Changed("tier") {
		tier, ok := rules.ParseTier(tierName)
		if !ok {
			return usageError(fmt.Errorf("invalid --tier %q", tierName))
		}
		rulesCfg.Tier = tier
	}
	if cmd.Flags().Changed("quality") {
		rulesCfg.QualityEnabled = qualityFlag
	}
	if cmd.Flags().Changed("security") {
		rulesCfg.SecurityEnabled = securityFlag
	}
	for _, id := range disabledRules {
		rulesCfg.Disabled[id] = true
	}
	if err := applySeverityFlags(&rulesCfg, severityFlags); err != nil {
		return usageError(err)
	}

	fmtName, ok := format.ParseName(formatName)
	if !ok {
		return usageError(fmt.Errorf("invalid --format %q", formatName))
	}

	taintRegistries := taint.NewRegistries()
	if err := cfg.ApplyTaint(taintRegistries); err != nil {
		return usageError(err)
	}

	registry := engine.DefaultRegistry(taintRegistries)
	registry.Configure(rulesCfg)

	eng := engine.New(registry)
	eng.Logger = logger

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	var allResults []engine.FileResult
	snippets := map[string][]byte{}
	for _, root := range roots {
		results, err := eng.Run(cmd.Context(), root)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", root, err)
		}
		allResults = append(allResults, results...)
		for _, r := range results {
			if r.Source != nil {
				snippets[r.Path] = r.Source
			}
		}
	}

	result := format.Result{
		ToolName:      "vetjs",
		ToolVersion:   toolVersion,
		RootPath:      strings.Join(roots, ","),
		FilesAnalyzed: len(allResults),
		Diagnostics:   engine.Flatten(allResults),
	}

	lineSource := func(file string, line int) string {
		src, ok := snippets[file]
		if !ok {
			return ""
		}
		return sourcemap.New(src).LineText(line)
	}

	out, err := format.Render(fmtName, result, lineSource, !noColor)
	if err != nil {
		return fmt.Errorf("render %s: %w", fmtName, err)
	}
	fmt.Fprintln(os.Stdout, out)

	if engine.AnyReadErrors(allResults) {
		return crashError(fmt.Errorf("one or more files failed to read or parse"))
	}
	if code := engine.ExitCode(allResults, failOnWarnings); code != exitClean {
		os.Exit(exitDiag)
	}
	return nil
}

func resolveConfig(ctx context.Context) (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(ctx, configPath)
}

func applySeverityFlags(cfg *rules.Config, flags []string) error {
	for _, f := range flags {
		parts := strings.SplitN(f, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid --severity %q, expected rule=severity", f)
		}
		sev, ok := diagnostic.ParseSeverity(parts[1])
		if !ok {
			return fmt.Errorf("invalid --severity %q: unknown severity %q", f, parts[1])
		}
		cfg.SeverityOverride[parts[0]] = sev
	}
	return nil
}

// usageErr wraps an invalid-argument error; main exits with exitUsage
// (same value as exitDiag) when Execute returns one, and with exitCrash
// for any other error.
type usageErr struct{ err error }

func (u usageErr) Error() string { return u.err.Error() }

func usageError(err error) error { return usageErr{err} }

type crashErr struct{ err error }

func (c crashErr) Error() string { return c.err.Error() }

func crashError(err error) error { return crashErr{err} }
