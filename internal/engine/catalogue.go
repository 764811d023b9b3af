package engine

import (
	"github.com/grayline/vetjs/internal/rules"
	"github.com/grayline/vetjs/internal/rules/quality"
	"github.com/grayline/vetjs/internal/rules/security"
	"github.com/grayline/vetjs/internal/taint"
)

// DefaultRegistry builds the full rule catalogue against reg's taint
// registries (already merged with any config-supplied custom patterns)
// and returns it with DefaultConfig active; the caller applies whatever
// rules.Config a loaded internal/config.Config produced.
func DefaultRegistry(reg *taint.Registries) *rules.Registry {
	registry := rules.NewRegistry()
	for _, r := range qualityRules() {
		registry.Register(r)
	}
	for _, r := range securityRules(reg) {
		registry.Register(r)
	}
	return registry
}

func qualityRules() []rules.Rule {
	return []rules.Rule{
		quality.NoUnusedVars{},
		quality.NoUnusedImports{},
		quality.NoUnreachable{},
		quality.NewMaxComplexity(),
		quality.NewMaxDepth(),
		quality.NoVar{},
		quality.PreferConst{},
		quality.NoConsole{},
		quality.NoDebugger{},
		quality.PreferUsing{},
		quality.NoFloatingPromises{},
	}
}

func securityRules(reg *taint.Registries) []rules.Rule {
	return []rules.Rule{
		security.NewTaintFindings(reg),
		security.NewNoInsecureRandomness(reg.Sinks),
		security.NoEval{},
		security.NoUnsafeDeserialization{},
		security.NoHardcodedSecrets{},
	}
}
