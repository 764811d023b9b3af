package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grayline/vetjs/internal/rules/security"
	"github.com/grayline/vetjs/internal/taint"
)

func TestNoInsecureRandomness_FlagsMathRandomIntoCipherKey(t *testing.T) {
	src := `function run(algo, iv) { crypto.createCipheriv(algo, Math.random(), iv); }`
	f := parse(t, "test.ts", src)
	sinks := taint.NewSinksRegistry()
	diags := security.NewNoInsecureRandomness(sinks).Check(f)
	require.Len(t, diags, 1)
	assert.Equal(t, "S011", diags[0].RuleID)
}

func TestNoInsecureRandomness_NoFindingForCryptoRandomBytes(t *testing.T) {
	src := `function run(algo, iv) { const key = crypto.randomBytes(32); crypto.createCipheriv(algo, key, iv); }`
	f := parse(t, "test.ts", src)
	sinks := taint.NewSinksRegistry()
	diags := security.NewNoInsecureRandomness(sinks).Check(f)
	assert.Empty(t, diags)
}

func TestNoInsecureRandomness_NoFindingWhenMathRandomUnrelated(t *testing.T) {
	src := `function run() { const jitter = Math.random() * 100; return jitter; }`
	f := parse(t, "test.ts", src)
	sinks := taint.NewSinksRegistry()
	diags := security.NewNoInsecureRandomness(sinks).Check(f)
	assert.Empty(t, diags)
}
