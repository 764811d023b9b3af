package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grayline/vetjs/internal/diagnostic"
)

func TestSeverity_StringRoundTripsThroughParse(t *testing.T) {
	for _, s := range []diagnostic.Severity{diagnostic.Hint, diagnostic.Info, diagnostic.Warning, diagnostic.Error} {
		parsed, ok := diagnostic.ParseSeverity(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, parsed)
	}
}

func TestParseSeverity_RejectsUnknown(t *testing.T) {
	_, ok := diagnostic.ParseSeverity("critical")
	assert.False(t, ok)
}

func TestSeverity_OrderingReflectsImportance(t *testing.T) {
	assert.True(t, diagnostic.Error > diagnostic.Warning)
	assert.True(t, diagnostic.Warning > diagnostic.Info)
	assert.True(t, diagnostic.Info > diagnostic.Hint)
}

func TestConfidence_StringRoundTripsThroughParse(t *testing.T) {
	for _, c := range []diagnostic.Confidence{diagnostic.Low, diagnostic.Medium, diagnostic.High} {
		parsed, ok := diagnostic.ParseConfidence(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, parsed)
	}
}

func TestParseConfidence_RejectsUnknown(t *testing.T) {
	_, ok := diagnostic.ParseConfidence("certain")
	assert.False(t, ok)
}
