package signature

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigest_KnownVectors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"amount=100&service=data", "B5F08F9B945856C5BF18470D2815149F"},
		{"", "D41D8CD98F00B204E9800998ECF8427E"},
		{"amount=100", "E60431229BEBA4E0BD39E22EF371A77E"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Digest(tt.input))
	}
}

func TestDigest_Format(t *testing.T) {
	digest := Digest("anything at all")

	assert.Len(t, digest, 32)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{32}$`), digest)
}

func TestDigest_Deterministic(t *testing.T) {
	params := Params{"service": "data", "amount": 100, "note": ""}

	first := Digest(CanonicalString(params))
	second := Digest(CanonicalString(params))

	assert.Equal(t, first, second)
	assert.Equal(t, "B5F08F9B945856C5BF18470D2815149F", first)
}
