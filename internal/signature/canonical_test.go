package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalString_SortsKeys(t *testing.T) {
	params := Params{
		"zebra":  "z",
		"alpha":  "a",
		"middle": "m",
	}

	assert.Equal(t, "alpha=a&middle=m&zebra=z", CanonicalString(params))
}

func TestCanonicalString_InsertionOrderIrrelevant(t *testing.T) {
	first := Params{}
	first["service"] = "data"
	first["amount"] = 100
	first["nonce"] = "abc123"

	second := Params{}
	second["nonce"] = "abc123"
	second["amount"] = 100
	second["service"] = "data"

	assert.Equal(t, CanonicalString(first), CanonicalString(second))
}

func TestCanonicalString_SkipsNilAndEmptyValues(t *testing.T) {
	params := Params{
		"service": "data",
		"amount":  100,
		"note":    "",
		"memo":    "   ",
		"ref":     nil,
	}

	// Scenario from the gateway docs: note/memo/ref drop out entirely.
	assert.Equal(t, "amount=100&service=data", CanonicalString(params))
}

func TestCanonicalString_TrimsStrings(t *testing.T) {
	params := Params{
		"name": "  Ada Lovelace\t",
	}

	assert.Equal(t, "name=Ada Lovelace", CanonicalString(params))
}

func TestCanonicalString_ScalarRendering(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"int", 42, "amount=42"},
		{"int64", int64(9007199254740993), "amount=9007199254740993"},
		{"float with fraction", 100.5, "amount=100.5"},
		{"whole float", float64(100), "amount=100"},
		{"true", true, "amount=True"},
		{"false", false, "amount=False"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalString(Params{"amount": tt.value}))
		})
	}
}

func TestCanonicalString_NoEscaping(t *testing.T) {
	params := Params{
		"memo": "a=b&c",
	}

	// Values pass through verbatim even when they contain separators.
	assert.Equal(t, "memo=a=b&c", CanonicalString(params))
}

func TestCanonicalString_EmptyMap(t *testing.T) {
	assert.Equal(t, "", CanonicalString(Params{}))
	assert.Equal(t, "", CanonicalString(Params{"only": nil}))
}
