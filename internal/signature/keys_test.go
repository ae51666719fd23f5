package signature

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateKeyPair returns a fresh RSA keypair as (PKCS#8 private, PKIX public)
// PEM strings.
func generateKeyPair(t *testing.T) (string, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	return string(privPEM), string(pubPEM)
}

// publicKeyBody extracts the raw base64 payload from a PEM public key.
func publicKeyBody(t *testing.T, pubPEM string) string {
	t.Helper()

	block, _ := pem.Decode([]byte(pubPEM))
	require.NotNil(t, block)

	return base64.StdEncoding.EncodeToString(block.Bytes)
}

func TestNormalizePublicKey_BareBase64(t *testing.T) {
	_, pubPEM := generateKeyPair(t)
	body := publicKeyBody(t, pubPEM)

	normalized := NormalizePublicKey(body)

	lines := strings.Split(strings.TrimRight(normalized, "\n"), "\n")
	assert.Equal(t, "-----BEGIN PUBLIC KEY-----", lines[0])
	assert.Equal(t, "-----END PUBLIC KEY-----", lines[len(lines)-1])
	for _, line := range lines[1 : len(lines)-1] {
		assert.LessOrEqual(t, len(line), 64)
	}

	key, err := loadPublicKey(body)
	require.NoError(t, err)
	assert.Equal(t, 256, key.Size())
}

func TestNormalizePublicKey_BareBase64WithNewlines(t *testing.T) {
	_, pubPEM := generateKeyPair(t)
	body := publicKeyBody(t, pubPEM)

	// Keys pasted out of dashboards often arrive wrapped at odd widths.
	var chunked strings.Builder
	for i := 0; i < len(body); i += 40 {
		end := i + 40
		if end > len(body) {
			end = len(body)
		}
		chunked.WriteString(body[i:end])
		chunked.WriteString("\n")
	}

	_, err := loadPublicKey(chunked.String())
	require.NoError(t, err)
}

func TestNormalizePublicKey_StrictPEMPassesThrough(t *testing.T) {
	_, pubPEM := generateKeyPair(t)

	normalized := NormalizePublicKey(pubPEM)

	block, _ := pem.Decode([]byte(normalized))
	require.NotNil(t, block)

	_, err := x509.ParsePKIXPublicKey(block.Bytes)
	assert.NoError(t, err)
}

func TestNormalizePublicKey_LegacyMarkersRenamed(t *testing.T) {
	_, pubPEM := generateKeyPair(t)
	body := publicKeyBody(t, pubPEM)

	legacy := "-----BEGIN RSA PUBLIC KEY-----\n" + body + "\n-----END RSA PUBLIC KEY-----"

	normalized := NormalizePublicKey(legacy)

	assert.Contains(t, normalized, "-----BEGIN PUBLIC KEY-----")
	assert.Contains(t, normalized, "-----END PUBLIC KEY-----")
	assert.NotContains(t, normalized, "RSA PUBLIC KEY")

	// The payload here is already PKIX, so the renamed key loads. A true
	// PKCS#1 payload would not - markers are renamed, never re-encoded.
	_, err := loadPublicKey(legacy)
	assert.NoError(t, err)
}

func TestNormalizePublicKey_LegacyPKCS1PayloadStillFails(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pkcs1 := base64.StdEncoding.EncodeToString(x509.MarshalPKCS1PublicKey(&key.PublicKey))
	legacy := "-----BEGIN RSA PUBLIC KEY-----\n" + pkcs1 + "\n-----END RSA PUBLIC KEY-----"

	_, err = loadPublicKey(legacy)
	assert.Error(t, err)

	var parseErr *KeyParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestLoadPrivateKey_Malformed(t *testing.T) {
	_, err := loadPrivateKey("not a key at all")

	var parseErr *KeyParseError
	assert.ErrorAs(t, err, &parseErr)
}
