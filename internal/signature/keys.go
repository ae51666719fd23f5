package signature

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

const (
	publicKeyHeader = "-----BEGIN PUBLIC KEY-----"
	publicKeyFooter = "-----END PUBLIC KEY-----"
	legacyHeader    = "-----BEGIN RSA PUBLIC KEY-----"
	legacyFooter    = "-----END RSA PUBLIC KEY-----"

	pemLineWidth = 64
)

// NormalizePublicKey repairs raw public key text into strict PEM. Gateway
// dashboards hand out keys as bare base64, as PEM with legacy "RSA PUBLIC
// KEY" markers, or as strict PEM; all three forms come out of this function
// as a 64-column "PUBLIC KEY" block.
//
// Legacy markers are renamed only. The base64 payload is never re-encoded,
// so a true PKCS#1 body still fails to load afterwards; this mirrors the
// gateway's own tooling, which performs the same textual rename.
func NormalizePublicKey(raw string) string {
	collapsed := strings.Join(strings.Fields(raw), " ")

	if !strings.HasPrefix(collapsed, "-----BEGIN") {
		return wrapPublicKey(strings.ReplaceAll(collapsed, " ", ""))
	}

	collapsed = strings.ReplaceAll(collapsed, legacyHeader, publicKeyHeader)
	collapsed = strings.ReplaceAll(collapsed, legacyFooter, publicKeyFooter)

	start := strings.Index(collapsed, publicKeyHeader)
	end := strings.Index(collapsed, publicKeyFooter)
	if start < 0 || end < start {
		return raw
	}

	body := collapsed[start+len(publicKeyHeader) : end]
	return wrapPublicKey(strings.ReplaceAll(body, " ", ""))
}

// wrapPublicKey emits a strict PEM block around a base64 body, re-chunked
// into lines of at most 64 characters.
func wrapPublicKey(body string) string {
	var sb strings.Builder
	sb.WriteString(publicKeyHeader)
	sb.WriteByte('\n')
	for len(body) > pemLineWidth {
		sb.WriteString(body[:pemLineWidth])
		sb.WriteByte('\n')
		body = body[pemLineWidth:]
	}
	if body != "" {
		sb.WriteString(body)
		sb.WriteByte('\n')
	}
	sb.WriteString(publicKeyFooter)
	sb.WriteByte('\n')
	return sb.String()
}

// loadPrivateKey parses an unencrypted PKCS#8 RSA private key from PEM text.
func loadPrivateKey(pemText string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, &KeyParseError{Cause: errors.New("no PEM block found")}
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, &KeyParseError{Cause: err}
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, &KeyTypeError{Algorithm: fmt.Sprintf("%T", parsed)}
	}
	return key, nil
}

// loadPublicKey normalizes and parses an RSA public key from PEM-ish text.
func loadPublicKey(pemText string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(NormalizePublicKey(pemText)))
	if block == nil {
		return nil, &KeyParseError{Cause: errors.New("no PEM block found")}
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, &KeyParseError{Cause: err}
	}

	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, &KeyTypeError{Algorithm: fmt.Sprintf("%T", parsed)}
	}
	return key, nil
}
