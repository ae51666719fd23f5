package signature

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
)

// Sign produces the gateway signature for params using an unencrypted PKCS#8
// RSA private key.
//
// The canonical string is hashed with MD5 and the resulting uppercase hex
// digest is what the RSA PKCS#1 v1.5/SHA-1 primitive signs. The stacked
// hashes are dictated by the gateway protocol: SHA-1 runs over the 32-char
// digest string, not over the original parameters.
//
// Malformed key text yields a *KeyParseError; well-formed non-RSA keys yield
// a *KeyTypeError.
func Sign(params Params, privateKeyPEM string) (string, error) {
	key, err := loadPrivateKey(privateKeyPEM)
	if err != nil {
		return "", err
	}

	digest := Digest(CanonicalString(params))
	hashed := sha1.Sum([]byte(digest))

	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA1, hashed[:])
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(sig), nil
}
