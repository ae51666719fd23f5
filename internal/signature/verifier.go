package signature

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"

	"github.com/Balamathias/isubscribe-ai-microservice/internal/common/logging"
)

// Verifier checks gateway signatures on inbound requests and callbacks.
// It is stateless apart from its logger and safe for concurrent use.
type Verifier struct {
	logger logging.Logger
}

// NewVerifier creates a new signature verifier
func NewVerifier(logger logging.Logger) *Verifier {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Verifier{logger: logger}
}

// Verify reports whether sig is a valid gateway signature over params. The
// public key may arrive in any of the shapes NormalizePublicKey repairs.
//
// Every failure mode, from a malformed key to a cryptographic mismatch,
// collapses to false. Causes are logged but never propagated: verification
// failure is an expected outcome for attacker-supplied input, and the caller
// must treat false as a rejection.
func (v *Verifier) Verify(params Params, publicKeyPEM, sig string) bool {
	key, err := loadPublicKey(publicKeyPEM)
	if err != nil {
		v.logger.Warn("Signature verification failed",
			logging.Field{Key: "reason", Value: "public key rejected"},
			logging.Err(err),
		)
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		v.logger.Warn("Signature verification failed",
			logging.Field{Key: "reason", Value: "signature is not valid base64"},
			logging.Err(err),
		)
		return false
	}

	digest := Digest(CanonicalString(params))
	hashed := sha1.Sum([]byte(digest))

	if err := rsa.VerifyPKCS1v15(key, crypto.SHA1, hashed[:], raw); err != nil {
		v.logger.Debug("Signature mismatch",
			logging.Field{Key: "digest", Value: digest},
			logging.Err(err),
		)
		return false
	}

	return true
}
