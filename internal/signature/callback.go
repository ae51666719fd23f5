package signature

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/Balamathias/isubscribe-ai-microservice/internal/common/logging"
)

// SignField is the reserved callback field carrying the signature.
const SignField = "sign"

// VerifyCallback checks the signature on a raw JSON callback body. The
// reserved "sign" field is removed before canonicalization - the signature is
// never a member of the set of fields it signs - and every remaining top-level
// field participates in the canonical string.
//
// Signatures that arrive percent-encoded (some transports escape base64
// punctuation) are decoded before verification. As with Verify, all failures
// collapse to false.
func (v *Verifier) VerifyCallback(body []byte, publicKeyPEM string) bool {
	var fields Params
	if err := json.Unmarshal(body, &fields); err != nil {
		v.logger.Warn("Callback body is not valid JSON", logging.Err(err))
		return false
	}

	sig, ok := fields[SignField].(string)
	delete(fields, SignField)
	if !ok || sig == "" {
		v.logger.Warn("Callback is missing its signature field")
		return false
	}

	if strings.Contains(sig, "%") {
		// PathUnescape decodes %XX without touching "+", which is a
		// legitimate base64 character.
		if decoded, err := url.PathUnescape(sig); err == nil {
			sig = decoded
		}
	}

	return v.Verify(fields, publicKeyPEM, sig)
}
