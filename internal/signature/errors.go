package signature

import "fmt"

// KeyParseError reports key material that could not be decoded into a key.
type KeyParseError struct {
	Cause error
}

func (e *KeyParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse key material: %v", e.Cause)
	}
	return "failed to parse key material"
}

// Unwrap returns the underlying cause
func (e *KeyParseError) Unwrap() error {
	return e.Cause
}

// KeyTypeError reports well-formed key material of an unsupported algorithm.
type KeyTypeError struct {
	Algorithm string
}

func (e *KeyTypeError) Error() string {
	return fmt.Sprintf("unsupported key type %s: only RSA keys are supported", e.Algorithm)
}
