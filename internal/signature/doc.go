// Package signature implements the PalmPay open-gateway signing scheme used
// for outbound API requests and inbound payment callbacks.
//
// The gateway signs a canonical serialization of a flat parameter map rather
// than the raw request body. Building a signature takes four steps:
//
//  1. Canonicalize: sort keys ascending, drop nil values and strings that
//     trim to empty, render every retained value as text and join the pairs
//     as "key1=value1&key2=value2". No character is escaped.
//  2. Digest: uppercase hex MD5 of the canonical string's UTF-8 bytes.
//  3. Sign: RSA PKCS#1 v1.5 with SHA-1 over the digest string's bytes. The
//     MD5 and SHA-1 stages are both required by the gateway protocol; the
//     SHA-1 hash is computed over the 32-character hex digest, not over the
//     original parameters.
//  4. Encode: base64 of the raw signature bytes.
//
// Outbound signing surfaces typed errors (*KeyParseError, *KeyTypeError) so a
// caller can never send an unsigned request by accident. Inbound verification
// deliberately collapses every failure mode to false: a bad signature on a
// callback is routine, attacker-reachable input, not a programming error. The
// underlying cause is logged for operability but never escapes the Verifier.
//
// Gateway public keys arrive in inconsistent shapes (bare base64, legacy
// "RSA PUBLIC KEY" markers, strict PEM); NormalizePublicKey repairs them into
// parseable PEM before use.
package signature
