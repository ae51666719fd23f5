package signature

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Digest returns the MD5 hash of the canonical string's UTF-8 bytes as a
// 32-character uppercase hex string, the form the gateway signs.
func Digest(canonical string) string {
	sum := md5.Sum([]byte(canonical))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
