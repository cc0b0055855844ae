package audit

import (
	"crypto/sha256"
	"encoding/base64"
)

// Fingerprint identifies a bearer token in logs without revealing it.
func Fingerprint(token string) string {
	if token == "" {
		return "(n/a)"
	}
	hash := sha256.Sum256([]byte(token))
	return base64.RawStdEncoding.EncodeToString(hash[:])[:16]
}
