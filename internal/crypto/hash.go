package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// PayloadDigest returns the hex-encoded SHA-256 of an upload body.
// Client and server compute it the same way, it travels in the X-Content-SHA256 header.
func PayloadDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// VerifyPayloadDigest проверяет, что body соответствует переданному digest
func VerifyPayloadDigest(body []byte, digest string) error {
	if digest == "" {
		return fmt.Errorf("payload digest cannot be empty")
	}

	computed := PayloadDigest(body)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) != 1 {
		return fmt.Errorf("payload digest mismatch")
	}

	return nil
}
