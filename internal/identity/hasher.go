// Package identity provides credential hashing and signed claims tokens.
package identity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"github.com/google/uuid"
)

// Hasher derives credential digests as SHA-256 over the UTF-8 bytes of the
// plaintext followed by the UTF-8 bytes of a per-user salt.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// GenerateSalt returns a fresh random salt. Salts are random UUID strings.
func (h *Hasher) GenerateSalt() string {
	return uuid.NewString()
}

// Hash returns the raw 32 byte digest. Empty plaintext is accepted.
func (h *Hasher) Hash(plaintext, salt string) []byte {
	input := make([]byte, 0, len(plaintext)+len(salt))
	input = append(input, plaintext...)
	input = append(input, salt...)
	sum := sha256.Sum256(input)
	return sum[:]
}

// HashString returns the digest in standard base64, the stored form.
func (h *Hasher) HashString(plaintext, salt string) string {
	return base64.StdEncoding.EncodeToString(h.Hash(plaintext, salt))
}

// Verify reports whether plaintext and salt reproduce expected. The
// comparison runs in constant time for equal-length inputs.
func (h *Hasher) Verify(plaintext, salt string, expected []byte) bool {
	actual := h.Hash(plaintext, salt)
	if len(actual) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

// VerifyString is Verify against a stored base64 digest. An undecodable
// digest never matches.
func (h *Hasher) VerifyString(plaintext, salt, encoded string) bool {
	expected, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	return h.Verify(plaintext, salt, expected)
}
