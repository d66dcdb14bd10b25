package crypto

import (
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt refuses inputs longer than 72 bytes. Anything over that limit is
// condensed to its SHA-256 digest first, so long passwords stay verifiable
// instead of being truncated or rejected.
const maxBcryptInputLen = 72

var ErrInvalidHashFormat = errors.New("invalid stored hash format")

// hashInput applies the length pre-hash rule. Hashing and verification
// must make the identical decision here, or long passwords would hash on
// one path and verify on another.
func hashInput(password string) []byte {
	b := []byte(password)
	if len(b) > maxBcryptInputLen {
		sum := sha256.Sum256(b)
		return sum[:]
	}
	return b
}

// HashPassword hashes a password using bcrypt with a fresh random salt.
// Two calls with the same password produce different hash strings.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(hashInput(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword checks whether a password matches the given bcrypt hash.
// A plain mismatch returns (false, nil); a corrupt or non-bcrypt stored
// hash returns (false, ErrInvalidHashFormat). Verification fails closed on
// any ambiguity.
func VerifyPassword(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), hashInput(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, ErrInvalidHashFormat
}
