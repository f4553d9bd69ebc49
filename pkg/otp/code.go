package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultLength is the standard code length.
	DefaultLength = 6

	// MinLength and MaxLength bound Generate.
	MinLength = 4
	MaxLength = 10

	// bcryptCost is the fixed work factor for code hashes.
	bcryptCost = 10
)

var ten = big.NewInt(10)

// Generate returns a numeric code of the given length. Each digit is drawn
// independently and uniformly from a CSPRNG.
func Generate(length int) (string, error) {
	if length < MinLength || length > MaxLength {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}

// Hash returns the bcrypt hash of the code. The salt is embedded in the
// output, so equal codes produce distinct hashes.
func Hash(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether code matches the bcrypt hash. Malformed hashes
// compare false; bcrypt's comparison is constant-time over the digest.
func Compare(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
