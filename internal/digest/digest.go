package digest

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strings"
)

// Length is the size of a hex-encoded SHA1 digest.
const Length = 40

// PrefixLength is how many leading hex chars are sent to the range API.
const PrefixLength = 5

var ErrInvalidHash = errors.New("invalid SHA1 hash")

// SHA1 implements checker.Digester.
type SHA1 struct{}

func (SHA1) Digest(s string) string { return SHA1Hex(s) }

// SHA1Hex returns the lowercase hex SHA1 of s.
func SHA1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// IsSHA1Hex reports whether s is exactly 40 hex characters, either case.
func IsSHA1Hex(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Normalize lowercases a candidate digest and validates it.
func Normalize(hash string) (string, error) {
	if !IsSHA1Hex(hash) {
		return "", ErrInvalidHash
	}
	return strings.ToLower(hash), nil
}

// Split returns the range prefix and the remaining suffix of a normalized digest.
func Split(hash string) (prefix, suffix string) {
	return hash[:PrefixLength], hash[PrefixLength:]
}
