// Package auth provides password hashing for user accounts.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Supported hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var (
	// ErrInvalidHash indicates the hash format is invalid.
	ErrInvalidHash = errors.New("invalid hash format")
	// ErrIncompatibleVersion indicates the hash version is not supported.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	// ErrUnknownAlgorithm indicates an unsupported hasher name.
	ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")
)

// Hasher turns a plaintext password into a salted, self-describing hash.
type Hasher interface {
	Hash(password string) (string, error)
}

// NewHasher returns the hasher for algorithm.
func NewHasher(algorithm string) (Hasher, error) {
	switch algorithm {
	case AlgorithmBcrypt, "":
		return bcryptHasher{cost: bcrypt.DefaultCost}, nil
	case AlgorithmArgon2id:
		return argon2Hasher{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// NewBcryptHasher returns a bcrypt hasher with an explicit cost. Costs outside
// bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return bcryptHasher{cost: cost}
}

// VerifyPassword checks password against encodedHash. The algorithm is
// detected from the hash prefix, so accounts hashed before a change of
// PASSWORD_HASHER keep working.
func VerifyPassword(password, encodedHash string) (bool, error) {
	switch {
	case strings.HasPrefix(encodedHash, argon2Prefix):
		return verifyArgon2id(password, encodedHash)
	case strings.HasPrefix(encodedHash, "$2a$"),
		strings.HasPrefix(encodedHash, "$2b$"),
		strings.HasPrefix(encodedHash, "$2y$"):
		return verifyBcrypt(password, encodedHash)
	default:
		return false, ErrInvalidHash
	}
}
