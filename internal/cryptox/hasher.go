// Package cryptox holds the one-way credential hashing used by accounts.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length of a freshly generated per-account salt.
	SaltSize = 16
	// DigestSize is the length of an argon2id password digest.
	DigestSize = 32
)

// Hasher derives and checks password digests.
type Hasher interface {
	Hash(password, salt []byte) []byte
	Verify(password, salt, digest []byte) bool
}

// Argon2Hasher hashes with argon2id. The zero value is ready to use.
type Argon2Hasher struct{}

// NewArgon2Hasher returns the default Hasher.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{}
}

// Hash returns the argon2id digest of password under salt. Identical inputs
// always give identical output.
func (Argon2Hasher) Hash(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, DigestSize)
}

// Verify reports whether password hashes to digest under salt.
// The comparison runs in constant time.
func (h Argon2Hasher) Verify(password, salt, digest []byte) bool {
	candidate := h.Hash(password, salt)
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

// NewSalt returns SaltSize random bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}
