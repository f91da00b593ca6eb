// Package credential derives and verifies password hashes with PBKDF2-SHA512.
package credential

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltLength is the number of random bytes of a salt.
	// It is also the length of the derived key.
	SaltLength = 128
	// Iterations is the PBKDF2 iteration count.
	Iterations = 4096
)

// Hash generates a random salt and derives a key from the secret.
// Both are returned base64 encoded.
//
// The key is derived from the encoded salt so records stay compatible with
// accounts created by the previous implementation.
func Hash(secret string) (salt, hash string, err error) {
	b := make([]byte, SaltLength)
	if _, err = rand.Read(b); err != nil {
		return "", "", errors.Wrap(err, "could not generate salt")
	}

	salt = base64.StdEncoding.EncodeToString(b)
	return salt, base64.StdEncoding.EncodeToString(key(secret, salt)), nil
}

// Verify returns true if the secret matches the given salt and hash.
func Verify(secret, salt, hash string) (bool, error) {
	expected, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false, errors.Wrap(err, "could not decode password hash")
	}
	if len(expected) != SaltLength {
		return false, errors.Errorf("invalid password hash length %d", len(expected))
	}

	return subtle.ConstantTimeCompare(key(secret, salt), expected) == 1, nil
}

func key(secret, salt string) []byte {
	return pbkdf2.Key([]byte(secret), []byte(salt), Iterations, SaltLength, sha512.New)
}
