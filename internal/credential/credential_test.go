package credential_test

import (
	"crypto/sha512"
	"encoding/base64"
	"testing"

	"github.com/slsmu/slsmu/internal/credential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func TestHash(t *testing.T) {
	salt, hash, err := credential.Hash("password")
	require.NoError(t, err)

	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	require.NoError(t, err)
	assert.Len(t, rawSalt, credential.SaltLength)

	rawHash, err := base64.StdEncoding.DecodeString(hash)
	require.NoError(t, err)
	assert.Len(t, rawHash, credential.SaltLength)

	// Same secret, new salt.
	salt2, hash2, err := credential.Hash("password")
	require.NoError(t, err)
	assert.NotEqual(t, salt, salt2)
	assert.NotEqual(t, hash, hash2)
}

func TestVerify(t *testing.T) {
	salt, hash, err := credential.Hash("password")
	require.NoError(t, err)

	ok, err := credential.Verify("password", salt, hash)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = credential.Verify("passwORd", salt, hash)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = credential.Verify("", salt, hash)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = credential.Hash("")
	assert.NoError(t, err)
}

func TestVerifyLegacyRecord(t *testing.T) {
	// Records created by the previous implementation derive the key from the encoded salt.
	salt := base64.StdEncoding.EncodeToString(make([]byte, credential.SaltLength))
	k := pbkdf2.Key([]byte("password"), []byte(salt), 4096, 128, sha512.New)
	hash := base64.StdEncoding.EncodeToString(k)

	ok, err := credential.Verify("password", salt, hash)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyCorruptedHash(t *testing.T) {
	salt, _, err := credential.Hash("password")
	require.NoError(t, err)

	ok, err := credential.Verify("password", salt, "%%%")
	assert.Error(t, err)
	assert.False(t, ok)

	ok, err = credential.Verify("password", salt, base64.StdEncoding.EncodeToString([]byte("short")))
	assert.EqualError(t, err, "invalid password hash length 5")
	assert.False(t, ok)
}
