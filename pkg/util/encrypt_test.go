package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2HashRoundTrip(t *testing.T) {
	password := "my_secure_password"

	hash, err := CreateArgon2Hash(password)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=16384,t=3,p=2$"), hash)
	assert.True(t, IsArgon2Hash(hash))
	assert.False(t, IsArgon2Hash(password))

	ok, err := ComparePasswordAndHash(password, hash)
	require.NoError(t, err)
	assert.True(t, ok, "Password should match the hash")

	ok, err = ComparePasswordAndHash("wrong_password", hash)
	require.NoError(t, err)
	assert.False(t, ok, "Wrong password should not match the hash")

	other, err := CreateArgon2Hash(password)
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "each hash gets its own salt")
}

func TestStoredHashKeepsItsParameters(t *testing.T) {
	saved := passwordParams
	passwordParams = argon2Params{memory: 8 * 1024, iterations: 1, parallelism: 1, keyLen: 16}
	hash, err := CreateArgon2Hash("secret")
	passwordParams = saved
	require.NoError(t, err)

	ok, err := ComparePasswordAndHash("secret", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestComparePasswordRejectsMalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"secret",
		"$argon2id$v=19$broken",
		"$argon2i$v=19$m=16384,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=16$m=16384,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=19$m=16384,t=3,p=2$$a2V5",
		"$argon2id$v=19$m=16384,t=3,p=2$c2FsdA$!!",
	} {
		_, err := ComparePasswordAndHash("secret", encoded)
		assert.ErrorIs(t, err, ErrMalformedHash, encoded)
		assert.False(t, IsArgon2Hash(encoded), encoded)
	}
}
