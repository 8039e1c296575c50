package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cheap parameters keep the test fast; production strength is not
// under test here.
var testParams = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPasswordWithParams("hunter2-but-longer", testParams)
	require.NoError(t, err)

	ok, err := VerifyPassword("hunter2-but-longer", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordRejectsWrongPassword(t *testing.T) {
	hash, err := HashPasswordWithParams("correct password", testParams)
	require.NoError(t, err)

	ok, err := VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("whatever", []byte("not-a-hash"))
	assert.Error(t, err)
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := HashPasswordWithParams("same input", testParams)
	require.NoError(t, err)
	second, err := HashPasswordWithParams("same input", testParams)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
