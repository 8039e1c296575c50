package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	id := Identity{
		UserID:   "u1",
		Email:    "user@example.com",
		DeviceID: "d1",
		RoleID:   "r1",
		RoleName: "CLIENT",
	}

	signed, err := SignAccessToken("secret", id, time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, id, claims.Identity())
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	signed, err := SignAccessToken("secret", Identity{UserID: "u1", RoleName: "CLIENT"}, time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(signed, "other-secret")
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	signed, err := SignAccessToken("secret", Identity{UserID: "u1", RoleName: "CLIENT"}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(signed, "secret")
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	signed, expiresAt, err := SignRefreshToken("refresh-secret", "u1", "user@example.com", "d1", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ParseRefreshToken(signed, "refresh-secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "d1", claims.DeviceID)
}

func TestRefreshTokenNotValidAsAccessSecret(t *testing.T) {
	signed, _, err := SignRefreshToken("refresh-secret", "u1", "user@example.com", "d1", time.Hour)
	require.NoError(t, err)

	_, err = ParseRefreshToken(signed, "access-secret")
	assert.Error(t, err)
}

func TestHashRefreshTokenStable(t *testing.T) {
	a := HashRefreshToken("token")
	b := HashRefreshToken("token")
	c := HashRefreshToken("other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}
