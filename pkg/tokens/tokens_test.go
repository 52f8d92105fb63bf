package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	token, err := SignAccess(42, "manager", secret, time.Now().Add(time.Minute))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "manager", claims.Role)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := SignAccess(1, "user", []byte("right"), time.Now().Add(time.Minute))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, []byte("wrong"))
	assert.Error(t, err)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	token, err := SignAccess(1, "user", secret, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, secret)
	assert.Error(t, err)
}

func TestRefreshTokensCarryUniqueIDs(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	exp := time.Now().Add(time.Hour)

	first, err := SignRefresh(7, secret, exp)
	require.NoError(t, err)
	second, err := SignRefresh(7, secret, exp)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	claims, err := RefreshClaimsFromToken(first, secret)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	t.Parallel()

	token, err := SignRefresh(1, []byte("refresh-secret"), time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(token, []byte("access-secret"))
	assert.Error(t, err)
}
