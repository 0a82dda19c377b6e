package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-characters!!"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, exp, err := tm.GenerateToken("user-1", "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "a@x.com", claims.Email)
	require.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 5*time.Second)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := &TokenManager{secret: []byte(testSecret), ttl: -time.Minute}

	token, _, err := tm.GenerateToken("user-1", "a@x.com")
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager(testSecret, time.Hour)
	verifier := NewTokenManager("a-completely-different-secret-value", time.Hour)

	token, _, err := issuer.GenerateToken("user-1", "a@x.com")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	require.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestTokenManager_Malformed(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	for _, tokenStr := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := tm.ParseToken(tokenStr)
		require.ErrorIs(t, err, ErrTokenMalformed, "token %q", tokenStr)
	}
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	tm := NewTokenManager(testSecret, 0)
	require.Equal(t, 168*time.Hour, tm.ttl)
}
