package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("secret")
	token, err := GenerateToken("ci-bot", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, "ci-bot", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("ci-bot", []byte("secret"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("other"))
	require.Error(t, err)
}

func TestParseToken_NoExpiry(t *testing.T) {
	token, err := GenerateToken("ci-bot", []byte("secret"), -time.Hour)
	require.NoError(t, err)
	claims, err := ParseToken(token, []byte("secret"))
	require.NoError(t, err)
	require.Nil(t, claims.ExpiresAt)
}

func TestGenerateToken_RequiresSubject(t *testing.T) {
	_, err := GenerateToken("", []byte("secret"), time.Hour)
	require.Error(t, err)
}
