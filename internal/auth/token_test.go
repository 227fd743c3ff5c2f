package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("secret", 15)

	token, expiresAt, err := tokens.GenerateToken("staff-1", domain.RoleDirector)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := tokens.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "staff-1", claims.Subject)
	require.Equal(t, domain.RoleDirector, claims.Role)
}

func TestParseTokenRejectsBadTokens(t *testing.T) {
	tokens := NewTokenManager("secret", 15)

	other, _, err := NewTokenManager("other-secret", 15).GenerateToken("staff-1", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = tokens.ParseToken(other)
	require.Error(t, err)

	expired := NewTokenManager("secret", 15)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _, err := expired.GenerateToken("staff-1", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = tokens.ParseToken(stale)
	require.Error(t, err)

	unknownRole, _, err := tokens.GenerateToken("staff-1", domain.Role("ROOT"))
	require.NoError(t, err)
	_, err = tokens.ParseToken(unknownRole)
	require.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: domain.RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.ParseToken(unsigned)
	require.Error(t, err)
}
