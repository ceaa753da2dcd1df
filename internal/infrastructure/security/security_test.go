package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domuser "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/user"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)

	signed, err := tokens.Issue(domuser.Principal{UserID: "u-1", Role: domuser.RoleAdmin})
	require.NoError(t, err)

	p, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.UserID)
	assert.True(t, p.IsAdmin())
}

func TestTokensRejectExpired(t *testing.T) {
	tokens, err := NewTokens("secret", time.Minute)
	require.NoError(t, err)
	issuedAt := time.Now().Add(-time.Hour)
	tokens.now = func() time.Time { return issuedAt }
	signed, err := tokens.Issue(domuser.Principal{UserID: "u-1", Role: domuser.RoleUser})
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectForeignSecretAndAlg(t *testing.T) {
	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewTokens("other", time.Hour)
	require.NoError(t, err)

	signed, err := other.Issue(domuser.Principal{UserID: "u-1", Role: domuser.RoleUser})
	require.NoError(t, err)
	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u-1", "role": "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokensRequiresSecret(t *testing.T) {
	_, err := NewTokens("", time.Hour)
	assert.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, h.Compare(hash, "hunter22"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), domuser.ErrInvalidCredentials)
	assert.ErrorIs(t, h.Compare("garbage", "wrong"), domuser.ErrInvalidCredentials)
}
