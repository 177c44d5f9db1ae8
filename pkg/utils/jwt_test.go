package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuePairAndVerify(t *testing.T) {
	m := NewJWTManager("test-secret", "viralspark")

	pair, err := m.IssuePair("t1", "u1", "member", time.Minute, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := m.Verify(pair.AccessToken, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "t1", claims.TenantID)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "member", claims.Role)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	m := NewJWTManager("test-secret", "viralspark")

	pair, err := m.IssuePair("t1", "u1", "member", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = m.Verify(pair.RefreshToken, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.Verify(pair.AccessToken, TokenRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", "viralspark")

	pair, err := m.IssuePair("t1", "u1", "member", -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = m.Verify(pair.AccessToken, TokenAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", "viralspark")
	verifier := NewJWTManager("secret-b", "viralspark")

	pair, err := issuer.IssuePair("t1", "u1", "member", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(pair.AccessToken, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
