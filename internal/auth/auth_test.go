package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("test-secret", 24*time.Hour, 4*time.Hour)
}

func TestIssueAndVerify(t *testing.T) {
	tm := newTestManager()

	token, err := tm.Issue(7, RoleCustomer)
	require.NoError(t, err)

	claims, err := tm.Verify(token, RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, RoleCustomer, claims.Role)
}

func TestVerify_RoleMismatch(t *testing.T) {
	tm := newTestManager()

	token, err := tm.Issue(7, RoleCustomer)
	require.NoError(t, err)

	_, err = tm.Verify(token, RoleStaff)
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestVerify_WrongSecret(t *testing.T) {
	tm := newTestManager()
	other := NewTokenManager("other-secret", 24*time.Hour, 4*time.Hour)

	token, err := tm.Issue(7, RoleStaff)
	require.NoError(t, err)

	_, err = other.Verify(token, RoleStaff)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute, -time.Minute)

	token, err := tm.Issue(7, RoleStaff)
	require.NoError(t, err)

	_, err = tm.Verify(token, RoleStaff)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	tm := newTestManager()

	_, err := tm.Verify("not-a-token", RoleStaff)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
