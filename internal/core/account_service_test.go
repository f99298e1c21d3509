package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/store"
)

func TestSignUpAndSignIn(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccountService(s, zap.NewNop())

	profile, err := svc.SignUp("parent@example.com", "password123", "أم سارة")
	require.NoError(t, err)
	assert.Equal(t, store.RoleParent, profile.Role)
	assert.NotEqual(t, "password123", profile.PasswordHash, "password must be stored hashed")

	signedIn, err := svc.SignIn("parent@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, signedIn.ID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccountService(s, zap.NewNop())

	_, err := svc.SignUp("parent@example.com", "password123", "أم سارة")
	require.NoError(t, err)

	_, err = svc.SignUp("parent@example.com", "different456", "شخص آخر")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestSignInFailuresAreIndistinguishable(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccountService(s, zap.NewNop())

	_, err := svc.SignUp("parent@example.com", "password123", "أم سارة")
	require.NoError(t, err)

	_, wrongPassword := svc.SignIn("parent@example.com", "wrong")
	_, missingAccount := svc.SignIn("nobody@example.com", "password123")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, missingAccount, ErrInvalidCredentials)
}

func TestHasChildrenFlipsAfterFirstChild(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccountService(s, zap.NewNop())

	profile, err := svc.SignUp("parent@example.com", "password123", "أم سارة")
	require.NoError(t, err)

	has, err := svc.HasChildren(profile.ID)
	require.NoError(t, err)
	assert.False(t, has)

	newTestChild(t, s, profile.ID, "سارة")

	has, err = svc.HasChildren(profile.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestUpdateProfileReturnsFreshRow(t *testing.T) {
	s := newTestStore(t)
	svc := NewAccountService(s, zap.NewNop())

	profile, err := svc.SignUp("parent@example.com", "password123", "أم سارة")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(profile.ID, "أم سارة ويوسف", "+201000000000")
	require.NoError(t, err)
	assert.Equal(t, "أم سارة ويوسف", updated.FullName)
	assert.Equal(t, "+201000000000", updated.Phone)
}
