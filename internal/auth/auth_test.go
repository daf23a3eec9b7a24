package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medcare/clinic-scheduling/internal/clinic"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("reception-password")
	require.NoError(t, err)
	assert.NotEqual(t, "reception-password", hash)

	assert.True(t, hasher.Compare(hash, "reception-password"))
	assert.False(t, hasher.Compare(hash, "wrong-password"))
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	hasher := NewBcryptHasher(100)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)

	hasher = NewBcryptHasher(-1)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}

func TestTokenIssueAndVerify(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)

	user := &clinic.User{
		ID:       uuid.New(),
		Username: "anna",
		Role:     clinic.RoleReceptionist,
	}

	signed, err := tokens.Issue(user, time.Now())
	require.NoError(t, err)

	claims, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "anna", claims.Username)
	assert.Equal(t, string(clinic.RoleReceptionist), claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestTokenVerifyRejectsBadTokens(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	user := &clinic.User{ID: uuid.New(), Username: "anna", Role: clinic.RoleAdmin}

	// Wrong secret.
	other := NewTokenService([]byte("other-secret"), time.Hour)
	signed, err := other.Issue(user, time.Now())
	require.NoError(t, err)
	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Expired.
	signed, err = tokens.Issue(user, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = tokens.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Garbage.
	_, err = tokens.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	repo := clinic.NewMemoryRepository()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	authn := NewAuthenticator(repo, hasher, tokens)
	ctx := context.Background()

	hash, err := hasher.Hash("reception-password")
	require.NoError(t, err)
	_, err = repo.CreateUser(ctx, clinic.User{
		ID:           uuid.New(),
		Name:         "Anna Front",
		Username:     "anna",
		PasswordHash: hash,
		Role:         clinic.RoleReceptionist,
	})
	require.NoError(t, err)

	token, user, err := authn.Login(ctx, "anna", "reception-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "anna", user.Username)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "anna", claims.Username)

	// Username lookup ignores case.
	_, user, err = authn.Login(ctx, "ANNA", "reception-password")
	require.NoError(t, err)
	assert.Equal(t, "anna", user.Username)

	// Wrong password and unknown user report identically.
	_, _, err = authn.Login(ctx, "anna", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authn.Login(ctx, "nobody", "reception-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
