package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, "alice", "Alice", "secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", user.Password)

	got, err := f.auth.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.auth.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Authenticate(ctx, "ghost", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Register(ctx, "alice", "", "another1")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	current, err := f.auth.CurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", current.DisplayName())
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, "al", "", "secret123")
	assert.True(t, IsValidation(err))

	_, err = f.auth.Register(ctx, "bob", "", "123")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
}
