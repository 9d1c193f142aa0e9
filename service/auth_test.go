package service

import (
	"context"
	"testing"

	"bitwise74/resource-api/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIssuesToken(t *testing.T) {
	f := newFixture(t)

	tok, err := f.auth.Register(context.Background(), Registration{Email: "jane@example.com", Password: "secret1", Name: "Jane"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)
	assert.False(t, tok.ExpiresAt.IsZero())
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]Registration{
		"email":    {Email: "nope", Password: "secret1", Name: "Jane"},
		"password": {Email: "jane@example.com", Password: "123", Name: "Jane"},
		"name":     {Email: "jane@example.com", Password: "secret1", Name: " J "},
	}

	for field, in := range cases {
		_, err := f.auth.Register(ctx, in)

		var e *errs.Error
		require.ErrorAs(t, err, &e, field)
		assert.Equal(t, errs.KindValidation, e.Kind)
		assert.Equal(t, field, e.Fields[0].Field)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "jane@example.com")

	_, err := f.auth.Register(context.Background(), Registration{Email: "jane@example.com", Password: "secret1", Name: "Jane"})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "jane@example.com")

	_, wrongPassword := f.auth.Login(ctx, "jane@example.com", "wrong-password")
	_, unknownEmail := f.auth.Login(ctx, "ghost@example.com", "wrong-password")

	require.ErrorIs(t, wrongPassword, errs.ErrUnauthorized)
	require.ErrorIs(t, unknownEmail, errs.ErrUnauthorized)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	tok, err := f.auth.Login(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	// Valid signature, but the user doesn't exist
	tok, _, err := f.auth.tokens.Issue("6b1f1c2e-2b7a-4d2e-9a53-0c6c1b5a8e11", "ghost@example.com")
	require.NoError(t, err)

	_, err = f.auth.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestProfileAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.register(t, "jane@example.com")
	f.register(t, "john@example.com")

	p, err := f.auth.Profile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, "Tester", p.Name)

	taken := "john@example.com"
	_, err = f.auth.UpdateProfile(ctx, id, UpdateProfile{Email: &taken})
	assert.ErrorIs(t, err, errs.ErrConflict)

	name, password := "Jane Doe", "new-secret"
	p, err = f.auth.UpdateProfile(ctx, id, UpdateProfile{Name: &name, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.Name)

	_, err = f.auth.Login(ctx, "jane@example.com", "new-secret")
	assert.NoError(t, err)

	_, err = f.auth.Profile(ctx, "6b1f1c2e-2b7a-4d2e-9a53-0c6c1b5a8e11")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
