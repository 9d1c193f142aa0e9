package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cheap parameters so the tests stay fast
func testHasher() *Argon2id {
	a := NewArgon2id()
	a.Memory = 1024
	a.Iterations = 1

	return a
}

func TestArgonRoundTrip(t *testing.T) {
	a := testHasher()

	hash, err := a.GenerateFromPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=2$"))

	ok, err := a.VerifyPasswd("hunter22", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("hunter23", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgonSaltsDiffer(t *testing.T) {
	a := testHasher()

	h1, err := a.GenerateFromPassword("same")
	require.NoError(t, err)
	h2, err := a.GenerateFromPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestArgonRejectsMalformedHash(t *testing.T) {
	a := testHasher()

	for _, h := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$aaaa$bbbb", "$argon2id$v=19$m=x$aaaa$bbbb"} {
		_, err := a.VerifyPasswd("pw", h)
		assert.ErrorIs(t, err, ErrInvalidHash, h)
	}
}

func TestTokensIssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	s, exp, err := tokens.Issue("user-1", "jane@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tokens.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "jane@example.com", claims.Email)
}

func TestTokensRejectExpired(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }

	s, _, err := tokens.Issue("user-1", "jane@example.com")
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Parse(s)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokensRejectForeignSignature(t *testing.T) {
	s, _, err := NewTokens("other", time.Hour).Issue("user-1", "jane@example.com")
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour).Parse(s)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokensRejectNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour).Parse(s)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
