package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wellspace/pkg/jwt"
)

type testClaims struct {
	jwt.StandardClaims
	Name string `json:"name,omitempty"`
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("with valid signing key", func(t *testing.T) {
		service, err := jwt.New([]byte("secret"))
		require.NoError(t, err)
		require.NotNil(t, service)
	})

	t.Run("with empty signing key", func(t *testing.T) {
		service, err := jwt.New(nil)
		require.ErrorIs(t, err, jwt.ErrMissingSigningKey)
		require.Nil(t, service)
	})
}

func TestGenerateParse_RoundTrip(t *testing.T) {
	t.Parallel()

	service, err := jwt.NewFromString("secret")
	require.NoError(t, err)

	claims := testClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   "user123",
			Issuer:    "wellspace",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
		Name: "Alice",
	}

	token, err := service.Generate(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	var parsed testClaims
	require.NoError(t, service.Parse(token, &parsed))
	assert.Equal(t, "user123", parsed.Subject)
	assert.Equal(t, "Alice", parsed.Name)
}

func TestGenerate_NilClaims(t *testing.T) {
	t.Parallel()

	service, err := jwt.NewFromString("secret")
	require.NoError(t, err)

	_, err = service.Generate(nil)
	assert.ErrorIs(t, err, jwt.ErrMissingClaims)
}

func TestParse_Failures(t *testing.T) {
	t.Parallel()

	service, err := jwt.NewFromString("secret")
	require.NoError(t, err)

	t.Run("malformed token", func(t *testing.T) {
		var claims testClaims
		assert.ErrorIs(t, service.Parse("not-a-token", &claims), jwt.ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other, err := jwt.NewFromString("different")
		require.NoError(t, err)

		token, err := other.Generate(jwt.StandardClaims{Subject: "user123"})
		require.NoError(t, err)

		var claims testClaims
		assert.ErrorIs(t, service.Parse(token, &claims), jwt.ErrInvalidSignature)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := service.Generate(jwt.StandardClaims{
			Subject:   "user123",
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		})
		require.NoError(t, err)

		var claims jwt.StandardClaims
		assert.ErrorIs(t, service.Parse(token, &claims), jwt.ErrExpiredToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := service.Generate(jwt.StandardClaims{Subject: "user123"})
		require.NoError(t, err)

		tampered := token[:len(token)-2] + "xx"
		var claims jwt.StandardClaims
		assert.Error(t, service.Parse(tampered, &claims))
	})
}
