package jwt_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wellspace/pkg/jwt"
)

func TestBearerToken(t *testing.T) {
	t.Parallel()

	t.Run("valid header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer abc.def.ghi")

		token, err := jwt.BearerToken(r)
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("missing header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)

		_, err := jwt.BearerToken(r)
		assert.ErrorIs(t, err, jwt.ErrMissingToken)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		_, err := jwt.BearerToken(r)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
