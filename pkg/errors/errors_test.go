package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataFor(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			assert.Equal(t, tc.status, MetadataFor(tc.code).HTTPStatus)
		})
	}

	t.Run("unknown code falls back to internal", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, MetadataFor(Code("NO_SUCH_CODE")).HTTPStatus)
	})
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeDependency, cause, "query products")

	require.NotNil(t, err)
	assert.Equal(t, CodeDependency, err.Code())
	assert.Equal(t, "query products", err.Message())
	assert.ErrorIs(t, err, cause)
}

func TestWrapNilCause(t *testing.T) {
	err := Wrap(CodeInternal, nil, "no cause")
	require.NotNil(t, err)
	assert.Nil(t, err.Unwrap())
}

func TestAs(t *testing.T) {
	t.Run("typed error round-trips through wrapping", func(t *testing.T) {
		inner := New(CodeNotFound, "order not found")
		outer := fmt.Errorf("handler: %w", inner)

		typed := As(outer)
		require.NotNil(t, typed)
		assert.Equal(t, CodeNotFound, typed.Code())
	})

	t.Run("plain errors yield nil", func(t *testing.T) {
		assert.Nil(t, As(fmt.Errorf("plain")))
	})

	t.Run("nil yields nil", func(t *testing.T) {
		assert.Nil(t, As(nil))
	})
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "price must be greater than zero").
		WithDetails(map[string]any{"field": "price"})

	details, ok := err.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "price", details["field"])
	assert.Equal(t, "VALIDATION_ERROR: price must be greater than zero", err.Error())
}
