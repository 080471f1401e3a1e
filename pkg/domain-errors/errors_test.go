package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("direct error", func(t *testing.T) {
		err := New(CodeInvalidRequest, "full_name is required")
		assert.True(t, HasCode(err, CodeInvalidRequest))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("wrapped by fmt", func(t *testing.T) {
		err := fmt.Errorf("enrich: %w", New(CodeUnauthorized, "missing token"))
		assert.True(t, HasCode(err, CodeUnauthorized))
	})

	t.Run("plain error has no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "credentials store unavailable")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "credentials store unavailable: connection refused", err.Error())
	assert.Equal(t, CodeUnavailable, CodeOf(err))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidRequest: http.StatusBadRequest,
		CodeValidation:     http.StatusBadRequest,
		CodeUnauthorized:   http.StatusUnauthorized,
		CodeNotFound:       http.StatusNotFound,
		CodeTimeout:        http.StatusGatewayTimeout,
		CodeInternal:       http.StatusInternalServerError,
		Code("unknown"):    http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
