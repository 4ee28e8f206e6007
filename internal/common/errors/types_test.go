package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	t.Run("type and message", func(t *testing.T) {
		err := ValidationError("bad url")
		assert.Equal(t, "validation: bad url", err.Error())
	})

	t.Run("with code", func(t *testing.T) {
		err := ConfigError("missing store path").WithCode("CFG001")
		assert.Contains(t, err.Error(), "code=CFG001")
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := CacheError("write failed", cause)
		assert.Contains(t, err.Error(), "cause=disk full")
	})

	t.Run("with context", func(t *testing.T) {
		err := RateLimitError("whois").WithContext("limit", 50)
		assert.Contains(t, err.Error(), "limit=50")
	})
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := ProviderError("fetch failed", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected ErrorType
	}{
		{"config", ConfigError("x"), ErrTypeConfig},
		{"validation", ValidationError("x"), ErrTypeValidation},
		{"rate limit", RateLimitError("trends"), ErrTypeRateLimit},
		{"timeout", TimeoutError("fetch"), ErrTypeTimeout},
		{"provider", ProviderError("x", nil), ErrTypeProvider},
		{"cache", CacheError("x", nil), ErrTypeCache},
		{"not found", NotFoundError("entry"), ErrTypeNotFound},
		{"auth", AuthError("x"), ErrTypeAuth},
		{"internal", InternalError("x", nil), ErrTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Type)
		})
	}
}

func TestRateLimitError_Message(t *testing.T) {
	err := RateLimitError("google_trends")
	assert.Equal(t, "rate limit exceeded for google_trends", err.Message)
}

func TestIsType(t *testing.T) {
	t.Run("matching type", func(t *testing.T) {
		err := RateLimitError("shopify")
		assert.True(t, IsType(err, ErrTypeRateLimit))
		assert.False(t, IsType(err, ErrTypeCache))
	})

	t.Run("nil error", func(t *testing.T) {
		assert.False(t, IsType(nil, ErrTypeInternal))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.False(t, IsType(fmt.Errorf("plain"), ErrTypeInternal))
	})
}

func TestGetType(t *testing.T) {
	assert.Equal(t, ErrTypeTimeout, GetType(TimeoutError("detect")))
	assert.Equal(t, ErrTypeInternal, GetType(errors.New("plain")))
	assert.Equal(t, ErrorType(""), GetType(nil))
}
