package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetwork(t *testing.T) {
	cause := errors.New("connection refused")
	err := Network("openai", cause)

	assert.EqualError(t, err, "openai: network error: connection refused")
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsNetwork(fmt.Errorf("translate: %w", err)))
	assert.Nil(t, Network("openai", nil))
}

func TestIsNetwork_PlainError(t *testing.T) {
	assert.False(t, IsNetwork(ErrNotFound))
	assert.False(t, IsNetwork(nil))
}
