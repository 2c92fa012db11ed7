package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_PassesResults(t *testing.T) {
	b := NewBreaker(DefaultSettings("test"))

	s, err := b.DoString(func() (string, error) { return "Haus", nil })
	require.NoError(t, err)
	assert.Equal(t, "Haus", s)

	cause := errors.New("boom")
	err = b.Do(func() error { return cause })
	assert.ErrorIs(t, err, cause)
	assert.False(t, b.Open())
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker(Settings{Name: "test", ConsecutiveFailures: 2, OpenTimeout: time.Minute})

	calls := 0
	fail := func() error {
		calls++
		return errors.New("unavailable")
	}

	require.Error(t, b.Do(fail))
	require.Error(t, b.Do(fail))
	assert.True(t, b.Open())

	err := b.Do(fail)
	require.Error(t, err)
	assert.True(t, IsOpenError(err))
	assert.Equal(t, 2, calls, "an open breaker must not call through")
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	b := NewBreaker(Settings{Name: "test", ConsecutiveFailures: 2, OpenTimeout: time.Minute})

	fail := func() error { return errors.New("unavailable") }
	ok := func() error { return nil }

	require.Error(t, b.Do(fail))
	require.NoError(t, b.Do(ok))
	require.Error(t, b.Do(fail))
	assert.False(t, b.Open())
}
