// Package resilience guards calls to remote providers with a circuit
// breaker. Calls are never retried: a failure is returned to the caller
// as is, and after repeated consecutive failures further calls fail fast
// until the breaker half-opens again.
package resilience

import (
	"time"

	"github.com/sony/gobreaker"
)

// Settings configures a Breaker
type Settings struct {
	Name                string
	ConsecutiveFailures uint32        // failures that open the breaker
	OpenTimeout         time.Duration // time until a trial call is let through
}

// DefaultSettings returns settings suited for interactive bulk passes
func DefaultSettings(name string) Settings {
	return Settings{
		Name:                name,
		ConsecutiveFailures: 3,
		OpenTimeout:         30 * time.Second,
	}
}

// Breaker wraps a gobreaker circuit breaker
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker creates a new breaker
func NewBreaker(s Settings) *Breaker {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 3
	}

	threshold := s.ConsecutiveFailures
	return &Breaker{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        s.Name,
			MaxRequests: 1,
			Timeout:     s.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		}),
	}
}

// Do runs fn through the breaker
func (b *Breaker) Do(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// DoString runs fn through the breaker and returns its string result
func (b *Breaker) DoString(fn func() (string, error)) (string, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return "", err
	}
	s, _ := res.(string)
	return s, nil
}

// Open reports whether the breaker currently rejects calls
func (b *Breaker) Open() bool {
	return b.cb.State() == gobreaker.StateOpen
}

// IsOpenError reports whether err was produced by a rejecting breaker
func IsOpenError(err error) bool {
	return err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests
}
