package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker"
)

type Settings struct {
	Name string
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32
	// Interval is the rolling window over which failure counts are tracked
	// while closed.
	Interval time.Duration
	// Timeout is the cool-down before an open breaker moves to half-open.
	Timeout time.Duration
	// FailureRatio trips the breaker once MinRequests calls have been seen.
	FailureRatio float64
	MinRequests  uint32
}

// CircuitBreaker guards calls to an unreliable dependency. State is shared
// per instance, so call sites that must share failure history (the AI risk
// classifier and the chat sidebar) are handed the same breaker.
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	if settings.FailureRatio <= 0 {
		settings.FailureRatio = 0.5
	}
	if settings.MinRequests == 0 {
		settings.MinRequests = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= settings.MinRequests && ratio >= settings.FailureRatio
		},
	})

	return &CircuitBreaker{cb: cb}
}

// Execute runs fn through the breaker. When the breaker is open the call is
// short-circuited and fn is never invoked.
func (c *CircuitBreaker) Execute(fn func() (string, error)) (string, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Do runs fn through the breaker for call sites without a result value.
func (c *CircuitBreaker) Do(fn func() error) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// State returns the breaker state name: closed, half-open or open.
func (c *CircuitBreaker) State() string {
	return c.cb.State().String()
}
