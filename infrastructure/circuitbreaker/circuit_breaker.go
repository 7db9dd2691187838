package circuitbreaker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrOpen is returned by Execute while the circuit for a key is open
var ErrOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// CircuitBreaker tracks failures per key (a gateway base URL) and short-circuits
// calls to a key after maxFailures consecutive failures. It never retries.
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration
	log          *zap.Logger
	now          func() time.Time

	mu          sync.Mutex
	failures    map[string]int
	lastFailure map[string]time.Time
	state       map[string]State
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, log *zap.Logger) *CircuitBreaker {
	if log == nil {
		log = zap.NewNop()
	}
	if maxFailures <= 0 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		log:          log,
		now:          time.Now,
		failures:     make(map[string]int),
		lastFailure:  make(map[string]time.Time),
		state:        make(map[string]State),
	}
}

// Allow reports whether a call to key may proceed. An open circuit whose reset
// timeout has passed moves to half-open and lets one probe through.
func (cb *CircuitBreaker) Allow(key string) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state[key] {
	case StateOpen:
		if cb.now().Sub(cb.lastFailure[key]) < cb.resetTimeout {
			return false
		}
		cb.state[key] = StateHalfOpen
		cb.log.Info("Circuit breaker half-open", zap.String("key", key))
		return true
	default:
		return true
	}
}

// Execute runs fn under the breaker for key
func (cb *CircuitBreaker) Execute(key string, fn func() error) error {
	if !cb.Allow(key) {
		return fmt.Errorf("%w for %s", ErrOpen, key)
	}

	err := fn()
	if err != nil {
		cb.RecordFailure(key)
	} else {
		cb.RecordSuccess(key)
	}
	return err
}

// RecordSuccess closes the circuit for key
func (cb *CircuitBreaker) RecordSuccess(key string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	delete(cb.failures, key)
	delete(cb.lastFailure, key)
	if cb.state[key] == StateHalfOpen {
		cb.log.Info("Circuit breaker closed", zap.String("key", key))
	}
	cb.state[key] = StateClosed
}

// RecordFailure counts a failure and opens the circuit at the threshold.
// A failed half-open probe reopens it immediately.
func (cb *CircuitBreaker) RecordFailure(key string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures[key]++
	cb.lastFailure[key] = cb.now()

	if cb.state[key] == StateHalfOpen || cb.failures[key] >= cb.maxFailures {
		if cb.state[key] != StateOpen {
			cb.log.Warn("Circuit breaker opened",
				zap.String("key", key),
				zap.Int("failures", cb.failures[key]))
		}
		cb.state[key] = StateOpen
	}
}

// GetState returns the current state for key
func (cb *CircuitBreaker) GetState(key string) State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if state, ok := cb.state[key]; ok {
		return state
	}
	return StateClosed
}

// Reset forgets everything about key
func (cb *CircuitBreaker) Reset(key string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	delete(cb.failures, key)
	delete(cb.lastFailure, key)
	delete(cb.state, key)
}
