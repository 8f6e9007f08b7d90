// Package resilience wraps model providers with retry, circuit breaking,
// bulkheading and timeouts using fortify.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/agent-squad/infrastructure/logging"
	"github.com/felixgeelhaar/agent-squad/infrastructure/planner"
)

// ErrPermanent marks a model failure that repeating the request cannot fix.
var ErrPermanent = errors.New("permanent model failure")

// Config configures the resilient provider.
type Config struct {
	// MaxConcurrent limits concurrent model calls.
	MaxConcurrent int

	// Timeout bounds one Complete call including retries. Zero disables it.
	Timeout time.Duration

	// RetryEnabled enables retry of transient failures.
	RetryEnabled bool
	// RetryMaxAttempts is the maximum number of attempts.
	RetryMaxAttempts int
	// RetryInitialDelay is the initial delay between attempts.
	RetryInitialDelay time.Duration
	// RetryBackoffMultiplier is the exponential backoff multiplier.
	RetryBackoffMultiplier float64

	// CircuitBreakerEnabled enables the circuit breaker.
	CircuitBreakerEnabled bool
	// CircuitBreakerThreshold is consecutive failures before opening.
	CircuitBreakerThreshold int
	// CircuitBreakerTimeout is how long the circuit stays open.
	CircuitBreakerTimeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent:           4,
		Timeout:                 5 * time.Minute,
		RetryEnabled:            true,
		RetryMaxAttempts:        3,
		RetryInitialDelay:       2 * time.Second,
		RetryBackoffMultiplier:  2.0,
		CircuitBreakerEnabled:   true,
		CircuitBreakerThreshold: 5,
		CircuitBreakerTimeout:   30 * time.Second,
	}
}

// Provider decorates a planner.Provider.
// Composition order: Bulkhead → Timeout → Circuit Breaker → Retry.
type Provider struct {
	next     planner.Provider
	bulkhead bulkhead.Bulkhead[planner.CompletionResponse]
	breaker  circuitbreaker.CircuitBreaker[planner.CompletionResponse]
	retry    retry.Retry[planner.CompletionResponse]
	timeout  time.Duration
}

// Wrap decorates next with the patterns enabled in config.
func Wrap(next planner.Provider, config Config) *Provider {
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	threshold := config.CircuitBreakerThreshold
	if threshold <= 0 {
		threshold = 5
	}

	p := &Provider{
		next: next,
		bulkhead: bulkhead.New[planner.CompletionResponse](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
		}),
		timeout: config.Timeout,
	}

	if config.CircuitBreakerEnabled {
		p.breaker = circuitbreaker.New[planner.CompletionResponse](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    config.CircuitBreakerTimeout,
			Timeout:     config.CircuitBreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold) // #nosec G115 -- bounds checked above
			},
		})
	}

	if config.RetryEnabled && config.RetryMaxAttempts > 1 {
		p.retry = retry.New[planner.CompletionResponse](retry.Config{
			MaxAttempts:        config.RetryMaxAttempts,
			InitialDelay:       config.RetryInitialDelay,
			BackoffPolicy:      retry.BackoffExponential,
			Multiplier:         config.RetryBackoffMultiplier,
			NonRetryableErrors: []error{ErrPermanent},
		})
	}

	return p
}

// Name returns the wrapped provider name.
func (p *Provider) Name() string {
	return p.next.Name()
}

// Complete runs the wrapped provider with resilience patterns applied.
func (p *Provider) Complete(ctx context.Context, req planner.CompletionRequest) (planner.CompletionResponse, error) {
	return p.bulkhead.Execute(ctx, func(ctx context.Context) (planner.CompletionResponse, error) {
		if p.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}

		if p.breaker == nil {
			return p.attempt(ctx, req)
		}
		return p.breaker.Execute(ctx, func(ctx context.Context) (planner.CompletionResponse, error) {
			return p.attempt(ctx, req)
		})
	})
}

func (p *Provider) attempt(ctx context.Context, req planner.CompletionRequest) (planner.CompletionResponse, error) {
	if p.retry == nil {
		return p.call(ctx, req)
	}
	return p.retry.Do(ctx, func(ctx context.Context) (planner.CompletionResponse, error) {
		return p.call(ctx, req)
	})
}

func (p *Provider) call(ctx context.Context, req planner.CompletionRequest) (planner.CompletionResponse, error) {
	resp, err := p.next.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}

	var apiErr *planner.APIError
	if errors.As(err, &apiErr) && !apiErr.Retryable() {
		return resp, fmt.Errorf("%w: %w", ErrPermanent, err)
	}

	logging.Debug().
		Add(logging.Component("resilience")).
		Add(logging.Str("provider", p.next.Name())).
		Add(logging.ErrorField(err)).
		Msg("model call failed")
	return resp, err
}

// CircuitBreakerState returns the circuit state name, "closed" when the
// breaker is disabled.
func (p *Provider) CircuitBreakerState() string {
	if p.breaker == nil {
		return "closed"
	}
	return p.breaker.State().String()
}
