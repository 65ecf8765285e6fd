// Package retry applies bounded exponential backoff to transient failures.
// Only genuinely transient failures are re-attempted: the classification is
// driven by the errs taxonomy, so validation, conflict and auth failures
// surface immediately while transport failures are retried up to the bound.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"dispatch/internal/pkg/errs"
)

// Class is the retry classification of a failure.
type Class int

const (
	// ClassRetryable marks failures worth re-attempting (network, timeout).
	ClassRetryable Class = iota
	// ClassFatal marks failures that retrying cannot fix (validation,
	// conflict, auth, not-found).
	ClassFatal
)

// String returns the classification name for logging.
func (c Class) String() string {
	if c == ClassFatal {
		return "fatal"
	}
	return "retryable"
}

// Classify maps an error onto a retry class.
//
// Transport errors and net timeouts are retryable. Validation, conflict,
// auth and not-found errors are fatal: retrying them would only repeat the
// same rejection. Unknown errors default to retryable (fail open) but remain
// bounded by MaxAttempts.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassFatal
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrAuth),
		errors.Is(err, errs.ErrObjectNotFound):
		return ClassFatal
	case errors.Is(err, context.Canceled):
		return ClassFatal
	case errors.Is(err, errs.ErrTransport):
		return ClassRetryable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassRetryable
	}

	return ClassRetryable
}

// Policy executes operations with bounded exponential backoff.
// The zero value is not usable; create instances with NewPolicy.
//
// Operations must be idempotent or made idempotent by the caller. The
// assignment protocol's conditional writes satisfy this: re-sending a write
// whose predicate no longer holds yields a conflict, not a duplicate effect.
type Policy struct {
	maxAttempts  int
	initialDelay time.Duration
	factor       int
	maxDelay     time.Duration
	logger       *slog.Logger

	// sleep is replaceable in tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) bool
}

// Option customizes a Policy.
type Option func(*Policy)

// WithMaxAttempts overrides the attempt bound (default 3).
func WithMaxAttempts(n int) Option {
	return func(p *Policy) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithInitialDelay overrides the first backoff delay (default 1s).
func WithInitialDelay(d time.Duration) Option {
	return func(p *Policy) {
		if d > 0 {
			p.initialDelay = d
		}
	}
}

// WithBackoffFactor overrides the delay multiplier (default 2).
func WithBackoffFactor(f int) Option {
	return func(p *Policy) {
		if f > 0 {
			p.factor = f
		}
	}
}

// WithMaxDelay caps a single backoff delay (default 30s).
func WithMaxDelay(d time.Duration) Option {
	return func(p *Policy) {
		if d > 0 {
			p.maxDelay = d
		}
	}
}

// WithSleep replaces the delay function. Tests use this to observe requested
// delays without waiting for them.
func WithSleep(sleep func(ctx context.Context, d time.Duration) bool) Option {
	return func(p *Policy) {
		p.sleep = sleep
	}
}

// NewPolicy creates a retry policy with the given logger and options.
func NewPolicy(logger *slog.Logger, opts ...Option) *Policy {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Policy{
		maxAttempts:  3,
		initialDelay: time.Second,
		factor:       2,
		maxDelay:     30 * time.Second,
		logger:       logger.With("component", "retry_policy"),
		sleep:        sleepWithContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Do runs op until it succeeds, fails fatally, the context ends, or the
// attempt bound is reached. The last underlying error is returned unchanged
// so callers can classify it with errors.Is.
func (p *Policy) Do(ctx context.Context, opName string, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		class := Classify(err)
		p.logger.WarnContext(ctx, "operation attempt failed",
			"op", opName,
			"attempt", attempt,
			"classification", class.String(),
			"error", err,
		)

		if ctx.Err() != nil || class == ClassFatal || attempt == p.maxAttempts {
			break
		}

		if !p.sleep(ctx, p.delay(attempt)) {
			break
		}
	}

	return lastErr
}

// delay returns the backoff delay after the given attempt number.
func (p *Policy) delay(attempt int) time.Duration {
	d := p.initialDelay
	for i := 1; i < attempt; i++ {
		d *= time.Duration(p.factor)
		if d >= p.maxDelay {
			return p.maxDelay
		}
	}
	if d > p.maxDelay {
		return p.maxDelay
	}
	return d
}

// Value runs op under the policy and returns its result.
func Value[T any](ctx context.Context, p *Policy, opName string, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, opName, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
