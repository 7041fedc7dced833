package breaker

import "time"

type config struct {
	capacity       int
	span           time.Duration
	minEvalSize    int
	errorThreshold float64
	retryTimeout   time.Duration
	trialSuccesses int
	condition      Condition
	clock          Clock

	onStateChange OnStateChangeFunc
}

// Config is a read-only snapshot of a breaker's configuration.
type Config struct {
	// Capacity is the number of buckets in the rolling window.
	Capacity int

	// Span is the duration of time each bucket covers.
	Span time.Duration

	// MinEvalSize is the minimum number of completed observations
	// required before the error rate is considered meaningful.
	MinEvalSize int

	// ErrorThreshold is the failure percentage (0-100) above which the
	// breaker opens. The comparison is strict: a rate exactly equal to
	// the threshold does not trip the breaker.
	ErrorThreshold float64

	// RetryTimeout is how long an open breaker waits before allowing
	// trial calls.
	RetryTimeout time.Duration

	// TrialSuccesses is the number of consecutive successes required
	// in the half-open state to close the breaker.
	TrialSuccesses int
}

// Option configures a Breaker.
type Option func(*config)

// WithCapacity sets the number of buckets in the rolling window.
// Default is 10.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithSpan sets the duration each window bucket covers. Default is
// one minute.
func WithSpan(d time.Duration) Option {
	return func(c *config) {
		c.span = d
	}
}

// WithMinEvalSize sets the minimum number of completed observations
// required before the error rate is evaluated. Below this count the
// rate reports 0, so the breaker never opens on sparse data.
// Default is 100.
func WithMinEvalSize(n int) Option {
	return func(c *config) {
		c.minEvalSize = n
	}
}

// WithErrorThreshold sets the failure percentage (0-100) above which
// the breaker opens. Default is 10.0.
func WithErrorThreshold(pct float64) Option {
	return func(c *config) {
		c.errorThreshold = pct
	}
}

// WithRetryTimeout sets how long the breaker stays open before
// transitioning to half-open. Default is 1 minute.
//
// Note: a very short timeout can cause rapid oscillation between Open
// and HalfOpen if the underlying system has not recovered, while a
// very long one delays recovery unnecessarily.
func WithRetryTimeout(d time.Duration) Option {
	return func(c *config) {
		c.retryTimeout = d
	}
}

// WithTrialSuccesses sets how many consecutive successes are required
// in the half-open state before the breaker closes. Default is 20.
func WithTrialSuccesses(n int) Option {
	return func(c *config) {
		c.trialSuccesses = n
	}
}

// If sets the condition that determines whether an error counts as a failure.
// By default, any non-nil error is a failure.
func If(cond Condition) Option {
	return func(c *config) {
		c.condition = cond
	}
}

// IfNot sets a condition where matching errors are NOT counted as failures.
// This is equivalent to If(Not(cond)).
func IfNot(cond Condition) Option {
	return If(Not(cond))
}

// Not inverts a condition.
func Not(cond Condition) Condition {
	return func(err error) bool {
		return !cond(err)
	}
}

// WithClock sets the clock for time operations. Useful for testing.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// OnStateChange sets a hook called when the circuit changes state.
func OnStateChange(fn OnStateChangeFunc) Option {
	return func(c *config) {
		c.onStateChange = fn
	}
}
