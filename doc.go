// Package breaker implements a circuit breaker that trips on the error
// rate observed over a rolling time window.
//
// breaker protects callers from hammering a failing dependency by:
//
//   - Windowed Statistics: Outcomes are tallied into fixed-duration
//     buckets; the error rate is computed over completed buckets only
//   - Rate-Based Tripping: The circuit opens when the rolling error
//     rate exceeds a threshold, not after N consecutive failures
//   - Lazy Transitions: State is purely a function of recorded outcomes
//     and the clock; there is no background timer or goroutine
//   - Gradual Recovery: Half-open state requires a run of consecutive
//     successful trials before fully closing
//
// # Quick Start
//
// Create a breaker, check it before calling, and report what happened:
//
//	circuit := breaker.New("payment-service")
//
//	if circuit.State() == breaker.Open {
//	    return handleFallback()
//	}
//	err := client.Charge(ctx, amount)
//	circuit.Record(err)
//
// The breaker never invokes the protected operation itself. Callers
// run their own call and report the outcome; the breaker only answers
// whether the next attempt should be made.
//
// # Circuit States
//
// The circuit breaker has three states:
//
//	Closed (normal):
//	    - Outcomes are recorded into the rolling window
//	    - When the windowed error rate exceeds the threshold, the
//	      circuit opens
//
//	Open (tripped):
//	    - Callers should skip the protected call
//	    - Reported outcomes are dropped entirely
//	    - After the retry timeout, the circuit transitions to half-open
//
//	HalfOpen (testing):
//	    - Successes are counted as trials
//	    - Enough consecutive successes close the circuit and clear the
//	      window
//	    - A single failure reopens it and discards all trial progress
//
// # The Rolling Window
//
// The window is a fixed ring of buckets, each covering one span of
// time. The bucket currently accumulating is always excluded from the
// error rate because it is incomplete. As time passes the cursor moves
// forward, zeroing the buckets it passes, so the window remembers at
// most capacity spans of history.
//
// With fewer than MinEvalSize completed observations the error rate
// reports 0, so the circuit never opens on sparse data.
//
// # Configuration
//
// Configure the window and thresholds with options:
//
//	circuit := breaker.New("api",
//	    breaker.WithCapacity(10),                 // 10 buckets
//	    breaker.WithSpan(time.Minute),            // 1 minute each
//	    breaker.WithMinEvalSize(100),             // need 100 completed observations
//	    breaker.WithErrorThreshold(10.0),         // open above 10% failures
//	    breaker.WithRetryTimeout(30*time.Second), // wait 30s before half-open
//	    breaker.WithTrialSuccesses(5),            // close after 5 trial successes
//	)
//
// Default values:
//
//   - Capacity: 10 buckets
//   - Span: 1 minute
//   - MinEvalSize: 100 observations
//   - ErrorThreshold: 10.0%
//   - RetryTimeout: 1 minute
//   - TrialSuccesses: 20 consecutive successes
//
// # Failure Conditions
//
// By default, any non-nil error counts as a failure. Customize this with If:
//
//	// Only count specific errors as failures
//	circuit := breaker.New("api",
//	    breaker.If(func(err error) bool {
//	        return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable)
//	    }),
//	)
//
// Use IfNot to exclude certain errors:
//
//	// Don't count 404s as failures
//	circuit := breaker.New("api",
//	    breaker.IfNot(func(err error) bool {
//	        return errors.Is(err, ErrNotFound)
//	    }),
//	)
//
// # Lifecycle Hooks
//
// The state-change hook provides observability without coupling to a
// specific logger or metrics system:
//
//	circuit := breaker.New("service",
//	    breaker.OnStateChange(func(name string, from, to breaker.State) {
//	        logger.Info("circuit state change",
//	            "circuit", name,
//	            "from", from,
//	            "to", to,
//	        )
//	    }),
//	)
//
// # Inspecting State
//
// Query the breaker's current status:
//
//	state := circuit.State()      // Closed, Open, or HalfOpen
//	rate := circuit.ErrorRate()   // windowed failure percentage
//	counts := circuit.Bucket(0)   // per-bucket success/failure tallies
//	cfg := circuit.Config()       // the immutable configuration
//
// Bucket and Cursor exist for diagnostics and visualization; cmd/vis
// in this repository renders a live terminal view built entirely on
// these accessors.
//
// # Concurrency
//
// Breaker holds no locks. State and Record both reconcile time-driven
// transitions before acting, which is a read-then-write sequence, so a
// breaker shared across goroutines must be guarded by the caller:
//
//	var mu sync.Mutex
//	mu.Lock()
//	state := circuit.State()
//	mu.Unlock()
//
// # Testing
//
// Inject a fake clock to control time in tests:
//
//	type fakeClock struct {
//	    now time.Time
//	}
//
//	func (c *fakeClock) Now() time.Time { return c.now }
//	func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
//
//	func TestBreakerProbesAfterTimeout(t *testing.T) {
//	    clock := &fakeClock{now: time.Now()}
//	    circuit := breaker.New("test",
//	        breaker.WithRetryTimeout(30*time.Second),
//	        breaker.WithClock(clock),
//	    )
//	    // ...trip the circuit...
//	    clock.Advance(30 * time.Second)
//	    // circuit.State() is now breaker.HalfOpen
//	}
package breaker
