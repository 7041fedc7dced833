package breaker

import "time"

// State represents the circuit breaker state.
type State int

const (
	// Closed is the normal operating state. Calls should flow through.
	Closed State = iota

	// Open is the tripped state. Callers should skip the protected call.
	Open

	// HalfOpen is the recovery testing state. Trial calls are counted.
	HalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Condition determines whether an error should count as a failure.
type Condition func(error) bool

// OnStateChangeFunc is called when the circuit changes state.
type OnStateChangeFunc func(name string, from, to State)

// Default values.
const (
	DefaultCapacity       = 10
	DefaultSpan           = time.Minute
	DefaultMinEvalSize    = 100
	DefaultErrorThreshold = 10.0
	DefaultRetryTimeout   = time.Minute
	DefaultTrialSuccesses = 20
)

// Breaker is a circuit breaker that trips on the failure rate observed
// over a rolling time window rather than on consecutive failures.
//
// Breaker holds no locks. If it is shared across goroutines the caller
// must serialize access; Record and State both read and then write
// non-atomically.
type Breaker struct {
	name string
	cfg  config

	window   *Window
	state    State
	openedAt time.Time // meaningful only while state == Open
	trial    int       // consecutive successes while half-open
}

// New creates a Breaker with the given options. It panics if the
// configured window capacity or span is not positive.
func New(name string, opts ...Option) *Breaker {
	cfg := config{
		capacity:       DefaultCapacity,
		span:           DefaultSpan,
		minEvalSize:    DefaultMinEvalSize,
		errorThreshold: DefaultErrorThreshold,
		retryTimeout:   DefaultRetryTimeout,
		trialSuccesses: DefaultTrialSuccesses,
		condition:      defaultCondition,
		clock:          realClock{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Breaker{
		name:   name,
		cfg:    cfg,
		window: NewWindow(cfg.capacity, cfg.span, cfg.clock.Now()),
		state:  Closed,
	}
}

// Record reports the outcome of a protected call. A nil err is a
// success; a non-nil err is a failure if the configured Condition says
// so. The breaker does not run the call itself; callers invoke their
// own operation and report what happened.
//
// Time-elapsed transitions are reconciled before the outcome is
// applied, so a breaker that sat idle in Open past its retry timeout
// processes the outcome as HalfOpen.
func (b *Breaker) Record(err error) {
	b.evaluate()

	failure := b.cfg.condition(err)

	switch b.state {
	case Open:
		// Outcomes reported while open are dropped entirely.

	case HalfOpen:
		if failure {
			b.setState(Open)
			return
		}
		b.trial++
		b.evaluate()

	case Closed:
		now := b.cfg.clock.Now()
		if failure {
			b.window.RecordFailure(now)
			b.evaluate()
		} else {
			b.window.RecordSuccess(now)
		}
	}
}

// State reconciles any time-elapsed transitions and returns the
// current state. Callers are expected to skip the protected call when
// the returned state is Open.
func (b *Breaker) State() State {
	b.evaluate()
	return b.state
}

// ErrorRate returns the failure percentage over the completed buckets
// of the window. Safe to call in any state.
func (b *Breaker) ErrorRate() float64 {
	return b.window.ErrorRate(b.cfg.minEvalSize)
}

// Bucket returns a copy of the counts in window bucket i. It panics if
// i is out of range.
func (b *Breaker) Bucket(i int) Counts {
	return b.window.Bucket(i)
}

// Cursor returns the index of the window bucket currently accumulating.
func (b *Breaker) Cursor() int {
	return b.window.Cursor()
}

// TrialSuccesses returns the number of consecutive successes recorded
// while half-open.
func (b *Breaker) TrialSuccesses() int {
	return b.trial
}

// NextBucket returns how long until the window cursor moves to the
// next bucket.
func (b *Breaker) NextBucket() time.Duration {
	return b.window.NextAdvance(b.cfg.clock.Now())
}

// RetryRemaining returns how long an Open breaker will wait before
// transitioning to HalfOpen. It returns zero when the breaker is not
// open or the timeout has already elapsed.
func (b *Breaker) RetryRemaining() time.Duration {
	if b.state != Open {
		return 0
	}
	remaining := b.cfg.retryTimeout - b.cfg.clock.Now().Sub(b.openedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Config returns a copy of the breaker's configuration.
func (b *Breaker) Config() Config {
	return Config{
		Capacity:       b.cfg.capacity,
		Span:           b.cfg.span,
		MinEvalSize:    b.cfg.minEvalSize,
		ErrorThreshold: b.cfg.errorThreshold,
		RetryTimeout:   b.cfg.retryTimeout,
		TrialSuccesses: b.cfg.trialSuccesses,
	}
}

// Name returns the breaker name.
func (b *Breaker) Name() string {
	return b.name
}

// Reset manually closes the breaker and clears the window.
func (b *Breaker) Reset() {
	b.window.Reset(b.cfg.clock.Now())
	b.setState(Closed)
}

// evaluate applies any state transition implied by the clock alone.
// Every mutating or observing entry point calls it first: the breaker
// has no background timer, so transitions out of Open and bucket
// expiry only happen when someone asks.
func (b *Breaker) evaluate() {
	now := b.cfg.clock.Now()

	switch b.state {
	case Closed:
		b.window.Advance(now)
		if b.window.ErrorRate(b.cfg.minEvalSize) > b.cfg.errorThreshold {
			b.setState(Open)
		}

	case Open:
		if now.Sub(b.openedAt) >= b.cfg.retryTimeout {
			b.setState(HalfOpen)
		}

	case HalfOpen:
		if b.trial >= b.cfg.trialSuccesses {
			b.window.Reset(now)
			b.setState(Closed)
		}
	}
}

func (b *Breaker) setState(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to

	b.trial = 0
	if to == Open {
		b.openedAt = b.cfg.clock.Now()
	}

	if b.cfg.onStateChange != nil {
		b.cfg.onStateChange(b.name, from, to)
	}
}

func defaultCondition(err error) bool {
	return err != nil
}
