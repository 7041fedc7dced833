package breaker

import (
	"fmt"
	"math"
	"time"
)

// Counts holds the outcome tallies for a single window bucket.
type Counts struct {
	Successes int
	Failures  int
}

// Total returns the combined number of observations in the bucket.
func (c Counts) Total() int {
	return c.Successes + c.Failures
}

// Window is a fixed-capacity ring of time buckets that tracks call
// outcomes over a rolling period. Each bucket covers one span of time;
// the bucket under the cursor is the one currently accumulating and is
// always excluded from the error rate.
//
// The cursor position is derived from absolute elapsed time since the
// window's epoch, so advancing twice with the same timestamp is a no-op.
//
// Window is not safe for concurrent use.
type Window struct {
	span     time.Duration
	epoch    time.Time
	consumed int64 // whole spans accounted for since epoch
	cursor   int
	buckets  []Counts
}

// NewWindow creates a Window of capacity buckets, each covering span,
// with its epoch at now. It panics if capacity or span is not positive.
func NewWindow(capacity int, span time.Duration, now time.Time) *Window {
	if capacity < 1 {
		panic(fmt.Sprintf("breaker: window capacity must be positive, got %d", capacity))
	}
	if span <= 0 {
		panic(fmt.Sprintf("breaker: window span must be positive, got %v", span))
	}
	return &Window{
		span:    span,
		epoch:   now,
		buckets: make([]Counts, capacity),
	}
}

// Advance moves the cursor forward to the bucket covering now, zeroing
// every bucket the cursor passes through as well as the one it lands on.
// Buckets the cursor does not reach keep their history. If now is within
// the span the cursor already covers, nothing changes.
func (w *Window) Advance(now time.Time) {
	total := int64(now.Sub(w.epoch) / w.span)
	steps := total - w.consumed
	if steps <= 0 {
		return
	}
	w.consumed = total

	n := len(w.buckets)
	if steps >= int64(n) {
		// The whole window has rolled over.
		for i := range w.buckets {
			w.buckets[i] = Counts{}
		}
		w.cursor = int(total % int64(n))
		return
	}

	for i := int64(1); i <= steps; i++ {
		w.buckets[(w.cursor+int(i))%n] = Counts{}
	}
	w.cursor = (w.cursor + int(steps)) % n
}

// RecordSuccess advances the window to now and increments the success
// count of the current bucket.
func (w *Window) RecordSuccess(now time.Time) {
	w.Advance(now)
	w.buckets[w.cursor].Successes++
}

// RecordFailure advances the window to now and increments the failure
// count of the current bucket.
func (w *Window) RecordFailure(now time.Time) {
	w.Advance(now)
	w.buckets[w.cursor].Failures++
}

// ErrorRate returns the failure percentage (0-100, rounded to two
// decimal places) across every completed bucket, i.e. every bucket
// except the one under the cursor. It returns 0 when there are no
// completed observations or fewer than minEvalSize of them.
func (w *Window) ErrorRate(minEvalSize int) float64 {
	var failures, total int
	for i, b := range w.buckets {
		if i == w.cursor {
			continue
		}
		failures += b.Failures
		total += b.Total()
	}

	if total == 0 || total < minEvalSize {
		return 0
	}

	rate := float64(failures) / float64(total) * 100
	return math.Round(rate*100) / 100
}

// Reset zeroes every bucket, returns the cursor to position 0, and
// restarts the epoch at now.
func (w *Window) Reset(now time.Time) {
	for i := range w.buckets {
		w.buckets[i] = Counts{}
	}
	w.cursor = 0
	w.consumed = 0
	w.epoch = now
}

// Bucket returns a copy of the counts in bucket i. It panics if i is
// out of range.
func (w *Window) Bucket(i int) Counts {
	if i < 0 || i >= len(w.buckets) {
		panic(fmt.Sprintf("breaker: bucket index %d out of range [0,%d)", i, len(w.buckets)))
	}
	return w.buckets[i]
}

// Len returns the number of buckets in the window.
func (w *Window) Len() int {
	return len(w.buckets)
}

// Cursor returns the index of the bucket currently accumulating.
func (w *Window) Cursor() int {
	return w.cursor
}

// NextAdvance returns how long until the cursor moves to the next
// bucket, as of now.
func (w *Window) NextAdvance(now time.Time) time.Duration {
	elapsed := now.Sub(w.epoch)
	if elapsed < 0 {
		return w.span
	}
	return w.span - elapsed%w.span
}
