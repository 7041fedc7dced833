package breaker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/torven/breaker"
)

type WindowSuite struct {
	suite.Suite
	base time.Time
}

func TestWindowSuite(t *testing.T) {
	suite.Run(t, new(WindowSuite))
}

func (s *WindowSuite) SetupTest() {
	s.base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// at returns the base time shifted by n spans of d.
func (s *WindowSuite) at(n int, d time.Duration) time.Time {
	return s.base.Add(time.Duration(n) * d)
}

func (s *WindowSuite) TestNewWindow_StartsEmpty() {
	w := breaker.NewWindow(5, time.Second, s.base)

	s.Equal(5, w.Len())
	s.Equal(0, w.Cursor())
	for i := 0; i < 5; i++ {
		s.Equal(breaker.Counts{}, w.Bucket(i))
	}
	s.Equal(0.0, w.ErrorRate(0))
}

func (s *WindowSuite) TestNewWindow_PanicsOnInvalidCapacity() {
	s.Panics(func() {
		breaker.NewWindow(0, time.Second, s.base)
	})
	s.Panics(func() {
		breaker.NewWindow(-1, time.Second, s.base)
	})
}

func (s *WindowSuite) TestNewWindow_PanicsOnInvalidSpan() {
	s.Panics(func() {
		breaker.NewWindow(5, 0, s.base)
	})
	s.Panics(func() {
		breaker.NewWindow(5, -time.Second, s.base)
	})
}

func (s *WindowSuite) TestRecord_CountsIntoCurrentBucket() {
	w := breaker.NewWindow(1, time.Second, s.base)

	w.RecordFailure(s.base)
	s.Equal(breaker.Counts{Failures: 1}, w.Bucket(0))

	w.RecordSuccess(s.base)
	w.RecordSuccess(s.base)
	s.Equal(breaker.Counts{Successes: 2, Failures: 1}, w.Bucket(0))
}

func (s *WindowSuite) TestAdvance_NoOpWithinSameSpan() {
	w := breaker.NewWindow(3, time.Second, s.base)
	w.RecordFailure(s.base)

	w.Advance(s.base.Add(999 * time.Millisecond))

	s.Equal(0, w.Cursor())
	s.Equal(breaker.Counts{Failures: 1}, w.Bucket(0))
}

func (s *WindowSuite) TestAdvance_IsIdempotent() {
	w := breaker.NewWindow(4, time.Second, s.base)
	w.RecordFailure(s.base)

	now := s.at(2, time.Second)
	w.Advance(now)
	cursor := w.Cursor()
	snapshot := buckets(w)

	w.Advance(now)

	s.Equal(cursor, w.Cursor())
	s.Equal(snapshot, buckets(w))
}

func (s *WindowSuite) TestAdvance_MovesCursorForward() {
	w := breaker.NewWindow(5, time.Second, s.base)

	w.Advance(s.at(1, time.Second))
	s.Equal(1, w.Cursor())

	w.Advance(s.at(3, time.Second))
	s.Equal(3, w.Cursor())

	w.Advance(s.at(6, time.Second))
	s.Equal(1, w.Cursor())
}

func (s *WindowSuite) TestAdvance_ResetsSkippedAndLandingBucketsOnly() {
	w := breaker.NewWindow(4, time.Second, s.base)

	// Fill every bucket, one span at a time.
	for i := 0; i < 4; i++ {
		now := s.at(i, time.Second)
		w.Advance(now)
		for iter := 0; iter < 5; iter++ {
			w.RecordFailure(now)
			w.RecordSuccess(now)
		}
	}
	s.Equal(3, w.Cursor())

	// Jump two spans: wraps past bucket 0 and lands on bucket 1.
	w.Advance(s.at(5, time.Second))

	s.Equal(1, w.Cursor())
	s.Equal(breaker.Counts{}, w.Bucket(0), "skipped bucket should be reset")
	s.Equal(breaker.Counts{}, w.Bucket(1), "landing bucket should be reset")
	s.Equal(breaker.Counts{Successes: 5, Failures: 5}, w.Bucket(2))
	s.Equal(breaker.Counts{Successes: 5, Failures: 5}, w.Bucket(3))
}

func (s *WindowSuite) TestAdvance_FullRolloverResetsEverything() {
	w := breaker.NewWindow(3, time.Second, s.base)

	for i := 0; i < 3; i++ {
		now := s.at(i, time.Second)
		w.Advance(now)
		w.RecordFailure(now)
	}

	w.Advance(s.at(10, time.Second))

	s.Equal(1, w.Cursor())
	for i := 0; i < 3; i++ {
		s.Equal(breaker.Counts{}, w.Bucket(i))
	}
}

func (s *WindowSuite) TestErrorRate_ExcludesCurrentBucket() {
	w := breaker.NewWindow(2, time.Second, s.base)

	for iter := 0; iter < 50; iter++ {
		w.RecordFailure(s.base)
		w.RecordSuccess(s.base)
	}

	// All data sits under the cursor, so nothing is completed yet.
	s.Equal(0.0, w.ErrorRate(10))

	w.Advance(s.at(1, time.Second))
	s.Equal(50.0, w.ErrorRate(10))
}

func (s *WindowSuite) TestErrorRate_SumsCompletedBuckets() {
	w := breaker.NewWindow(3, time.Second, s.base)

	record(w, s.base, 50, 50)
	record(w, s.at(1, time.Second), 90, 10)
	w.Advance(s.at(2, time.Second))

	// 60 failures of 200 observations.
	s.Equal(30.0, w.ErrorRate(10))
}

func (s *WindowSuite) TestErrorRate_RoundsToTwoDecimals() {
	w := breaker.NewWindow(2, time.Second, s.base)

	record(w, s.base, 4, 5)
	w.Advance(s.at(1, time.Second))

	// 5 of 9 = 55.555... rounds to 55.56.
	s.Equal(55.56, w.ErrorRate(1))
}

func (s *WindowSuite) TestErrorRate_GatesOnMinEvalSize() {
	w := breaker.NewWindow(2, time.Second, s.base)

	record(w, s.base, 0, 10)
	w.Advance(s.at(1, time.Second))

	s.Equal(0.0, w.ErrorRate(11), "all failures, but below min eval size")
	s.Equal(100.0, w.ErrorRate(10), "exactly min eval size is evaluable")
}

func (s *WindowSuite) TestErrorRate_ZeroMinEvalSizeEvaluatesAnyData() {
	w := breaker.NewWindow(2, time.Second, s.base)

	s.Equal(0.0, w.ErrorRate(0), "no observations at all")

	record(w, s.base, 0, 1)
	w.Advance(s.at(1, time.Second))

	s.Equal(100.0, w.ErrorRate(0))
}

func (s *WindowSuite) TestReset_ClearsStateAndRestartsEpoch() {
	w := breaker.NewWindow(3, time.Second, s.base)
	record(w, s.base, 3, 4)
	w.Advance(s.at(2, time.Second))

	now := s.at(2, time.Second).Add(300 * time.Millisecond)
	w.Reset(now)

	s.Equal(0, w.Cursor())
	for i := 0; i < 3; i++ {
		s.Equal(breaker.Counts{}, w.Bucket(i))
	}
	s.Equal(time.Second, w.NextAdvance(now), "epoch should restart at reset time")
}

func (s *WindowSuite) TestBucket_PanicsOutOfRange() {
	w := breaker.NewWindow(3, time.Second, s.base)

	s.Panics(func() { w.Bucket(-1) })
	s.Panics(func() { w.Bucket(3) })
}

func (s *WindowSuite) TestNextAdvance_CountsDownWithinSpan() {
	w := breaker.NewWindow(3, time.Second, s.base)

	s.Equal(time.Second, w.NextAdvance(s.base))
	s.Equal(400*time.Millisecond, w.NextAdvance(s.base.Add(600*time.Millisecond)))
	s.Equal(time.Second, w.NextAdvance(s.at(1, time.Second)))
}

func TestWindow_AdvanceFarBeyondCapacityIsBounded(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w := breaker.NewWindow(5, time.Millisecond, base)
	w.RecordFailure(base)

	// Years of elapsed time must not translate into per-span work.
	done := make(chan struct{})
	go func() {
		w.Advance(base.Add(365 * 24 * time.Hour))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("advance did not complete in time")
	}

	for i := 0; i < 5; i++ {
		require.Equal(t, breaker.Counts{}, w.Bucket(i))
	}
}

// record adds the given number of successes and failures at now.
func record(w *breaker.Window, now time.Time, successes, failures int) {
	for iter := 0; iter < successes; iter++ {
		w.RecordSuccess(now)
	}
	for iter := 0; iter < failures; iter++ {
		w.RecordFailure(now)
	}
}

// buckets snapshots every bucket of the window.
func buckets(w *breaker.Window) []breaker.Counts {
	out := make([]breaker.Counts, w.Len())
	for i := range out {
		out[i] = w.Bucket(i)
	}
	return out
}
