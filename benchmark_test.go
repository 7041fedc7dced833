package breaker

import (
	"errors"
	"testing"
	"time"
)

func BenchmarkBreaker_Record_Success(b *testing.B) {
	circuit := New("bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		circuit.Record(nil)
	}
}

func BenchmarkBreaker_Record_Failure(b *testing.B) {
	errTest := errors.New("test error")
	circuit := New("bench", WithErrorThreshold(100))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		circuit.Record(errTest)
	}
}

func BenchmarkBreaker_Record_Open(b *testing.B) {
	clock := &stoppedClock{now: time.Now()}
	circuit := New("bench",
		WithCapacity(2),
		WithSpan(time.Second),
		WithMinEvalSize(1),
		WithErrorThreshold(50),
		WithClock(clock),
	)

	circuit.Record(errors.New("trip"))
	clock.now = clock.now.Add(time.Second)
	if circuit.State() != Open {
		b.Fatal("expected open circuit")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		circuit.Record(nil)
	}
}

func BenchmarkBreaker_State(b *testing.B) {
	circuit := New("bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		circuit.State()
	}
}

func BenchmarkBreaker_ErrorRate(b *testing.B) {
	circuit := New("bench", WithCapacity(100), WithSpan(time.Hour))
	for iter := 0; iter < 1000; iter++ {
		circuit.Record(nil)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		circuit.ErrorRate()
	}
}

func BenchmarkWindow_Advance(b *testing.B) {
	now := time.Now()
	w := NewWindow(10, time.Millisecond, now)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Advance(now.Add(time.Duration(i) * time.Millisecond))
	}
}

type stoppedClock struct {
	now time.Time
}

func (c *stoppedClock) Now() time.Time {
	return c.now
}
