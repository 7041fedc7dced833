package breaker

import "time"

// Clock provides the current time. The breaker never sleeps or polls;
// it only compares timestamps, so substituting a fake clock gives
// tests full control over time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
