package app

import "time"

// Event is the last outcome the user reported, used purely for display.
type Event int

const (
	eventNone Event = iota
	eventSuccess
	eventFailure
)

// flashDuration is how long a reported outcome stays highlighted.
const flashDuration = 300 * time.Millisecond

// eventFlash shows the most recent reported outcome for a short moment
// so a keypress has visible feedback. Expiry is checked against the
// clock on each render rather than with a timer.
type eventFlash struct {
	event Event
	at    time.Time
}

func (f *eventFlash) Record(e Event, now time.Time) {
	f.event = e
	f.at = now
}

// Current returns the event still worth displaying, or eventNone once
// the flash has expired.
func (f *eventFlash) Current(now time.Time) Event {
	if f.event == eventNone || now.Sub(f.at) > flashDuration {
		return eventNone
	}
	return f.event
}
