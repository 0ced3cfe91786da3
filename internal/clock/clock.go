package clock

import "time"

// Clock abstracts wall-clock time so lifecycle timestamps are testable.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
