// Package clock abstracts time reads so schedule generation and overdue
// classification stay deterministic under test.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// System returns the process-wide wall clock.
func System() Clock { return SystemClock{} }

// Fixed returns a Clock pinned to the given instant.
func Fixed(at time.Time) Clock { return fixedClock{at: at} }

type fixedClock struct {
	at time.Time
}

func (f fixedClock) Now() time.Time { return f.at }
