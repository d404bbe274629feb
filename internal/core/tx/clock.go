package tx

import "time"

// Clock is the engine's time source.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. The CLI uses it for --now.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
