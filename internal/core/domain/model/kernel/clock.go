package kernel

import "time"

// Clock supplies the current time to domain services so that pass expiry and
// parcel hold periods can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
