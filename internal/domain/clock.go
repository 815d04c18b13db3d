package domain

import "time"

// Clock returns the current time. Entities never read the wall clock
// themselves; callers pass the result of a Clock into constructors and
// lifecycle methods so tests can control timestamps.
type Clock func() time.Time

// SystemClock is the default Clock, returning the current UTC time.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// timestampResolution matches the precision Postgres keeps for timestamptz.
const timestampResolution = time.Microsecond

// stamp normalizes a timestamp to UTC at storage resolution.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(timestampResolution)
}

// advance returns a timestamp strictly after prev. When now is not after prev
// (coarse clocks, clock skew, frozen test clocks) prev is bumped by one tick.
func advance(prev, now time.Time) time.Time {
	now = stamp(now)
	if now.After(prev) {
		return now
	}
	return prev.Add(timestampResolution)
}
