package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// NowPtr returns the current time as a pointer; review timestamps are
// optional fields so the pointer form is the common case.
func NowPtr() *time.Time {
	t := Now()
	return &t
}
