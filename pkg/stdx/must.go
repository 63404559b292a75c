// Package stdx holds tiny stdlib-shaped helpers.
package stdx

// Must0 panics if err is not nil. For call sites where an error means the
// process cannot continue anyway.
func Must0(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 returns v, panicking if err is not nil.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
