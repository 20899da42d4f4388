package feedcache

import "errors"

var (
	// ErrDecode is returned when fetched bytes cannot be decoded into a
	// Resource. Decode failures are permanent for that fetch attempt and
	// are never cached.
	ErrDecode = errors.New("decode failed")

	// ErrNilRecord is returned by EnsureResource when called without a
	// record.
	ErrNilRecord = errors.New("record is nil")
)
