package utils

import "time"

// NowMillis returns the current time as Unix milliseconds.
// Record timestamps are stored at millisecond granularity, so two
// records created in the same millisecond compare equal.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
