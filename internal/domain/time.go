package domain

import "time"

// UnixMillis converts a store timestamp to integer Unix milliseconds,
// truncating sub-millisecond precision: seconds*1000 + ns/1e6.
func UnixMillis(t time.Time) int64 {
	return t.Unix()*1000 + int64(t.Nanosecond())/int64(time.Millisecond)
}

// UnixMillisPtr converts an optional timestamp; nil stays nil.
func UnixMillisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := UnixMillis(*t)
	return &ms
}

// FromMillis is the inverse conversion used when clients submit timestamps.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
