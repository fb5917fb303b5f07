package domain

import (
	"fmt"
	"strconv"
	"time"
)

// ToTimestamp encodes a time as epoch milliseconds in a decimal string, the
// only timestamp representation that crosses component boundaries.
func ToTimestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// ParseTimestamp decodes an epoch-millisecond string back into a UTC time.
func ParseTimestamp(ts string) (time.Time, error) {
	ms, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}
