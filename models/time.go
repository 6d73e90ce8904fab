// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// TimestampLayout is the single textual form used whenever a timestamp is
// hashed or signed. Stored records keep the same string so that a record
// read back from any backend re-verifies bit for bit.
const TimestampLayout = time.RFC3339Nano

// FormatTimestamp renders t in UTC using [TimestampLayout].
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp is the inverse of [FormatTimestamp].
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Now returns the current UTC time truncated to microseconds, the finest
// precision every storage backend keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
