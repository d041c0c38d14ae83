package pkg

import (
	"fmt"
	"os"
	"time"
	"unsafe"
)

// DateLayout is the calendar date format used on every API surface.
const DateLayout = "2006-01-02"

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date [%s], use YYYY-MM-DD: %w", value, err)
	}
	return d, nil
}

// ParseOptionalDate returns fallback when the value is empty.
func ParseOptionalDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return ParseDate(value)
}

// PathExists returns whether the given file or directory exists
func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if isDir != stat.IsDir() {
		return false, fmt.Errorf("%s: type mismatch (dir expected: %t)", path, isDir)
	}
	return true, nil
}
