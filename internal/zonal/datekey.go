package zonal

import (
	"path/filepath"
	"regexp"
	"time"
)

// datePattern matches year-month-day runs with hyphen or underscore
// separators, each independently optional (20230514, 2023-05-14, 2023_05-14).
var datePattern = regexp.MustCompile(`(\d{4})[-_]?(\d{2})[-_]?(\d{2})`)

// DateKey derives the temporal key for a raster path: the first date-like
// run in the base filename, calendar-validated and formatted YYYY-MM-DD.
// When no valid date is found the base filename itself is the key, so
// every raster maps to a deterministic, stable key.
func DateKey(path string) string {
	base := filepath.Base(path)

	m := datePattern.FindStringSubmatch(base)
	if m == nil {
		return base
	}

	t, err := time.Parse("20060102", m[1]+m[2]+m[3])
	if err != nil {
		// Digits matched but make no calendar date (e.g. month 77).
		return base
	}
	return t.Format("2006-01-02")
}

// IsDateKey reports whether a key is a derived calendar date rather than a
// filename fallback.
func IsDateKey(key string) bool {
	_, err := time.Parse("2006-01-02", key)
	return err == nil
}
