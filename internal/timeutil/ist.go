package timeutil

import (
	"fmt"
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30)
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if Asia/Kolkata not available
		IST = time.FixedZone("IST", 5*60*60+30*60) // UTC+5:30
	}
}

// Common layouts for IST formatting
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)

// Now returns the current time in IST
func Now() time.Time {
	return time.Now().In(IST)
}

// FormatIST formats a time in IST using the given layout
func FormatIST(t time.Time, layout string) string {
	return t.In(IST).Format(layout)
}

// ParseDateRange validates optional YYYY-MM-DD bounds from a query string.
// Either bound may be empty. It fails when a bound is malformed or from is
// after to.
func ParseDateRange(from, to string) (string, string, error) {
	var f, t time.Time
	var err error
	if from != "" {
		if f, err = time.ParseInLocation(DateLayout, from, IST); err != nil {
			return "", "", fmt.Errorf("invalid from date %q: expected YYYY-MM-DD", from)
		}
	}
	if to != "" {
		if t, err = time.ParseInLocation(DateLayout, to, IST); err != nil {
			return "", "", fmt.Errorf("invalid to date %q: expected YYYY-MM-DD", to)
		}
	}
	if from != "" && to != "" && f.After(t) {
		return "", "", fmt.Errorf("from date %s is after to date %s", from, to)
	}
	return from, to, nil
}
