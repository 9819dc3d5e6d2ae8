package timeutil

import (
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	cases := []struct {
		from, to string
		wantErr  bool
	}{
		{"", "", false},
		{"2024-01-01", "", false},
		{"", "2024-12-31", false},
		{"2024-01-01", "2024-01-01", false},
		{"2024-02-01", "2024-01-01", true},
		{"01/02/2024", "", true},
		{"", "2024-13-01", true},
	}
	for _, tc := range cases {
		_, _, err := ParseDateRange(tc.from, tc.to)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDateRange(%q,%q) err = %v, wantErr %v", tc.from, tc.to, err, tc.wantErr)
		}
	}
}

func TestFormatIST(t *testing.T) {
	utc := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	if got := FormatIST(utc, DateLayout); got != "2024-01-02" {
		t.Fatalf("FormatIST = %s, want 2024-01-02", got)
	}
}
