package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantYear  int
		wantMonth int
		wantOK    bool
	}{
		{"valid date", "2026-02-14", 2026, 2, true},
		{"first of month", "2026-01-01", 2026, 1, true},
		{"end of year", "2025-12-31", 2025, 12, true},
		{"missing day", "2026-02", 0, 0, false},
		{"empty", "", 0, 0, false},
		{"month out of range", "2026-13-01", 0, 0, false},
		{"day out of range", "2026-01-32", 0, 0, false},
		{"short year", "26-01-02", 0, 0, false},
		{"garbage", "not-a-date", 0, 0, false},
		{"timestamp suffix rejected", "2026-02-14T10:00:00Z", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month, ok := ParseDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if year != tt.wantYear || month != tt.wantMonth {
				t.Errorf("ParseDate(%q) = (%d, %d), want (%d, %d)", tt.input, year, month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestPeriod_Contains(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		year   int
		month  int
		want   bool
	}{
		{"same month", Period{2026, 2}, 2026, 2, true},
		{"different month", Period{2026, 2}, 2026, 3, false},
		{"different year same month", Period{2026, 2}, 2025, 2, false},
		{"year window matches any month", Period{Year: 2026}, 2026, 7, true},
		{"year window rejects other year", Period{Year: 2026}, 2025, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.Contains(tt.year, tt.month); got != tt.want {
				t.Errorf("Contains(%d, %d) = %v, want %v", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestPeriod_Key_RoundTrip(t *testing.T) {
	p := Period{Year: 2026, Month: 2}
	key := p.Key()
	if key != "2026-2" {
		t.Errorf("Key() = %q, want %q", key, "2026-2")
	}
	parsed, ok := ParsePeriodKey(key)
	if !ok {
		t.Fatal("ParsePeriodKey() ok = false")
	}
	if parsed != p {
		t.Errorf("ParsePeriodKey(%q) = %+v, want %+v", key, parsed, p)
	}
}

func TestParsePeriodKey_Invalid(t *testing.T) {
	for _, input := range []string{"", "2026", "2026-0", "2026-13", "x-1", "2026-2-3"} {
		if _, ok := ParsePeriodKey(input); ok {
			t.Errorf("ParsePeriodKey(%q) ok = true, want false", input)
		}
	}
}

func TestCurrentPeriod(t *testing.T) {
	now := time.Date(2026, time.February, 1, 0, 30, 0, 0, time.UTC)
	p := CurrentPeriod(now)
	if p.Year != 2026 || p.Month != 2 {
		t.Errorf("CurrentPeriod() = %+v, want 2026-2", p)
	}
}
