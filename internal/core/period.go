package core

import (
	"strconv"
	"strings"
	"time"
)

// Period is a matching window: a calendar month when Month is 1-12, or the
// whole calendar year when Month is zero.
type Period struct {
	Year  int
	Month int
}

// YearOf returns the full-year window containing p.
func (p Period) YearOf() Period {
	return Period{Year: p.Year}
}

// Key renders the period as the persisted cursor format, e.g. "2026-2".
// Year-only periods render as just the year.
func (p Period) Key() string {
	if p.Month == 0 {
		return strconv.Itoa(p.Year)
	}
	return strconv.Itoa(p.Year) + "-" + strconv.Itoa(p.Month)
}

// ParsePeriodKey parses a "{year}-{month}" cursor back into a Period.
func ParsePeriodKey(s string) (Period, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Period{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return Period{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Period{}, false
	}
	return Period{Year: year, Month: month}, true
}

// CurrentPeriod returns the month window containing now.
func CurrentPeriod(now time.Time) Period {
	return Period{Year: now.Year(), Month: int(now.Month())}
}

// Contains reports whether a date with the given year and month falls inside
// the window. Year-only periods match any month of that year.
func (p Period) Contains(year, month int) bool {
	if year != p.Year {
		return false
	}
	return p.Month == 0 || month == p.Month
}

// ParseDate extracts year and month from a YYYY-MM-DD date string by direct
// string splitting. Parsing through time.Parse and reading localized fields
// shifts dates recorded near midnight across month boundaries, so it is
// deliberately avoided here.
func ParseDate(s string) (year, month int, ok bool) {
	parts := strings.SplitN(s, "-", 3)
	if len(parts) != 3 {
		return 0, 0, false
	}
	if len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return 0, 0, false
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return 0, 0, false
	}
	return year, month, true
}
