package festival

import (
	"regexp"
	"strconv"
	"time"

	"github.com/festory/festory/internal/store"
)

// The festival dataset mixes structured YYYY-MM-DD columns with a free-form
// ministry date string. The legacy string appears in three shapes, tried in
// order: a same-year range, a cross-year range, and a single date.
var (
	legacySameYearRange  = regexp.MustCompile(`(\d{4})\.\s+(\d{1,2})\.\s+(\d{1,2})\.\s*~\s*(\d{1,2})\.\s+(\d{1,2})\.`)
	legacyCrossYearRange = regexp.MustCompile(`(\d{4})\.\s+(\d{1,2})\.\s+(\d{1,2})\.\s*~\s*(\d{4})\.\s+(\d{1,2})\.\s+(\d{1,2})\.`)
	legacySingleDate     = regexp.MustCompile(`(\d{4})\.\s+(\d{1,2})\.\s+(\d{1,2})\.`)
)

const dateLayout = "2006-01-02"

// EventRange resolves the festival's running period. The returned end is
// exclusive: a single-day festival spans [start, start+1d). ok is false when
// neither the structured dates nor the legacy string yield a period.
func EventRange(f store.Festival) (start, end time.Time, ok bool) {
	if f.StartDate != "" {
		parsedStart, err := time.Parse(dateLayout, f.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		endDate := f.EndDate
		if endDate == "" {
			endDate = f.StartDate
		}
		parsedEnd, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		return parsedStart, parsedEnd.AddDate(0, 0, 1), true
	}
	return parseLegacyDate(f.LegacyDate)
}

func parseLegacyDate(raw string) (start, end time.Time, ok bool) {
	if raw == "" {
		return time.Time{}, time.Time{}, false
	}

	if m := legacySameYearRange.FindStringSubmatch(raw); m != nil {
		year := atoi(m[1])
		start = date(year, atoi(m[2]), atoi(m[3]))
		end = date(year, atoi(m[4]), atoi(m[5])).AddDate(0, 0, 1)
		return start, end, true
	}
	if m := legacyCrossYearRange.FindStringSubmatch(raw); m != nil {
		start = date(atoi(m[1]), atoi(m[2]), atoi(m[3]))
		end = date(atoi(m[4]), atoi(m[5]), atoi(m[6])).AddDate(0, 0, 1)
		return start, end, true
	}
	if m := legacySingleDate.FindStringSubmatch(raw); m != nil {
		start = date(atoi(m[1]), atoi(m[2]), atoi(m[3]))
		return start, start.AddDate(0, 0, 1), true
	}
	return time.Time{}, time.Time{}, false
}

// DurationDays returns the festival's length in days, zero when no period can
// be resolved.
func DurationDays(f store.Festival) int {
	start, end, ok := EventRange(f)
	if !ok {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

// includesWeekend reports whether any day of [start, end) falls on a Saturday
// or Sunday.
func includesWeekend(start, end time.Time) bool {
	for current := start; current.Before(end); current = current.AddDate(0, 0, 1) {
		if wd := current.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
