package model

import "time"

// EDGAR operates on US Eastern time, EDINET on Japan Standard Time. The
// freshness protocol and day-walk both reason about "today" in the source's
// own jurisdiction, not the caller's local time or UTC.
var (
	edgarLocation  *time.Location
	edinetLocation *time.Location
)

func init() {
	var err error
	edgarLocation, err = time.LoadLocation("America/New_York")
	if err != nil {
		edgarLocation = time.FixedZone("EST", -5*60*60)
	}
	edinetLocation, err = time.LoadLocation("Asia/Tokyo")
	if err != nil {
		edinetLocation = time.FixedZone("JST", 9*60*60)
	}
}

// SourceLocation returns the timezone a source's calendar dates are
// expressed in.
func SourceLocation(src Source) *time.Location {
	if src == SourceEDINET {
		return edinetLocation
	}
	return edgarLocation
}

// TodayIn returns the current calendar date (midnight) in the given source's
// jurisdiction.
func TodayIn(src Source) time.Time {
	loc := SourceLocation(src)
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

// DaysStale returns how many whole calendar days old t is, measured against
// today in the source's own jurisdiction.
func DaysStale(src Source, t time.Time) int {
	today := TodayIn(src)
	loc := SourceLocation(src)
	d := t.In(loc)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return int(today.Sub(day).Hours() / 24)
}

// ParseSourceDate parses a "2006-01-02" calendar date in the source's
// jurisdiction.
func ParseSourceDate(src Source, s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, SourceLocation(src))
}

// FormatSourceDate formats t as "2006-01-02" in the source's jurisdiction.
func FormatSourceDate(src Source, t time.Time) string {
	return t.In(SourceLocation(src)).Format("2006-01-02")
}

// DateRange enumerates each calendar day in [from, to] inclusive, oldest
// first — the order the indexer's day-walk depends on for a contiguous
// prefix guarantee under interruption.
func DateRange(from, to time.Time) []time.Time {
	if to.Before(from) {
		return nil
	}
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
