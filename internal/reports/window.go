package reports

import (
	"fmt"
	"time"
)

// Window is a resolved reporting interval. Both bounds are inclusive: Start
// is the first instant of the covered range and End the last, so queries can
// use BETWEEN semantics directly.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WindowParams carries the raw, optional selectors a caller may supply.
// Zero values mean "not provided".
type WindowParams struct {
	Period    string // daily | weekly | monthly | yearly
	StartDate string // 2006-01-02
	EndDate   string // 2006-01-02
	Year      int
	Month     int // 1-12
	Week      int // 1-based week of month (or of year when Month is absent)
}

const dateLayout = "2006-01-02"

// ResolveWindow turns request selectors into a concrete interval in the local
// time of now. Precedence: an explicit startDate+endDate pair wins over any
// period; an unknown or missing period falls back to the current month.
func ResolveWindow(p WindowParams, now time.Time) Window {
	loc := now.Location()

	if p.StartDate != "" && p.EndDate != "" {
		start, serr := time.ParseInLocation(dateLayout, p.StartDate, loc)
		end, eerr := time.ParseInLocation(dateLayout, p.EndDate, loc)
		if serr == nil && eerr == nil {
			return Window{Start: startOfDay(start), End: endOfDay(end)}
		}
	}

	switch p.Period {
	case "daily":
		return Window{Start: startOfDay(now), End: endOfDay(now)}

	case "weekly":
		switch {
		case p.Week > 0 && p.Year > 0 && p.Month >= 1 && p.Month <= 12:
			// Week N of a month: advance N-1 weeks from the first day of the
			// month, then snap to that week's Monday. The resulting window may
			// spill into the following month; that is the documented behavior.
			first := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
			start := startOfWeek(first.AddDate(0, 0, (p.Week-1)*7))
			return Window{Start: start, End: endOfWeek(start)}
		case p.Week > 0 && p.Year > 0:
			start := weekOfYearStart(p.Year, p.Week, loc)
			return Window{Start: start, End: endOfWeek(start)}
		default:
			start := startOfWeek(now)
			return Window{Start: start, End: endOfWeek(start)}
		}

	case "monthly":
		if p.Year > 0 && p.Month >= 1 && p.Month <= 12 {
			return monthWindow(p.Year, time.Month(p.Month), loc)
		}
		return monthWindow(now.Year(), now.Month(), loc)

	case "yearly":
		year := now.Year()
		if p.Year > 0 {
			year = p.Year
		}
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(1, 0, 0).Add(-time.Nanosecond)}

	default:
		return monthWindow(now.Year(), now.Month(), loc)
	}
}

func monthWindow(year int, month time.Month, loc *time.Location) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// startOfWeek snaps to the Monday beginning the week containing t.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

func endOfWeek(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// weekOfYearStart resolves week N of a year using ISO-style numbering:
// week 1 is the week containing January 4th, weeks start on Monday.
func weekOfYearStart(year, week int, loc *time.Location) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	return startOfWeek(jan4).AddDate(0, 0, (week-1)*7)
}

// MonthWeek describes one selectable week of a calendar month.
type MonthWeek struct {
	Week      int    `json:"week"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Label     string `json:"label"`
}

// WeeksOfMonth enumerates the Monday-aligned weeks overlapping the given
// month, for the calendar navigation helper. Weeks at the edges may start in
// the previous month or end in the next one.
func WeeksOfMonth(year int, month time.Month, loc *time.Location) []MonthWeek {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	endOfMonth := first.AddDate(0, 1, 0).Add(-time.Nanosecond)

	var weeks []MonthWeek
	for ws, n := startOfWeek(first), 1; !ws.After(endOfMonth); ws, n = ws.AddDate(0, 0, 7), n+1 {
		we := ws.AddDate(0, 0, 6)
		weeks = append(weeks, MonthWeek{
			Week:      n,
			StartDate: ws.Format(dateLayout),
			EndDate:   we.Format(dateLayout),
			Label:     fmt.Sprintf("Week %d (%s - %s)", n, ws.Format("02 Jan"), we.Format("02 Jan")),
		})
	}
	return weeks
}
