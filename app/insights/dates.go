package insights

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Calendar or ISO week date, extended or basic form, an optional time after
// any single non-digit separator and an optional UTC offset which is
// validated and then dropped.
var isoRe = regexp.MustCompile(`^` +
	`(?:(?P<y>\d{4})-(?P<mo>\d{2})-(?P<d>\d{2})|(?P<by>\d{4})(?P<bmo>\d{2})(?P<bd>\d{2})` +
	`|(?P<wy>\d{4})-W(?P<ww>\d{2})(?:-(?P<wd>\d))?|(?P<bwy>\d{4})W(?P<bww>\d{2})(?P<bwd>\d)?)` +
	`(?:\D` +
	`(?:(?P<h>\d{2})(?::(?P<mi>\d{2})(?::(?P<s>\d{2})(?:[.,](?P<f>\d+))?)?)?` +
	`|(?P<bh>\d{2})(?P<bmi>\d{2})(?P<bs>\d{2})?(?:[.,](?P<bf>\d+))?)` +
	`(Z|z|[+-]\d{2}(?::?\d{2}(?::?\d{2}(?:\.\d+)?)?)?)?` +
	`)?$`)

// ParseDate parses an ISO-8601 date or datetime. Any timezone designator is
// discarded and the wall clock kept. ok is false for anything unparseable.
func ParseDate(s string) (time.Time, bool) {
	m := isoRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	group := func(names ...string) string {
		for _, name := range names {
			if v := m[isoRe.SubexpIndex(name)]; v != "" {
				return v
			}
		}
		return ""
	}

	h, mi, sec := atoi(group("h", "bh")), atoi(group("mi", "bmi")), atoi(group("s", "bs"))
	if h > 23 || mi > 59 || sec > 59 {
		return time.Time{}, false
	}
	nsec := micros(group("f", "bf")) * 1000

	if week := group("ww", "bww"); week != "" {
		day, ok := isoWeekDay(atoi(group("wy", "bwy")), atoi(week), group("wd", "bwd"))
		if !ok {
			return time.Time{}, false
		}
		return day.Add(time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute +
			time.Duration(sec)*time.Second + time.Duration(nsec)), true
	}

	y, mo, d := atoi(group("y", "by")), atoi(group("mo", "bmo")), atoi(group("d", "bd"))
	if y < 1 || mo < 1 || mo > 12 || d < 1 {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(mo), d, h, mi, sec, nsec, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}

	return t, true
}

// isoWeekDay resolves an ISO week date. The weekday defaults to Monday and
// week 53 is only valid in years that have one.
func isoWeekDay(year, week int, weekday string) (time.Time, bool) {
	day := 1
	if weekday != "" {
		day = atoi(weekday)
	}
	if year < 1 || week < 1 || week > 53 || day < 1 || day > 7 {
		return time.Time{}, false
	}

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := int(jan4.Weekday())
	if offset == 0 {
		offset = 7
	}
	t := jan4.AddDate(0, 0, 1-offset+(week-1)*7+day-1)

	if _, w := t.ISOWeek(); w != week {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// micros truncates a fractional-second string to microseconds
func micros(fraction string) int {
	if fraction == "" {
		return 0
	}
	for len(fraction) < 6 {
		fraction += "0"
	}
	return atoi(fraction[:6])
}

// YearMonth formats t as "YYYY-MM"
func YearMonth(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// MonthsBetween lists every month from start's month through end's month,
// inclusive. It is empty when start is after end.
func MonthsBetween(start, end time.Time) []string {
	months := []string{}
	year, month := start.Year(), int(start.Month())
	endYear, endMonth := end.Year(), int(end.Month())

	for year < endYear || (year == endYear && month <= endMonth) {
		months = append(months, fmt.Sprintf("%04d-%02d", year, month))
		month++
		if month > 12 {
			month = 1
			year++
		}
	}

	return months
}

// dateSpan tracks the earliest and latest dates seen
type dateSpan struct {
	min, max time.Time
	ok       bool
}

func (s *dateSpan) observe(t time.Time) {
	if !s.ok {
		s.min, s.max, s.ok = t, t, true
		return
	}
	if t.Before(s.min) {
		s.min = t
	}
	if t.After(s.max) {
		s.max = t
	}
}

func (s *dateSpan) months() []string {
	if !s.ok {
		return []string{}
	}
	return MonthsBetween(s.min, s.max)
}
