package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// YearMonth is a calendar month, rendered as "YYYY-MM".
type YearMonth struct {
	Year  int
	Month time.Month
}

const yearMonthLayout = "2006-01"

// YearMonthOf truncates t to its calendar month.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(yearMonthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: %w", s, err)
	}
	return YearMonthOf(t), nil
}

// Start is midnight on the first day of the month.
func (m YearMonth) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last whole second of the month.
func (m YearMonth) End() time.Time {
	return m.Start().AddDate(0, 1, 0).Add(-time.Second)
}

// Before reports whether m is an earlier month than o.
func (m YearMonth) Before(o YearMonth) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalJSON encodes the month as "YYYY-MM".
func (m YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes "YYYY-MM".
func (m *YearMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseYearMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Weekday is a Monday-first day of the week. Values index Weekdays.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek and HoursPerDay size the heatmap grid.
const (
	DaysPerWeek = 7
	HoursPerDay = 24
)

// Weekdays holds the canonical names in axis order.
var Weekdays = [DaysPerWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdayOf converts time.Weekday (Sunday-first) to the Monday-first axis.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % DaysPerWeek)
}

// ParseWeekday accepts only the canonical English names.
func ParseWeekday(name string) (Weekday, error) {
	for i, n := range Weekdays {
		if n == name {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("invalid day of week %q", name)
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return Weekdays[d]
}
