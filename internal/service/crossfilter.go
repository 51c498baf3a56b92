package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/crimestats-backend-go/internal/models"
)

// ParseAxisBound reads the date part of a chart axis bound such as
// "2017-03-14 12:00:00.000" or "2017-03-14T12:00:00Z" and snaps it down to
// its month.
func ParseAxisBound(bound string) (models.YearMonth, error) {
	date := strings.TrimSpace(bound)
	if i := strings.IndexAny(date, " T"); i >= 0 {
		date = date[:i]
	}

	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, date); err == nil {
			return models.YearMonthOf(t), nil
		}
	}
	return models.YearMonth{}, fmt.Errorf("invalid axis bound %q", bound)
}

// RangeFromRelayout maps zoom/pan axis bounds onto indices of months, which
// must be ascending. The lower bound maps to the first month not before it,
// the upper bound to the last month not after it. Missing or unparsable
// bounds reset to the full domain.
func RangeFromRelayout(months []models.YearMonth, data *models.RelayoutData) models.MonthRange {
	n := len(months)
	if n == 0 {
		return models.MonthRange{}
	}
	full := models.MonthRange{From: 0, To: n - 1}

	if data == nil || data.Lower == nil || data.Upper == nil {
		return full
	}
	lo, err := ParseAxisBound(*data.Lower)
	if err != nil {
		return full
	}
	hi, err := ParseAxisBound(*data.Upper)
	if err != nil {
		return full
	}
	if hi.Before(lo) {
		lo, hi = hi, lo
	}

	from := n - 1
	for i, m := range months {
		if !m.Before(lo) {
			from = i
			break
		}
	}

	to := 0
	for i := n - 1; i >= 0; i-- {
		if !hi.Before(months[i]) {
			to = i
			break
		}
	}

	// Both bounds inside a gap between two available months.
	if from > to {
		from, to = to, from
	}
	return models.MonthRange{From: from, To: to}
}

// RangeFromInteraction picks the payload of the chart that triggered the
// update; the other chart's payload is ignored for this cycle. No trigger
// resets to the full domain.
func RangeFromInteraction(months []models.YearMonth, req models.RangeRequest) models.MonthRange {
	var data *models.RelayoutData
	switch req.Trigger {
	case models.TriggerOffenses:
		data = req.Offenses
	case models.TriggerShootings:
		data = req.Shootings
	}
	return RangeFromRelayout(months, data)
}
