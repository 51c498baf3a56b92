package service

import (
	"testing"

	"github.com/jengzang/crimestats-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func relayout(lower, upper string) *models.RelayoutData {
	return &models.RelayoutData{Lower: strPtr(lower), Upper: strPtr(upper)}
}

func TestParseAxisBound(t *testing.T) {
	tests := []struct {
		bound string
		want  string
	}{
		{"2017-03-14 12:00:00.000", "2017-03"},
		{"2017-03-01", "2017-03"},
		{"2017-03-31T23:59:59Z", "2017-03"},
		{"2017-03", "2017-03"},
	}
	for _, tt := range tests {
		got, err := ParseAxisBound(tt.bound)
		require.NoError(t, err, tt.bound)
		assert.Equal(t, tt.want, got.String())
	}

	_, err := ParseAxisBound("yesterday")
	assert.Error(t, err)
}

func TestRangeFromRelayout(t *testing.T) {
	months := []models.YearMonth{
		month("2022-01"), month("2022-02"), month("2022-03"), month("2022-05"), month("2022-06"),
	}
	full := models.MonthRange{From: 0, To: 4}

	tests := []struct {
		name string
		data *models.RelayoutData
		want models.MonthRange
	}{
		{"nil payload", nil, full},
		{"missing upper", &models.RelayoutData{Lower: strPtr("2022-02-01")}, full},
		{"unparsable", relayout("soon", "later"), full},
		{"exact months", relayout("2022-02-10 04:00:00", "2022-03-28 00:00:00"), models.MonthRange{From: 1, To: 2}},
		{"bounds beyond domain", relayout("2021-06-01", "2023-01-01"), full},
		{"reversed bounds", relayout("2022-05-02", "2022-01-20"), models.MonthRange{From: 0, To: 3}},
		{"lower in gap", relayout("2022-04-15", "2022-06-01"), models.MonthRange{From: 3, To: 4}},
		{"both in gap", relayout("2022-04-01", "2022-04-30"), models.MonthRange{From: 2, To: 3}},
		{"after domain", relayout("2024-01-01", "2024-02-01"), models.MonthRange{From: 4, To: 4}},
		{"before domain", relayout("2020-01-01", "2020-02-01"), models.MonthRange{From: 0, To: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RangeFromRelayout(months, tt.data))
		})
	}
}

func TestRangeFromRelayout_EmptyDomain(t *testing.T) {
	assert.Equal(t, models.MonthRange{}, RangeFromRelayout(nil, relayout("2022-01-01", "2022-02-01")))
}

func TestRangeFromInteraction_TriggerWins(t *testing.T) {
	months := []models.YearMonth{month("2022-01"), month("2022-02"), month("2022-03")}
	req := models.RangeRequest{
		Offenses:  relayout("2022-01-01", "2022-01-31"),
		Shootings: relayout("2022-02-01", "2022-03-31"),
	}

	req.Trigger = models.TriggerOffenses
	assert.Equal(t, models.MonthRange{From: 0, To: 0}, RangeFromInteraction(months, req))

	req.Trigger = models.TriggerShootings
	assert.Equal(t, models.MonthRange{From: 1, To: 2}, RangeFromInteraction(months, req))

	req.Trigger = ""
	assert.Equal(t, models.MonthRange{From: 0, To: 2}, RangeFromInteraction(months, req))

	req.Trigger = models.TriggerShootings
	req.Shootings = nil
	assert.Equal(t, models.MonthRange{From: 0, To: 2}, RangeFromInteraction(months, req))
}
