package models

import "encoding/json"

// MonthRange is a pair of indices into the available months, inclusive.
type MonthRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// StatsFilter represents query parameters for the raw aggregation endpoints
type StatsFilter struct {
	Start     string   `form:"start" binding:"required"` // YYYY-MM-DD or YYYY-MM
	End       string   `form:"end" binding:"required"`   // YYYY-MM-DD or YYYY-MM
	Districts []string `form:"district"`                 // omitted = all districts
	Limit     int      `form:"limit" binding:"omitempty,min=1,max=100"`
}

// DashboardFilter represents the filter state of the dashboard: the range
// slider and the district selector.
type DashboardFilter struct {
	From      *int     `form:"from"`
	To        *int     `form:"to"`
	Districts []string `form:"district"` // omitted = all districts
}

// Chart identifiers used as zoom/pan trigger sources.
const (
	TriggerOffenses  = "offenses"
	TriggerShootings = "shootings"
)

// RangeRequest carries the zoom/pan payloads of both time-series charts
// and which of them fired.
type RangeRequest struct {
	Trigger   string        `json:"trigger" binding:"omitempty,oneof=offenses shootings"`
	Offenses  *RelayoutData `json:"offenses,omitempty"`
	Shootings *RelayoutData `json:"shootings,omitempty"`
}

// RelayoutData is the axis-bounds part of a chart zoom/pan event.
// Bounds are timestamp strings such as "2017-03-14 12:00:00.000".
type RelayoutData struct {
	Lower *string `json:"xaxis.range[0],omitempty"`
	Upper *string `json:"xaxis.range[1],omitempty"`
}

// UnmarshalJSON also accepts the array form {"xaxis.range": [lower, upper]}.
// Keys that are not axis bounds (autorange, yaxis, ...) are ignored.
func (r *RelayoutData) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = RelayoutData{}
	r.Lower = stringField(raw["xaxis.range[0]"])
	r.Upper = stringField(raw["xaxis.range[1]"])

	if pair, ok := raw["xaxis.range"]; ok && r.Lower == nil && r.Upper == nil {
		var bounds []json.RawMessage
		if err := json.Unmarshal(pair, &bounds); err == nil && len(bounds) == 2 {
			r.Lower = stringField(bounds[0])
			r.Upper = stringField(bounds[1])
		}
	}
	return nil
}

// stringField returns nil for absent or non-string values.
func stringField(raw json.RawMessage) *string {
	if raw == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}
