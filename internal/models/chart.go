package models

// LinePoint is one point of a monthly line chart.
type LinePoint struct {
	X string `json:"x"` // YYYY-MM
	Y int    `json:"y"`
}

// LineChart is a monthly series with its mean, drawn as a dashed guide line.
type LineChart struct {
	Title  string      `json:"title"`
	Points []LinePoint `json:"points"`
	Mean   float64     `json:"mean"`
}

// BarChart is a horizontal bar chart; rows are ordered bottom to top.
type BarChart struct {
	Title string              `json:"title"`
	Bars  []OffenseGroupCount `json:"bars"`
}

// Dashboard is everything the four chart panels render for one filter state.
type Dashboard struct {
	Range     MonthRange   `json:"range"`
	Start     YearMonth    `json:"start"`
	End       YearMonth    `json:"end"`
	Districts []string     `json:"districts"`
	Offenses  LineChart    `json:"offenses"`
	Shootings LineChart    `json:"shootings"`
	TopGroups BarChart     `json:"top_groups"`
	Heatmap   HeatmapChart `json:"heatmap"`
}

// Domain lists the values the range slider and district selector offer.
type Domain struct {
	Months           []YearMonth `json:"months"`
	Districts        []string    `json:"districts"`
	DefaultRange     MonthRange  `json:"default_range"`
	DefaultDistricts []string    `json:"default_districts"`
}
