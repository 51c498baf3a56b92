package models

// MonthlyCount is one bucket of a per-month series.
type MonthlyCount struct {
	YearMonth YearMonth `json:"year_month" db:"year_month"`
	Count     int       `json:"count" db:"count"`
}

// OffenseGroupCount is one row of the top offense groups ranking.
type OffenseGroupCount struct {
	OffenseCodeGroup string `json:"offense_code_group" db:"offense_code_group"`
	Count            int    `json:"count" db:"num_offenses"`
}

// DefaultTopGroupsLimit is the ranking size when none is configured.
const DefaultTopGroupsLimit = 10

