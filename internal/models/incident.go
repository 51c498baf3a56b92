package models

import "time"

// UnknownDistrict replaces a null district at read time.
const UnknownDistrict = "Unknown"

// TimestampLayout is how occurred_on_date is stored. strftime-compatible
// and lexically ordered.
const TimestampLayout = "2006-01-02 15:04:05"

// Incident is one reported crime event, one row in the crimes table.
type Incident struct {
	ID                 int64     `json:"id" db:"id"`
	IncidentNumber     string    `json:"incident_number" db:"incident_number"`
	OffenseCode        string    `json:"offense_code" db:"offense_code"`
	OffenseCodeGroup   string    `json:"offense_code_group" db:"offense_code_group"`
	OffenseDescription string    `json:"offense_description" db:"offense_description"`
	District           *string   `json:"district,omitempty" db:"district"` // nil when not reported
	ReportingArea      string    `json:"reporting_area,omitempty" db:"reporting_area"`
	Shooting           bool      `json:"shooting" db:"shooting"`
	OccurredOnDate     time.Time `json:"occurred_on_date" db:"occurred_on_date"`
	UCRPart            string    `json:"ucr_part,omitempty" db:"ucr_part"`
	Street             string    `json:"street,omitempty" db:"street"`
	Lat                *float64  `json:"lat,omitempty" db:"lat"`
	Long               *float64  `json:"long,omitempty" db:"long"`
}

// DistrictOrUnknown returns the district with the null sentinel applied.
func (i Incident) DistrictOrUnknown() string {
	if i.District == nil || *i.District == "" {
		return UnknownDistrict
	}
	return *i.District
}

// Hour is the hour-of-day the incident occurred, 0-23.
func (i Incident) Hour() int {
	return i.OccurredOnDate.Hour()
}

// DayOfWeek is the Monday-first weekday the incident occurred on.
func (i Incident) DayOfWeek() Weekday {
	return WeekdayOf(i.OccurredOnDate)
}

// YearMonth is the calendar month bucket of the incident.
func (i Incident) YearMonth() YearMonth {
	return YearMonthOf(i.OccurredOnDate)
}
