package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/crimestats-backend-go/internal/models"
)

const insertIncidentQuery = `
	INSERT INTO crimes (
		incident_number, offense_code, offense_code_group, offense_description,
		district, reporting_area, shooting, occurred_on_date,
		year, month, day_of_week, hour,
		ucr_part, street, lat, long
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// InsertIncidents writes a batch of incidents inside tx. The derived
// calendar columns are computed from OccurredOnDate here, never taken
// from the source file.
func InsertIncidents(ctx context.Context, tx *sql.Tx, incidents []models.Incident) (int, error) {
	if len(incidents) == 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx, insertIncidentQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, inc := range incidents {
		shooting := 0
		if inc.Shooting {
			shooting = 1
		}
		_, err := stmt.ExecContext(ctx,
			inc.IncidentNumber, nullString(inc.OffenseCode), nullString(inc.OffenseCodeGroup), nullString(inc.OffenseDescription),
			inc.District, nullString(inc.ReportingArea), shooting, inc.OccurredOnDate.Format(models.TimestampLayout),
			inc.OccurredOnDate.Year(), int(inc.OccurredOnDate.Month()), inc.DayOfWeek().String(), inc.Hour(),
			nullString(inc.UCRPart), nullString(inc.Street), inc.Lat, inc.Long,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert incident %q: %w", inc.IncidentNumber, err)
		}
		inserted++
	}

	return inserted, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
