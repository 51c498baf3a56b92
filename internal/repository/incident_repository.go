package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/crimestats-backend-go/internal/models"
	"github.com/jengzang/crimestats-backend-go/internal/observability"
)

// ErrStoreUnavailable is returned when no connection to the store can be
// acquired. Callers decide whether to retry.
var ErrStoreUnavailable = errors.New("store unavailable")

// Operation names, used as metric labels.
const (
	OpAvailableMonths       = "available_months"
	OpAvailableDistricts    = "available_districts"
	OpMonthlyOffenseCounts  = "monthly_offense_counts"
	OpMonthlyShootingCounts = "monthly_shooting_counts"
	OpTopOffenseGroups      = "top_offense_groups"
	OpHourWeekdayHeatmap    = "hour_weekday_heatmap"
	OpPing                  = "ping"
)

// districtExpr applies the Unknown sentinel at read time.
const districtExpr = `COALESCE(NULLIF(district, ''), 'Unknown')`

// IncidentRepository runs the read-only aggregations over the crimes table.
// Each call acquires its own connection and releases it before returning.
type IncidentRepository struct {
	db      *sql.DB
	metrics *observability.Metrics
}

// NewIncidentRepository creates a new incident repository. metrics may be nil.
func NewIncidentRepository(db *sql.DB, metrics *observability.Metrics) *IncidentRepository {
	return &IncidentRepository{db: db, metrics: metrics}
}

// withConn runs fn on a dedicated connection and records the query.
func (r *IncidentRepository) withConn(ctx context.Context, op string, fn func(*sql.Conn) error) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveQuery(op, start, err, ErrStoreUnavailable)
	}()

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer conn.Close()

	return fn(conn)
}

// Ping checks that the store is reachable.
func (r *IncidentRepository) Ping(ctx context.Context) error {
	return r.withConn(ctx, OpPing, func(conn *sql.Conn) error {
		if err := conn.PingContext(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil
	})
}

// filterClause builds the shared date/district WHERE clause. ok is false
// when the filter can match nothing: an empty district set or start after end.
func filterClause(start, end time.Time, districts []string) (where string, args []interface{}, ok bool) {
	if start.After(end) {
		return "", nil, false
	}

	seen := make(map[string]bool, len(districts))
	var placeholders []string
	var districtArgs []interface{}
	for _, d := range districts {
		if seen[d] {
			continue
		}
		seen[d] = true
		placeholders = append(placeholders, "?")
		districtArgs = append(districtArgs, d)
	}
	if len(placeholders) == 0 {
		return "", nil, false
	}

	conditions := []string{
		"occurred_on_date BETWEEN ? AND ?",
		districtExpr + " IN (" + strings.Join(placeholders, ", ") + ")",
	}
	args = append(args, start.Format(models.TimestampLayout), end.Format(models.TimestampLayout))
	args = append(args, districtArgs...)

	return " WHERE " + strings.Join(conditions, " AND "), args, true
}

// AvailableMonths returns the distinct months present in the store, ascending.
func (r *IncidentRepository) AvailableMonths(ctx context.Context) ([]models.YearMonth, error) {
	query := `SELECT DISTINCT strftime('%Y-%m', occurred_on_date) AS year_month
		FROM crimes
		WHERE strftime('%Y-%m', occurred_on_date) IS NOT NULL
		ORDER BY year_month`

	months := []models.YearMonth{}
	err := r.withConn(ctx, OpAvailableMonths, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to query available months: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var ym string
			if err := rows.Scan(&ym); err != nil {
				return fmt.Errorf("failed to scan month: %w", err)
			}
			m, err := models.ParseYearMonth(ym)
			if err != nil {
				return err
			}
			months = append(months, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return months, nil
}

// AvailableDistricts returns the distinct districts, null reported as
// "Unknown", in ascending order.
func (r *IncidentRepository) AvailableDistricts(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT ` + districtExpr + ` AS district_name
		FROM crimes
		ORDER BY district_name`

	districts := []string{}
	err := r.withConn(ctx, OpAvailableDistricts, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to query available districts: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var d string
			if err := rows.Scan(&d); err != nil {
				return fmt.Errorf("failed to scan district: %w", err)
			}
			districts = append(districts, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return districts, nil
}

// MonthlyOffenseCounts counts incidents per month. Months without a
// matching incident are omitted.
func (r *IncidentRepository) MonthlyOffenseCounts(ctx context.Context, start, end time.Time, districts []string) ([]models.MonthlyCount, error) {
	return r.monthlySeries(ctx, OpMonthlyOffenseCounts, "COUNT(*)", start, end, districts)
}

// MonthlyShootingCounts sums the shooting flag per month. Every month with
// at least one matching incident appears, with 0 when none was a shooting.
func (r *IncidentRepository) MonthlyShootingCounts(ctx context.Context, start, end time.Time, districts []string) ([]models.MonthlyCount, error) {
	return r.monthlySeries(ctx, OpMonthlyShootingCounts, "COALESCE(SUM(shooting), 0)", start, end, districts)
}

func (r *IncidentRepository) monthlySeries(ctx context.Context, op, aggregate string, start, end time.Time, districts []string) ([]models.MonthlyCount, error) {
	series := []models.MonthlyCount{}

	where, args, ok := filterClause(start, end, districts)
	if !ok {
		return series, nil
	}

	query := `SELECT strftime('%Y-%m', occurred_on_date) AS year_month, ` + aggregate + ` AS value
		FROM crimes` + where + `
		GROUP BY year_month
		ORDER BY year_month`

	err := r.withConn(ctx, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query %s: %w", op, err)
		}
		defer rows.Close()

		for rows.Next() {
			var ym string
			var count int
			if err := rows.Scan(&ym, &count); err != nil {
				return fmt.Errorf("failed to scan %s row: %w", op, err)
			}
			m, err := models.ParseYearMonth(ym)
			if err != nil {
				return err
			}
			series = append(series, models.MonthlyCount{YearMonth: m, Count: count})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// TopOffenseGroups ranks offense code groups by incident count, descending,
// ties broken by group name ascending. limit <= 0 uses the default of 10.
func (r *IncidentRepository) TopOffenseGroups(ctx context.Context, start, end time.Time, districts []string, limit int) ([]models.OffenseGroupCount, error) {
	groups := []models.OffenseGroupCount{}
	if limit <= 0 {
		limit = models.DefaultTopGroupsLimit
	}

	where, args, ok := filterClause(start, end, districts)
	if !ok {
		return groups, nil
	}

	query := `SELECT COALESCE(NULLIF(offense_code_group, ''), 'Unknown') AS grp, COUNT(*) AS num_offenses
		FROM crimes` + where + `
		GROUP BY grp
		ORDER BY num_offenses DESC, grp ASC
		LIMIT ?`
	args = append(args, limit)

	err := r.withConn(ctx, OpTopOffenseGroups, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query top offense groups: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var g models.OffenseGroupCount
			if err := rows.Scan(&g.OffenseCodeGroup, &g.Count); err != nil {
				return fmt.Errorf("failed to scan offense group: %w", err)
			}
			groups = append(groups, g)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// HourWeekdayHeatmap counts incidents per (hour, weekday). The result is
// always the full 24x7 grid; empty cells are 0.
func (r *IncidentRepository) HourWeekdayHeatmap(ctx context.Context, start, end time.Time, districts []string) (*models.Heatmap, error) {
	heatmap := &models.Heatmap{}

	where, args, ok := filterClause(start, end, districts)
	if !ok {
		return heatmap, nil
	}

	query := `SELECT hour, day_of_week, COUNT(*) AS counts
		FROM crimes` + where + `
		GROUP BY hour, day_of_week`

	err := r.withConn(ctx, OpHourWeekdayHeatmap, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query heatmap: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var hour, count int
			var dayName string
			if err := rows.Scan(&hour, &dayName, &count); err != nil {
				return fmt.Errorf("failed to scan heatmap cell: %w", err)
			}
			day, err := models.ParseWeekday(dayName)
			if err != nil {
				return err
			}
			if !heatmap.Add(hour, day, count) {
				return fmt.Errorf("heatmap cell out of range: hour=%d day=%s", hour, dayName)
			}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return heatmap, nil
}
