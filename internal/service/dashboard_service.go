package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/crimestats-backend-go/internal/models"
	"github.com/jengzang/crimestats-backend-go/internal/stats"
)

// ErrNoData is returned when the store holds no incidents, so there is no
// month domain to index into.
var ErrNoData = errors.New("no incidents loaded")

// IncidentReader is the read surface of the incident store.
type IncidentReader interface {
	AvailableMonths(ctx context.Context) ([]models.YearMonth, error)
	AvailableDistricts(ctx context.Context) ([]string, error)
	MonthlyOffenseCounts(ctx context.Context, start, end time.Time, districts []string) ([]models.MonthlyCount, error)
	MonthlyShootingCounts(ctx context.Context, start, end time.Time, districts []string) ([]models.MonthlyCount, error)
	TopOffenseGroups(ctx context.Context, start, end time.Time, districts []string, limit int) ([]models.OffenseGroupCount, error)
	HourWeekdayHeatmap(ctx context.Context, start, end time.Time, districts []string) (*models.Heatmap, error)
}

// DashboardService turns filter state into chart-ready results.
// It holds no state between calls: every call re-queries the store.
type DashboardService struct {
	repo     IncidentReader
	topLimit int
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repo IncidentReader, topLimit int) *DashboardService {
	if topLimit <= 0 {
		topLimit = models.DefaultTopGroupsLimit
	}
	return &DashboardService{repo: repo, topLimit: topLimit}
}

// Domain returns the range slider and district selector domains.
func (s *DashboardService) Domain(ctx context.Context) (*models.Domain, error) {
	months, err := s.repo.AvailableMonths(ctx)
	if err != nil {
		return nil, err
	}
	districts, err := s.repo.AvailableDistricts(ctx)
	if err != nil {
		return nil, err
	}

	domain := &models.Domain{
		Months:           months,
		Districts:        districts,
		DefaultDistricts: districts,
	}
	if len(months) > 0 {
		domain.DefaultRange = models.MonthRange{From: 0, To: len(months) - 1}
	}
	return domain, nil
}

// Build runs all four aggregations for one filter state.
func (s *DashboardService) Build(ctx context.Context, filter models.DashboardFilter) (*models.Dashboard, error) {
	months, err := s.repo.AvailableMonths(ctx)
	if err != nil {
		return nil, err
	}
	if len(months) == 0 {
		return nil, ErrNoData
	}

	districts, err := s.resolveDistricts(ctx, filter.Districts)
	if err != nil {
		return nil, err
	}

	rng := ClampRange(filter.From, filter.To, len(months))
	startMonth, endMonth := months[rng.From], months[rng.To]
	start, end := startMonth.Start(), endMonth.End()

	offenses, err := s.repo.MonthlyOffenseCounts(ctx, start, end, districts)
	if err != nil {
		return nil, err
	}
	shootings, err := s.repo.MonthlyShootingCounts(ctx, start, end, districts)
	if err != nil {
		return nil, err
	}
	groups, err := s.repo.TopOffenseGroups(ctx, start, end, districts, s.topLimit)
	if err != nil {
		return nil, err
	}
	heatmap, err := s.repo.HourWeekdayHeatmap(ctx, start, end, districts)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		Range:     rng,
		Start:     startMonth,
		End:       endMonth,
		Districts: districts,
		Offenses: LineChart(
			fmt.Sprintf("Number of Offenses per Month between %s and %s", startMonth, endMonth), offenses),
		Shootings: LineChart(
			fmt.Sprintf("Number of Shootings per Month between %s and %s", startMonth, endMonth), shootings),
		TopGroups: BarChart(fmt.Sprintf("Top %d Offense Code Groups", s.topLimit), groups),
		Heatmap:   HeatmapChart("Offenses by Hour and Day of Week", heatmap),
	}, nil
}

// RangeFromInteraction derives the month range from a zoom/pan event.
func (s *DashboardService) RangeFromInteraction(ctx context.Context, req models.RangeRequest) (models.MonthRange, error) {
	months, err := s.repo.AvailableMonths(ctx)
	if err != nil {
		return models.MonthRange{}, err
	}
	if len(months) == 0 {
		return models.MonthRange{}, ErrNoData
	}
	return RangeFromInteraction(months, req), nil
}

// MonthlyOffenseCounts passes through to the store with districts resolved.
func (s *DashboardService) MonthlyOffenseCounts(ctx context.Context, start, end time.Time, districts []string) ([]models.MonthlyCount, error) {
	resolved, err := s.resolveDistricts(ctx, districts)
	if err != nil {
		return nil, err
	}
	return s.repo.MonthlyOffenseCounts(ctx, start, end, resolved)
}

// MonthlyShootingCounts passes through to the store with districts resolved.
func (s *DashboardService) MonthlyShootingCounts(ctx context.Context, start, end time.Time, districts []string) ([]models.MonthlyCount, error) {
	resolved, err := s.resolveDistricts(ctx, districts)
	if err != nil {
		return nil, err
	}
	return s.repo.MonthlyShootingCounts(ctx, start, end, resolved)
}

// TopOffenseGroups passes through to the store; limit <= 0 uses the
// configured default.
func (s *DashboardService) TopOffenseGroups(ctx context.Context, start, end time.Time, districts []string, limit int) ([]models.OffenseGroupCount, error) {
	resolved, err := s.resolveDistricts(ctx, districts)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.topLimit
	}
	return s.repo.TopOffenseGroups(ctx, start, end, resolved, limit)
}

// HourWeekdayHeatmap passes through to the store with districts resolved.
func (s *DashboardService) HourWeekdayHeatmap(ctx context.Context, start, end time.Time, districts []string) (*models.Heatmap, error) {
	resolved, err := s.resolveDistricts(ctx, districts)
	if err != nil {
		return nil, err
	}
	return s.repo.HourWeekdayHeatmap(ctx, start, end, resolved)
}

// resolveDistricts applies the selector default: nil means every district.
// Otherwise names not in the store are dropped.
func (s *DashboardService) resolveDistricts(ctx context.Context, selected []string) ([]string, error) {
	available, err := s.repo.AvailableDistricts(ctx)
	if err != nil {
		return nil, err
	}
	if selected == nil {
		return available, nil
	}
	return NormalizeDistricts(selected, available), nil
}

// NormalizeDistricts keeps the selected names present in available, in
// selection order, without duplicates. The result is never nil.
func NormalizeDistricts(selected, available []string) []string {
	known := make(map[string]bool, len(available))
	for _, d := range available {
		known[d] = true
	}

	out := []string{}
	seen := make(map[string]bool, len(selected))
	for _, d := range selected {
		if !known[d] || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// ClampRange resolves slider indices against a domain of n months. Missing
// bounds default to the domain ends; out-of-range bounds are clamped.
// An inverted range is kept as is and selects nothing.
func ClampRange(from, to *int, n int) models.MonthRange {
	if n <= 0 {
		return models.MonthRange{}
	}
	rng := models.MonthRange{From: 0, To: n - 1}
	if from != nil {
		rng.From = clamp(*from, 0, n-1)
	}
	if to != nil {
		rng.To = clamp(*to, 0, n-1)
	}
	return rng
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LineChart builds a monthly line chart with the series mean.
func LineChart(title string, series []models.MonthlyCount) models.LineChart {
	points := make([]models.LinePoint, len(series))
	values := make([]int, len(series))
	for i, row := range series {
		points[i] = models.LinePoint{X: row.YearMonth.String(), Y: row.Count}
		values[i] = row.Count
	}
	return models.LineChart{
		Title:  title,
		Points: points,
		Mean:   stats.Mean(stats.Floats(values)),
	}
}

// BarChart builds the horizontal top-groups chart. Rows are reversed so the
// largest group is drawn at the top.
func BarChart(title string, groups []models.OffenseGroupCount) models.BarChart {
	bars := make([]models.OffenseGroupCount, len(groups))
	for i, g := range groups {
		bars[len(groups)-1-i] = g
	}
	return models.BarChart{Title: title, Bars: bars}
}

// HeatmapChart lays out the matrix with weekdays on x and hours on y.
func HeatmapChart(title string, heatmap *models.Heatmap) models.HeatmapChart {
	if heatmap == nil {
		heatmap = &models.Heatmap{}
	}
	hours := make([]int, models.HoursPerDay)
	for h := range hours {
		hours[h] = h
	}
	return models.HeatmapChart{
		Title: title,
		X:     models.Weekdays[:],
		Y:     hours,
		Z:     heatmap.Rows(),
	}
}
