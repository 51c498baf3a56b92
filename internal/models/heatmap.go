package models

// Heatmap is the dense hour-of-day by day-of-week count matrix.
// Cells[h][d] counts incidents at hour h on weekday d (Monday = 0).
// Combinations with no incidents hold 0.
type Heatmap struct {
	Cells [HoursPerDay][DaysPerWeek]int `json:"cells"`
}

// Add accumulates count into the (hour, day) cell. Out-of-range
// coordinates are ignored and reported as false.
func (h *Heatmap) Add(hour int, day Weekday, count int) bool {
	if hour < 0 || hour >= HoursPerDay || day < Monday || day > Sunday {
		return false
	}
	h.Cells[hour][day] += count
	return true
}

// Get returns the count for (hour, day).
func (h *Heatmap) Get(hour int, day Weekday) int {
	return h.Cells[hour][day]
}

// Total sums every cell.
func (h *Heatmap) Total() int {
	total := 0
	for _, row := range h.Cells {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// Rows returns the matrix as nested slices, the shape chart payloads use.
func (h *Heatmap) Rows() [][]int {
	rows := make([][]int, HoursPerDay)
	for i := range h.Cells {
		row := make([]int, DaysPerWeek)
		copy(row, h.Cells[i][:])
		rows[i] = row
	}
	return rows
}

// HeatmapChart is the render-ready heatmap: X is the weekday axis, Y the
// hour axis and Z[y][x] the counts.
type HeatmapChart struct {
	Title string   `json:"title"`
	X     []string `json:"x"`
	Y     []int    `json:"y"`
	Z     [][]int  `json:"z"`
}
