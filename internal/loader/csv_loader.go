package loader

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/s2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jengzang/crimestats-backend-go/internal/database"
	"github.com/jengzang/crimestats-backend-go/internal/models"
	"github.com/jengzang/crimestats-backend-go/internal/repository"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Source column names after header normalization.
const (
	colIncidentNumber     = "incident_number"
	colOffenseCode        = "offense_code"
	colOffenseCodeGroup   = "offense_code_group"
	colOffenseDescription = "offense_description"
	colDistrict           = "district"
	colReportingArea      = "reporting_area"
	colShooting           = "shooting"
	colOccurredOnDate     = "occurred_on_date"
	colUCRPart            = "ucr_part"
	colStreet             = "street"
	colLat                = "lat"
	colLong               = "long"
)

// Encodings understood by the loader.
const (
	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf-8"
)

var timestampLayouts = []string{
	models.TimestampLayout,
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Report summarizes one load.
type Report struct {
	Read     int `json:"read"`
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// Loader imports a delimited incident file into the crimes table.
type Loader struct {
	db        *sql.DB
	batchSize int
	encoding  string
	logger    *slog.Logger
}

// New creates a loader. Rows are written in transactions of batchSize.
func New(db *sql.DB, batchSize int, logger *slog.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Loader{db: db, batchSize: batchSize, encoding: EncodingLatin1, logger: logger}
}

// WithEncoding returns a copy of the loader reading the given source
// encoding; the default is latin1.
func (l *Loader) WithEncoding(encoding string) *Loader {
	cp := *l
	cp.encoding = encoding
	return &cp
}

// LoadFile imports the file at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	report, err := l.Load(ctx, f)
	if err != nil {
		return report, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return report, nil
}

// Load imports every record from r. A failing batch aborts the load; the
// batches committed before it stay in place.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*Report, error) {
	if l.encoding != EncodingUTF8 {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	columns := NormalizeHeader(header)
	if _, ok := columns[colOccurredOnDate]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, colOccurredOnDate)
	}

	report := &Report{}
	batch := make([]models.Incident, 0, l.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		err := database.Transaction(ctx, l.db, func(tx *sql.Tx) error {
			n, err := repository.InsertIncidents(ctx, tx, batch)
			if err != nil {
				return err
			}
			report.Inserted += n
			return nil
		})
		batch = batch[:0]
		return err
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, fmt.Errorf("failed to read record: %w", err)
		}
		line, _ := reader.FieldPos(0)
		report.Read++

		inc, err := ParseRecord(columns, record)
		if err != nil {
			report.Skipped++
			l.logger.Debug("skipping record", "line", line, "error", err)
			continue
		}

		batch = append(batch, inc)
		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return report, err
			}
		}
	}

	if err := flush(); err != nil {
		return report, err
	}

	l.logger.Info("bulk load finished",
		"read", report.Read, "inserted", report.Inserted, "skipped", report.Skipped)
	return report, nil
}

// NormalizeHeader maps lowercased, trimmed column names to their index.
func NormalizeHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		name = strings.TrimPrefix(name, "\u00ef\u00bb\u00bf") // UTF-8 BOM decoded as latin1
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return columns
}

// ParseRecord converts one source record into an Incident.
func ParseRecord(columns map[string]int, record []string) (models.Incident, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	occurred, err := ParseOccurredOn(field(colOccurredOnDate))
	if err != nil {
		return models.Incident{}, err
	}

	inc := models.Incident{
		IncidentNumber:     field(colIncidentNumber),
		OffenseCode:        field(colOffenseCode),
		OffenseCodeGroup:   field(colOffenseCodeGroup),
		OffenseDescription: field(colOffenseDescription),
		ReportingArea:      field(colReportingArea),
		Shooting:           ParseShooting(field(colShooting)),
		OccurredOnDate:     occurred,
		UCRPart:            field(colUCRPart),
		Street:             field(colStreet),
	}
	if d := field(colDistrict); d != "" {
		inc.District = &d
	}
	inc.Lat, inc.Long = ParseCoordinates(field(colLat), field(colLong))

	return inc, nil
}

// ParseOccurredOn parses the incident timestamp. The wall clock is kept as
// recorded; a numeric offset only fixes the zone it is expressed in.
func ParseOccurredOn(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s", ErrMissingColumn, colOccurredOnDate)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid occurred_on_date %q", value)
}

// ParseShooting reads the presence/absence encoded shooting flag.
func ParseShooting(value string) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "Y", "YES", "1", "TRUE":
		return true
	default:
		return false
	}
}

// ParseCoordinates returns nil for blank, unparsable or out-of-range pairs.
func ParseCoordinates(latValue, longValue string) (*float64, *float64) {
	if latValue == "" || longValue == "" {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(latValue, 64)
	if err != nil {
		return nil, nil
	}
	long, err := strconv.ParseFloat(longValue, 64)
	if err != nil {
		return nil, nil
	}
	if !s2.LatLngFromDegrees(lat, long).IsValid() {
		return nil, nil
	}
	return &lat, &long
}
