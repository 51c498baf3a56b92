package loader

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/jengzang/crimestats-backend-go/internal/database"
	"github.com/jengzang/crimestats-backend-go/internal/logging"
	"github.com/jengzang/crimestats-backend-go/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `INCIDENT_NUMBER,OFFENSE_CODE,OFFENSE_CODE_GROUP,OFFENSE_DESCRIPTION,DISTRICT,REPORTING_AREA,SHOOTING,OCCURRED_ON_DATE,YEAR,MONTH,DAY_OF_WEEK,HOUR,UCR_PART,STREET,Lat,Long,Location
I182070945,619,Larceny,LARCENY ALL OTHERS,D14,808,,2018-09-02 13:00:00,2018,9,Sunday,13,Part One,LINCOLN ST,42.35779134,-71.13937053,"(42.35779134, -71.13937053)"
I182070943,1402,Vandalism,VANDALISM,C11,347,Y,2018-08-21 00:00:00,2018,8,Tuesday,0,Part Two,HECLA ST,42.30682138,-71.06030035,"(42.30682138, -71.06030035)"
I182070941,3410,Towed,TOWED MOTOR VEHICLE,,151,N,2018-09-03 19:27:00,2018,9,Monday,19,Part Three,CAZENOVE ST,,,"(0.00000000, 0.00000000)"
I182070940,3114,Investigate Property,INVESTIGATE PROPERTY,D4,272,,not a date,2018,9,Monday,21,Part Three,NEWCOMB ST,42.33418175,-71.07866441,"(42.33418175, -71.07866441)"
I182070938,3114,Investigate Property,INVESTIGATE PROPERTY,B3,421,1,2019-12-20 03:08:00+00,2019,12,Friday,3,Part Three,DELHI ST,142.27536542,-71.09036101,"(42.27536542, -71.09036101)"
`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.Config{Path: database.MemoryPath}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoad_SampleFile(t *testing.T) {
	db := newTestDB(t)
	l := New(db, 2, logging.Discard())

	report, err := l.WithEncoding(EncodingUTF8).Load(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, &Report{Read: 5, Inserted: 4, Skipped: 1}, report)

	var shootings int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM crimes WHERE shooting = 1`).Scan(&shootings))
	assert.Equal(t, 2, shootings)

	var nullDistricts int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM crimes WHERE district IS NULL`).Scan(&nullDistricts))
	assert.Equal(t, 1, nullDistricts)

	var nullCoords int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM crimes WHERE lat IS NULL AND long IS NULL`).Scan(&nullCoords))
	assert.Equal(t, 2, nullCoords, "blank and out-of-range coordinates")

	repo := repository.NewIncidentRepository(db, nil)
	districts, err := repo.AvailableDistricts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"B3", "C11", "D14", "Unknown"}, districts)
}

func TestLoad_DerivesWeekdayFromTimestamp(t *testing.T) {
	db := newTestDB(t)
	csv := "OCCURRED_ON_DATE,DAY_OF_WEEK,HOUR\n2023-01-08 23:10:00,Monday,4\n"

	_, err := New(db, 10, logging.Discard()).Load(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	var day string
	var hour int
	require.NoError(t, db.QueryRow(`SELECT day_of_week, hour FROM crimes`).Scan(&day, &hour))
	assert.Equal(t, "Sunday", day)
	assert.Equal(t, 23, hour)
}

func TestLoad_Latin1(t *testing.T) {
	db := newTestDB(t)

	var buf bytes.Buffer
	buf.WriteString("OCCURRED_ON_DATE,STREET\n2023-01-02 10:00:00,CAF")
	buf.WriteByte(0xC9) // É in ISO-8859-1
	buf.WriteString(" ST\n")

	report, err := New(db, 10, logging.Discard()).Load(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)

	var street string
	require.NoError(t, db.QueryRow(`SELECT street FROM crimes`).Scan(&street))
	assert.Equal(t, "CAFÉ ST", street)
}

func TestLoad_MissingDateColumn(t *testing.T) {
	db := newTestDB(t)

	_, err := New(db, 10, logging.Discard()).Load(context.Background(), strings.NewReader("DISTRICT,SHOOTING\nA,Y\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoad_CancelledContext(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(db, 10, logging.Discard()).WithEncoding(EncodingUTF8).Load(ctx, strings.NewReader(sampleCSV))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeHeader(t *testing.T) {
	columns := NormalizeHeader([]string{"\ufeffINCIDENT_NUMBER", " Lat ", "Long", "lat"})
	assert.Equal(t, map[string]int{"incident_number": 0, "lat": 1, "long": 2}, columns)
}

func TestParseShooting(t *testing.T) {
	for _, v := range []string{"Y", "y", "1", "TRUE", "yes"} {
		assert.True(t, ParseShooting(v), v)
	}
	for _, v := range []string{"", "N", "0", "false", "maybe"} {
		assert.False(t, ParseShooting(v), v)
	}
}

func TestParseCoordinates(t *testing.T) {
	lat, long := ParseCoordinates("42.35", "-71.13")
	require.NotNil(t, lat)
	require.NotNil(t, long)
	assert.Equal(t, 42.35, *lat)
	assert.Equal(t, -71.13, *long)

	lat, long = ParseCoordinates("", "-71.13")
	assert.Nil(t, lat)
	assert.Nil(t, long)

	lat, long = ParseCoordinates("95", "10")
	assert.Nil(t, lat)
	assert.Nil(t, long)

	lat, _ = ParseCoordinates("north", "10")
	assert.Nil(t, lat)
}

func TestParseOccurredOn(t *testing.T) {
	tests := []struct {
		value    string
		wantHour int
	}{
		{"2019-12-02 13:00:00", 13},
		{"2019-12-20 03:08:00+00", 3},
		{"2019-12-20 03:08:00-05:00", 3},
		{"2019-12-20T03:08:00Z", 3},
		{"2019-12-20", 0},
	}
	for _, tt := range tests {
		got, err := ParseOccurredOn(tt.value)
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.wantHour, got.Hour(), tt.value)
		assert.Equal(t, time.December, got.Month(), tt.value)
	}

	_, err := ParseOccurredOn("")
	assert.ErrorIs(t, err, ErrMissingColumn)
	_, err = ParseOccurredOn("02/09/2018")
	assert.Error(t, err)
}
