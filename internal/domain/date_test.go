package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-03")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.May, Day: 3}, d)
	assert.Equal(t, "2024-05-03", d.String())

	for _, bad := range []string{"", "2024-5-3", "03/05/2024", "2024-02-30", "2024-05-03T00:00:00Z", "yesterday"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalid, bad)
	}
}

func TestDateAddDaysCrossesMonthAndYear(t *testing.T) {
	assert.Equal(t, MustParseDate("2024-03-01"), MustParseDate("2024-02-29").AddDays(1))
	assert.Equal(t, MustParseDate("2023-12-31"), MustParseDate("2024-01-01").AddDays(-1))
	assert.True(t, MustParseDate("2024-01-01").Before(MustParseDate("2024-01-02")))
	assert.True(t, MustParseDate("2024-01-02").After(MustParseDate("2024-01-01")))
}

func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC).In(loc)
	assert.Equal(t, MustParseDate("2024-05-03"), DateOf(ts))
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-05-01"}`), &payload))
	assert.Equal(t, MustParseDate("2024-05-01"), payload.Date)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-01"}`, string(out))

	err = json.Unmarshal([]byte(`{"date":"2024-13-01"}`), &payload)
	assert.ErrorIs(t, err, ErrInvalid)

	err = json.Unmarshal([]byte(`{"date":20240501}`), &payload)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, MustParseDate("2024-05-01"), d)

	require.NoError(t, d.Scan([]byte("2024-06-02")))
	assert.Equal(t, MustParseDate("2024-06-02"), d)

	require.NoError(t, d.Scan("2024-07-03T00:00:00Z"))
	assert.Equal(t, MustParseDate("2024-07-03"), d)

	assert.Error(t, d.Scan(42))

	v, err := MustParseDate("2024-05-01").Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
