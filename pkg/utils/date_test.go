package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradingDate(t *testing.T) {
	loc, err := time.LoadLocation(MarketTimezone)
	require.NoError(t, err)

	afternoon := time.Date(2026, 1, 8, 16, 30, 12, 0, loc)
	date := TradingDate(afternoon)

	assert.Equal(t, time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), date)
	assert.Equal(t, time.UTC, date.Location())
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2026-01-08")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), date)
}

func TestParseDateRejectsOtherFormats(t *testing.T) {
	for _, bad := range []string{"01/08/2026", "2026-1-8", "today", "20260108"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	date, err := ParseDate("2026-01-08")
	require.NoError(t, err)

	assert.Equal(t, "2026-01-08", FormatDate(date))
}
