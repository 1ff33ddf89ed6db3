package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leg(ref, date, tm string) Record {
	return Record{
		FrequentFlyerNumber: "123456",
		BookingReference:    ref,
		DepartureDate:       date,
		DepartureTime:       tm,
	}
}

func TestUpcoming_FiltersAndSorts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	records := []Record{
		leg("LEG3", "2025-07-01", "08:00"),
		leg("PAST", "2025-05-01", "10:00"),
		leg("LEG1", "2025-06-02", "09:00"),
		leg("LEG2", "2025-06-02", "18:30"),
	}

	got, err := Upcoming(records, now)
	require.NoError(t, err)

	refs := make([]string, 0, len(got))
	for _, r := range got {
		refs = append(refs, r.BookingReference)
	}
	assert.Equal(t, []string{"LEG1", "LEG2", "LEG3"}, refs)
}

func TestUpcoming_StrictlyAfterNow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Departing exactly at now is not upcoming.
	got, err := Upcoming([]Record{leg("X", "2025-06-01", "12:00")}, now)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Upcoming([]Record{leg("X", "2025-06-01", "12:01")}, now)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUpcoming_MalformedDepartureFailsBatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	records := []Record{
		leg("OK", "2025-07-01", "08:00"),
		leg("BAD", "01/07/2025", "8am"),
	}

	got, err := Upcoming(records, now)
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "BAD")
}

func TestUpcoming_EmptyInput(t *testing.T) {
	got, err := Upcoming(nil, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDepartureInstant_ParsesUTC(t *testing.T) {
	rec := leg("KYH7BH", "2099-01-01", "10:00")
	departure, err := rec.DepartureInstant()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2099, 1, 1, 10, 0, 0, 0, time.UTC), departure)
}
