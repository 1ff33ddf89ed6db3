package booking

import (
	"sort"
	"time"
)

// Upcoming filters records to those departing strictly after now and returns
// them ordered soonest-first. Both departure fields are zero-padded, so the
// sort compares the raw strings.
//
// A record with a malformed departure date or time fails the whole call:
// dropping it silently would make a booked flight disappear from the
// passenger's view.
func Upcoming(records []Record, now time.Time) ([]Record, error) {
	upcoming := make([]Record, 0, len(records))
	for _, rec := range records {
		departure, err := rec.DepartureInstant()
		if err != nil {
			return nil, err
		}
		if departure.After(now) {
			upcoming = append(upcoming, rec)
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		if upcoming[i].DepartureDate != upcoming[j].DepartureDate {
			return upcoming[i].DepartureDate < upcoming[j].DepartureDate
		}
		return upcoming[i].DepartureTime < upcoming[j].DepartureTime
	})

	return upcoming, nil
}
