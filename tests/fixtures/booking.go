package fixtures

import (
	"time"

	"skydesk-backend/domain/booking"
)

// RecordBuilder builds booking records for tests.
type RecordBuilder struct {
	record booking.Record
}

// NewRecordBuilder starts a builder with sane defaults.
func NewRecordBuilder() *RecordBuilder {
	return &RecordBuilder{
		record: booking.Record{
			FrequentFlyerNumber: "123456",
			BookingReference:    "KYH7BH",
			DepartureDate:       "2099-01-01",
			DepartureTime:       "10:00",
		},
	}
}

// WithFrequentFlyer sets the partition key.
func (b *RecordBuilder) WithFrequentFlyer(ffn string) *RecordBuilder {
	b.record.FrequentFlyerNumber = ffn
	return b
}

// WithBookingReference sets the sort key.
func (b *RecordBuilder) WithBookingReference(ref string) *RecordBuilder {
	b.record.BookingReference = ref
	return b
}

// WithDeparture sets the raw departure fields.
func (b *RecordBuilder) WithDeparture(date, tm string) *RecordBuilder {
	b.record.DepartureDate = date
	b.record.DepartureTime = tm
	return b
}

// DepartingIn sets departure relative to now, truncated to the stored
// minute precision.
func (b *RecordBuilder) DepartingIn(d time.Duration) *RecordBuilder {
	departure := time.Now().UTC().Add(d)
	b.record.DepartureDate = departure.Format("2006-01-02")
	b.record.DepartureTime = departure.Format("15:04")
	return b
}

// WithMeal sets the current meal selection.
func (b *RecordBuilder) WithMeal(meal string) *RecordBuilder {
	b.record.MealSelected = meal
	return b
}

// WithTickets sets the existing support tickets.
func (b *RecordBuilder) WithTickets(tickets ...booking.SupportTicket) *RecordBuilder {
	b.record.SupportTickets = tickets
	return b
}

// Build returns the record.
func (b *RecordBuilder) Build() booking.Record {
	return b.record
}
