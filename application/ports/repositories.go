// Package ports defines the interfaces the application layer depends on.
// Infrastructure adapters implement them; tests substitute mocks.
package ports

import (
	"context"

	"skydesk-backend/domain/booking"
	"skydesk-backend/domain/events"
)

// BookingRepository is the booking-table access port.
//
// Both queries return an empty slice, not an error, when nothing matches;
// callers distinguish "no results" from "store unavailable" by the error.
// Implementations classify failures into the pkg/errors taxonomy and retry a
// credential-expiry failure exactly once before surfacing it.
type BookingRepository interface {
	// QueryByFrequentFlyer returns every record sharing the given partition
	// key (one per booked leg).
	QueryByFrequentFlyer(ctx context.Context, frequentFlyerNumber string) ([]booking.Record, error)

	// QueryByBookingReference queries the secondary index keyed on
	// bookingReference.
	QueryByBookingReference(ctx context.Context, bookingReference string) ([]booking.Record, error)

	// AppendSupportTicket appends the ticket to the record's supportTickets
	// list as a single atomic server-side update, creating the list when
	// absent. Concurrent appends to the same booking must not lose tickets.
	AppendSupportTicket(ctx context.Context, key booking.Key, ticket booking.SupportTicket) error

	// SetMealSelection overwrites mealSelected and returns the full
	// post-update record.
	SetMealSelection(ctx context.Context, key booking.Key, meal booking.MealType) (booking.Record, error)
}

// EventPublisher pushes integration events to the bus consumed by downstream
// support tooling. Publishing is best effort from the caller's perspective.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}
