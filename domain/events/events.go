package events

import (
	"time"
)

// Source identifies this service on the event bus.
const Source = "skydesk.booking-tools"

// DomainEvent is implemented by everything published to the integration bus.
// Events describe something that already happened; consumers (such as the
// support case-creation flow) react to them downstream.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides the common event fields.
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string   { return e.AggregateID }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time  { return e.Timestamp }

// TicketCreated is raised after a support ticket has been appended to a
// booking record.
type TicketCreated struct {
	BaseEvent
	BookingReference string `json:"booking_reference"`
	TicketID         string `json:"ticket_id"`
	IssueSummary     string `json:"issue_summary"`
}

// NewTicketCreated builds a TicketCreated event keyed by booking reference.
func NewTicketCreated(bookingReference, ticketID, issueSummary string, timestamp time.Time) TicketCreated {
	return TicketCreated{
		BaseEvent: BaseEvent{
			AggregateID: bookingReference,
			EventType:   "booking.ticket.created",
			Timestamp:   timestamp,
		},
		BookingReference: bookingReference,
		TicketID:         ticketID,
		IssueSummary:     issueSummary,
	}
}
