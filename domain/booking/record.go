package booking

import (
	"fmt"
	"math/rand"
	"time"
)

// departureLayout is how departureDate + departureTime combine into an
// instant. Both fields are fixed-width and zero-padded, so string ordering
// matches chronological ordering.
const departureLayout = "2006-01-02 15:04"

// Key is the composite primary key of a booking record. The booking table is
// partitioned on frequentFlyerNumber with bookingReference as the sort key;
// every mutation must be addressed by the full pair.
type Key struct {
	FrequentFlyerNumber string `dynamodbav:"frequentFlyerNumber" json:"frequentFlyerNumber"`
	BookingReference    string `dynamodbav:"bookingReference" json:"bookingReference"`
}

// Record is one passenger-leg booking row. Attributes beyond the typed fields
// are not interpreted by this layer; the full item is carried in Attributes
// so lookups return everything the store holds.
type Record struct {
	FrequentFlyerNumber string          `dynamodbav:"frequentFlyerNumber" json:"frequentFlyerNumber"`
	BookingReference    string          `dynamodbav:"bookingReference" json:"bookingReference"`
	DepartureDate       string          `dynamodbav:"departureDate" json:"departureDate"`
	DepartureTime       string          `dynamodbav:"departureTime" json:"departureTime"`
	MealSelected        string          `dynamodbav:"mealSelected,omitempty" json:"mealSelected,omitempty"`
	SupportTickets      []SupportTicket `dynamodbav:"supportTickets,omitempty" json:"supportTickets,omitempty"`

	// Attributes is the complete store item, including pass-through fields
	// this layer does not model. Populated by the repository; nil for
	// records built in memory.
	Attributes map[string]interface{} `dynamodbav:"-" json:"-"`
}

// Key returns the composite key identifying this record.
func (r Record) Key() Key {
	return Key{
		FrequentFlyerNumber: r.FrequentFlyerNumber,
		BookingReference:    r.BookingReference,
	}
}

// DepartureInstant parses the record's departure date and time as a UTC
// instant. Malformed fields are an error, never silently skipped.
func (r Record) DepartureInstant() (time.Time, error) {
	combined := r.DepartureDate + " " + r.DepartureTime
	t, err := time.ParseInLocation(departureLayout, combined, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid departure timestamp %q for booking %s: %w",
			combined, r.BookingReference, err)
	}
	return t, nil
}

// Payload returns the representation handed back to callers: the full store
// item when available, otherwise the typed fields.
func (r Record) Payload() map[string]interface{} {
	if r.Attributes != nil {
		return r.Attributes
	}
	payload := map[string]interface{}{
		"frequentFlyerNumber": r.FrequentFlyerNumber,
		"bookingReference":    r.BookingReference,
		"departureDate":       r.DepartureDate,
		"departureTime":       r.DepartureTime,
	}
	if r.MealSelected != "" {
		payload["mealSelected"] = r.MealSelected
	}
	if len(r.SupportTickets) > 0 {
		payload["supportTickets"] = r.SupportTickets
	}
	return payload
}

// TicketStatusOpen is the status assigned to every newly filed ticket. Status
// transitions happen in downstream support tooling, not here.
const TicketStatusOpen = "open"

// SupportTicket is one entry of a record's append-only supportTickets list.
type SupportTicket struct {
	ID           string `dynamodbav:"id" json:"id"`
	Timestamp    string `dynamodbav:"timestamp" json:"timestamp"`
	IssueSummary string `dynamodbav:"issueSummary" json:"issueSummary"`
	Status       string `dynamodbav:"status" json:"status"`
}

// NewSupportTicket builds an open ticket with a random 6-digit ID and an
// RFC 3339 timestamp.
func NewSupportTicket(issueSummary string, now time.Time) SupportTicket {
	return SupportTicket{
		ID:           fmt.Sprintf("%06d", rand.Intn(900000)+100000),
		Timestamp:    now.UTC().Format(time.RFC3339),
		IssueSummary: issueSummary,
		Status:       TicketStatusOpen,
	}
}

// MealType is a special meal selection.
type MealType string

const (
	MealVegetarian MealType = "vegetarian"
	MealHalal      MealType = "halal"
	MealFruitSalad MealType = "fruit salad"
)
