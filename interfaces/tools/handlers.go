package tools

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"skydesk-backend/application/services"
	"skydesk-backend/domain/booking"
	"skydesk-backend/pkg/utils"
)

// BookingOperations is the slice of the application service the tools need.
type BookingOperations interface {
	LookupByFrequentFlyer(ctx context.Context, frequentFlyerNumber string) (services.LookupOutcome, error)
	LookupByBookingReference(ctx context.Context, bookingReference string) (services.LookupOutcome, error)
	CreateSupportTicket(ctx context.Context, issueSummary, bookingReference string) (services.TicketOutcome, error)
	RequestSpecialMeal(ctx context.Context, bookingReference string, meal booking.MealType) (services.MealOutcome, error)
}

// AirlineTools exposes the booking operations as invocable tools.
type AirlineTools struct {
	svc    BookingOperations
	logger *zap.Logger
}

func NewAirlineTools(svc BookingOperations, logger *zap.Logger) *AirlineTools {
	return &AirlineTools{svc: svc, logger: logger}
}

// Specs returns the full tool catalog for registration.
func (t *AirlineTools) Specs() []ToolSpec {
	return []ToolSpec{
		{
			Name:        "userProfileByFrequentFlyerNumber",
			Description: "Retrieve a customer's upcoming flight bookings by frequent flyer number.",
			ReadOnly:    true,
			Idempotent:  true,
			Handler:     t.lookupByFrequentFlyer,
		},
		{
			Name:        "userProfileByBookingReference",
			Description: "Retrieve a customer's upcoming flight bookings by booking reference.",
			ReadOnly:    true,
			Idempotent:  true,
			Handler:     t.lookupByBookingReference,
		},
		{
			Name:        "createSupportTicket",
			Description: "Create a support ticket against an existing booking.",
			Handler:     t.createSupportTicket,
		},
		{
			Name:        "requestForSpecialMeal",
			Description: "Request a special meal for an upcoming booking, subject to the 24 hour cutoff.",
			Idempotent:  true,
			Handler:     t.requestSpecialMeal,
		},
	}
}

type frequentFlyerRequest struct {
	FrequentFlyerNumber string `json:"frequentFlyerNumber" validate:"required"`
}

type bookingReferenceRequest struct {
	BookingReference string `json:"booking_reference" validate:"required"`
}

type supportTicketRequest struct {
	BookingReference string `json:"booking_reference" validate:"required"`
	IssueSummary     string `json:"issue_summary" validate:"required"`
}

type specialMealRequest struct {
	BookingReference string `json:"booking_reference" validate:"required"`
	MealType         string `json:"meal_type" validate:"required,oneof='vegetarian' 'halal' 'fruit salad'"`
}

func (t *AirlineTools) lookupByFrequentFlyer(ctx context.Context, args json.RawMessage) Response {
	var req frequentFlyerRequest
	if resp, ok := decode(args, &req); !ok {
		return resp
	}

	out, err := t.svc.LookupByFrequentFlyer(ctx, req.FrequentFlyerNumber)
	if err != nil {
		t.logger.Error("frequent flyer lookup failed", zap.Error(err))
		return Response{Outcome: OutcomeError, Body: bookingSystemError()}
	}
	if !out.Found {
		return Response{Outcome: OutcomeNotFound, Body: frequentFlyerNotFound(out.SearchValue)}
	}
	return Response{Outcome: OutcomeSuccess, Body: successResponse(flightPayloads(out.Flights))}
}

func (t *AirlineTools) lookupByBookingReference(ctx context.Context, args json.RawMessage) Response {
	var req bookingReferenceRequest
	if resp, ok := decode(args, &req); !ok {
		return resp
	}

	out, err := t.svc.LookupByBookingReference(ctx, req.BookingReference)
	if err != nil {
		t.logger.Error("booking reference lookup failed", zap.Error(err))
		return Response{Outcome: OutcomeError, Body: bookingSystemError()}
	}
	if !out.Found {
		return Response{Outcome: OutcomeNotFound, Body: bookingReferenceNotFound(out.SearchValue)}
	}
	return Response{Outcome: OutcomeSuccess, Body: successResponse(flightPayloads(out.Flights))}
}

func (t *AirlineTools) createSupportTicket(ctx context.Context, args json.RawMessage) Response {
	var req supportTicketRequest
	if resp, ok := decode(args, &req); !ok {
		return resp
	}

	out, err := t.svc.CreateSupportTicket(ctx, req.IssueSummary, req.BookingReference)
	if err != nil {
		t.logger.Error("support ticket creation failed", zap.Error(err))
		return Response{Outcome: OutcomeError, Body: ticketSystemError()}
	}
	if !out.Found {
		return Response{Outcome: OutcomeNotFound, Body: ticketBookingNotFound()}
	}
	return Response{Outcome: OutcomeSuccess, Body: ticketCreated(out.Ticket.ID)}
}

func (t *AirlineTools) requestSpecialMeal(ctx context.Context, args json.RawMessage) Response {
	var req specialMealRequest
	if resp, ok := decode(args, &req); !ok {
		return resp
	}

	out, err := t.svc.RequestSpecialMeal(ctx, req.BookingReference, booking.MealType(req.MealType))
	if err != nil {
		t.logger.Error("special meal request failed", zap.Error(err))
		return Response{Outcome: OutcomeError, Body: bookingSystemError()}
	}
	if !out.Found {
		return Response{Outcome: OutcomeNotFound, Body: mealBookingNotFound(out.SearchValue)}
	}
	if !out.Allowed {
		return Response{Outcome: OutcomeRuleViolation, Body: mealCutoffViolation()}
	}
	// The updated record itself is the contract here, not a status envelope.
	return Response{Outcome: OutcomeSuccess, Body: out.Updated.Payload()}
}

func decode(args json.RawMessage, req interface{}) (Response, bool) {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(args, req); err != nil {
		return Response{Outcome: OutcomeInvalid, Body: invalidRequest("invalid request payload")}, false
	}
	if err := utils.ValidateStruct(req); err != nil {
		return Response{Outcome: OutcomeInvalid, Body: invalidRequest(err.Error())}, false
	}
	return Response{}, true
}

func flightPayloads(records []booking.Record) []map[string]interface{} {
	payloads := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		payloads = append(payloads, rec.Payload())
	}
	return payloads
}
