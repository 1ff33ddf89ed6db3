package services

import (
	"context"
	"sort"
	"time"

	"skydesk-backend/application/ports"
	"skydesk-backend/domain/booking"
	"skydesk-backend/domain/events"
	apperrors "skydesk-backend/pkg/errors"

	"go.uber.org/zap"
)

// LookupOutcome is the result of an identifier lookup. Found is false when
// the store answered but held no record for the identifier; SearchValue is
// the normalized identifier for the not-found message.
type LookupOutcome struct {
	Found       bool
	SearchValue string
	Flights     []booking.Record
}

// TicketOutcome is the result of a support-ticket creation.
type TicketOutcome struct {
	Found       bool
	SearchValue string
	Ticket      booking.SupportTicket
}

// MealOutcome is the result of a special-meal request. Allowed is meaningful
// only when Found is true; Updated is set only after a successful write.
type MealOutcome struct {
	Found       bool
	SearchValue string
	Allowed     bool
	DenyReason  string
	Updated     booking.Record
}

// BookingService holds the decision logic behind the airline tools: identifier
// normalization, upcoming-flight filtering, the meal-change cutoff, and the
// conditional mutations. Expected business outcomes (not found, rule
// violation) are ordinary result values; errors mean the store could not be
// used.
type BookingService struct {
	repo      ports.BookingRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService creates a booking service. publisher may be nil when no
// event bus is configured.
func NewBookingService(repo ports.BookingRepository, publisher ports.EventPublisher, logger *zap.Logger) *BookingService {
	return &BookingService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// LookupByFrequentFlyer returns the caller's upcoming flights, soonest first.
func (s *BookingService) LookupByFrequentFlyer(ctx context.Context, frequentFlyerNumber string) (LookupOutcome, error) {
	searchValue := booking.Normalize(frequentFlyerNumber)
	if searchValue == "" {
		return LookupOutcome{}, apperrors.NewValidationError("frequent flyer number is empty")
	}

	s.logger.Info("Searching bookings by frequent flyer number",
		zap.String("searchValue", searchValue),
	)

	records, err := s.repo.QueryByFrequentFlyer(ctx, searchValue)
	if err != nil {
		return LookupOutcome{}, err
	}
	return s.lookupOutcome(searchValue, records)
}

// LookupByBookingReference returns the upcoming flights booked under the
// given reference, soonest first.
func (s *BookingService) LookupByBookingReference(ctx context.Context, bookingReference string) (LookupOutcome, error) {
	searchValue := booking.NormalizeBookingReference(bookingReference)
	if searchValue == "" {
		return LookupOutcome{}, apperrors.NewValidationError("booking reference is empty")
	}

	s.logger.Info("Searching bookings by booking reference",
		zap.String("searchValue", searchValue),
	)

	records, err := s.repo.QueryByBookingReference(ctx, searchValue)
	if err != nil {
		return LookupOutcome{}, err
	}
	return s.lookupOutcome(searchValue, records)
}

// lookupOutcome applies the upcoming filter to a non-classified record set.
// An identifier that matched records whose flights have all departed is still
// a successful lookup with an empty list.
func (s *BookingService) lookupOutcome(searchValue string, records []booking.Record) (LookupOutcome, error) {
	if len(records) == 0 {
		s.logger.Info("No booking records found", zap.String("searchValue", searchValue))
		return LookupOutcome{Found: false, SearchValue: searchValue}, nil
	}

	flights, err := booking.Upcoming(records, s.now())
	if err != nil {
		s.logger.Error("Unparsable departure in stored records",
			zap.String("searchValue", searchValue),
			zap.Error(err),
		)
		return LookupOutcome{}, apperrors.NewUnavailableError("stored departure timestamp is malformed").WithCause(err)
	}

	return LookupOutcome{Found: true, SearchValue: searchValue, Flights: flights}, nil
}

// CreateSupportTicket appends an open ticket to the booking identified by the
// reference. With a multi-leg booking the earliest leg carries the ticket;
// legs are ordered by their departure fields so the choice is deterministic.
func (s *BookingService) CreateSupportTicket(ctx context.Context, issueSummary, bookingReference string) (TicketOutcome, error) {
	searchValue := booking.NormalizeBookingReference(bookingReference)
	if searchValue == "" {
		return TicketOutcome{}, apperrors.NewValidationError("booking reference is empty")
	}
	if issueSummary == "" {
		return TicketOutcome{}, apperrors.NewValidationError("issue summary is empty")
	}

	s.logger.Info("Creating support ticket", zap.String("searchValue", searchValue))

	matches, err := s.repo.QueryByBookingReference(ctx, searchValue)
	if err != nil {
		return TicketOutcome{}, err
	}
	if len(matches) == 0 {
		s.logger.Info("No booking found for support ticket", zap.String("searchValue", searchValue))
		return TicketOutcome{Found: false, SearchValue: searchValue}, nil
	}

	sortByDeparture(matches)
	target := matches[0]

	ticket := booking.NewSupportTicket(issueSummary, s.now())
	if err := s.repo.AppendSupportTicket(ctx, target.Key(), ticket); err != nil {
		return TicketOutcome{}, err
	}

	s.publishTicketCreated(ctx, target.BookingReference, ticket)

	s.logger.Info("Support ticket created",
		zap.String("bookingReference", target.BookingReference),
		zap.String("ticketID", ticket.ID),
	)
	return TicketOutcome{Found: true, SearchValue: searchValue, Ticket: ticket}, nil
}

// RequestSpecialMeal sets the meal selection on the earliest upcoming leg of
// the booking, subject to the 24-hour cutoff evaluated against that leg.
func (s *BookingService) RequestSpecialMeal(ctx context.Context, bookingReference string, meal booking.MealType) (MealOutcome, error) {
	searchValue := booking.NormalizeBookingReference(bookingReference)
	if searchValue == "" {
		return MealOutcome{}, apperrors.NewValidationError("booking reference is empty")
	}

	s.logger.Info("Processing special meal request",
		zap.String("searchValue", searchValue),
		zap.String("mealType", string(meal)),
	)

	matches, err := s.repo.QueryByBookingReference(ctx, searchValue)
	if err != nil {
		return MealOutcome{}, err
	}
	if len(matches) == 0 {
		s.logger.Info("No booking found for meal request", zap.String("searchValue", searchValue))
		return MealOutcome{Found: false, SearchValue: searchValue}, nil
	}

	now := s.now()
	upcoming, err := booking.Upcoming(matches, now)
	if err != nil {
		s.logger.Error("Unparsable departure in matched booking",
			zap.String("searchValue", searchValue),
			zap.Error(err),
		)
		return MealOutcome{}, apperrors.NewUnavailableError("stored departure timestamp is malformed").WithCause(err)
	}
	if len(upcoming) == 0 {
		s.logger.Info("Booking has no upcoming legs", zap.String("searchValue", searchValue))
		return MealOutcome{Found: false, SearchValue: searchValue}, nil
	}

	target := upcoming[0]
	departure, err := target.DepartureInstant()
	if err != nil {
		// Upcoming already parsed this record.
		return MealOutcome{}, apperrors.NewInternalError("departure reparse failed").WithCause(err)
	}

	if allowed, reason := booking.CanModifyMeal(departure, now); !allowed {
		s.logger.Info("Meal request rejected by cutoff rule",
			zap.String("bookingReference", target.BookingReference),
			zap.Time("departure", departure),
		)
		return MealOutcome{Found: true, SearchValue: searchValue, Allowed: false, DenyReason: reason}, nil
	}

	updated, err := s.repo.SetMealSelection(ctx, target.Key(), meal)
	if err != nil {
		return MealOutcome{}, err
	}

	s.logger.Info("Meal selection updated",
		zap.String("bookingReference", target.BookingReference),
		zap.String("mealType", string(meal)),
	)
	return MealOutcome{Found: true, SearchValue: searchValue, Allowed: true, Updated: updated}, nil
}

// publishTicketCreated is best effort: a bus failure is logged and the tool
// outcome stays successful, since the ticket is already on the record.
func (s *BookingService) publishTicketCreated(ctx context.Context, bookingReference string, ticket booking.SupportTicket) {
	if s.publisher == nil {
		return
	}
	event := events.NewTicketCreated(bookingReference, ticket.ID, ticket.IssueSummary, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish ticket-created event",
			zap.String("bookingReference", bookingReference),
			zap.String("ticketID", ticket.ID),
			zap.Error(err),
		)
	}
}

// sortByDeparture orders records by their raw departure fields. No parsing:
// ordering stays deterministic even if a record's fields are malformed.
func sortByDeparture(records []booking.Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].DepartureDate != records[j].DepartureDate {
			return records[i].DepartureDate < records[j].DepartureDate
		}
		return records[i].DepartureTime < records[j].DepartureTime
	})
}
