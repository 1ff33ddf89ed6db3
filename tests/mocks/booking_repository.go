package mocks

import (
	"context"

	"skydesk-backend/domain/booking"
	"skydesk-backend/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockBookingRepository is a testify mock of ports.BookingRepository.
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) QueryByFrequentFlyer(ctx context.Context, frequentFlyerNumber string) ([]booking.Record, error) {
	args := m.Called(ctx, frequentFlyerNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.Record), args.Error(1)
}

func (m *MockBookingRepository) QueryByBookingReference(ctx context.Context, bookingReference string) ([]booking.Record, error) {
	args := m.Called(ctx, bookingReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.Record), args.Error(1)
}

func (m *MockBookingRepository) AppendSupportTicket(ctx context.Context, key booking.Key, ticket booking.SupportTicket) error {
	args := m.Called(ctx, key, ticket)
	return args.Error(0)
}

func (m *MockBookingRepository) SetMealSelection(ctx context.Context, key booking.Key, meal booking.MealType) (booking.Record, error) {
	args := m.Called(ctx, key, meal)
	return args.Get(0).(booking.Record), args.Error(1)
}

// MockEventPublisher is a testify mock of ports.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
