package services

import (
	"context"
	"testing"
	"time"

	"skydesk-backend/domain/booking"
	"skydesk-backend/domain/events"
	apperrors "skydesk-backend/pkg/errors"
	"skydesk-backend/tests/fixtures"
	"skydesk-backend/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(repo *mocks.MockBookingRepository) *BookingService {
	return NewBookingService(repo, nil, zap.NewNop())
}

func TestLookupByFrequentFlyer_NormalizesAndSorts(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)

	later := fixtures.NewRecordBuilder().WithBookingReference("LEG2").WithDeparture("2099-03-01", "08:00").Build()
	sooner := fixtures.NewRecordBuilder().WithBookingReference("LEG1").WithDeparture("2099-01-01", "10:00").Build()
	departed := fixtures.NewRecordBuilder().WithBookingReference("OLD1").WithDeparture("2001-01-01", "10:00").Build()

	repo.On("QueryByFrequentFlyer", ctx, "123456").
		Return([]booking.Record{later, departed, sooner}, nil)

	out, err := newService(repo).LookupByFrequentFlyer(ctx, " 12-34.56 ")
	require.NoError(t, err)

	assert.True(t, out.Found)
	assert.Equal(t, "123456", out.SearchValue)
	require.Len(t, out.Flights, 2)
	assert.Equal(t, "LEG1", out.Flights[0].BookingReference)
	assert.Equal(t, "LEG2", out.Flights[1].BookingReference)
	repo.AssertExpectations(t)
}

func TestLookupByFrequentFlyer_NotFoundKeepsSearchValue(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)
	repo.On("QueryByFrequentFlyer", ctx, "123456").Return([]booking.Record{}, nil)

	out, err := newService(repo).LookupByFrequentFlyer(ctx, "123456")
	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Equal(t, "123456", out.SearchValue)
}

func TestLookupByFrequentFlyer_AllLegsDepartedIsStillFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)
	departed := fixtures.NewRecordBuilder().WithDeparture("2001-01-01", "10:00").Build()
	repo.On("QueryByFrequentFlyer", ctx, "123456").Return([]booking.Record{departed}, nil)

	out, err := newService(repo).LookupByFrequentFlyer(ctx, "123456")
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Empty(t, out.Flights)
}

func TestLookupByFrequentFlyer_EmptyIdentifier(t *testing.T) {
	repo := new(mocks.MockBookingRepository)
	_, err := newService(repo).LookupByFrequentFlyer(context.Background(), " - . ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	repo.AssertNotCalled(t, "QueryByFrequentFlyer", mock.Anything, mock.Anything)
}

func TestLookupByFrequentFlyer_MalformedStoredDeparture(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)
	bad := fixtures.NewRecordBuilder().WithDeparture("tomorrow", "noonish").Build()
	repo.On("QueryByFrequentFlyer", ctx, "123456").Return([]booking.Record{bad}, nil)

	_, err := newService(repo).LookupByFrequentFlyer(ctx, "123456")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
}

func TestLookupByBookingReference_Uppercases(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)
	rec := fixtures.NewRecordBuilder().Build()
	repo.On("QueryByBookingReference", ctx, "KYH7BH").Return([]booking.Record{rec}, nil)

	out, err := newService(repo).LookupByBookingReference(ctx, "kyh-7bh")
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Equal(t, "KYH7BH", out.SearchValue)
	repo.AssertExpectations(t)
}

func TestLookup_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)
	repo.On("QueryByBookingReference", ctx, "KYH7BH").
		Return(nil, apperrors.NewUnavailableError("query failed"))

	_, err := newService(repo).LookupByBookingReference(ctx, "KYH7BH")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
}

func TestCreateSupportTicket_AppendsToEarliestLeg(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)

	leg2 := fixtures.NewRecordBuilder().WithFrequentFlyer("FF2").WithDeparture("2099-05-01", "08:00").Build()
	leg1 := fixtures.NewRecordBuilder().WithFrequentFlyer("FF1").WithDeparture("2099-01-01", "10:00").Build()

	repo.On("QueryByBookingReference", ctx, "KYH7BH").Return([]booking.Record{leg2, leg1}, nil)

	var appended booking.SupportTicket
	repo.On("AppendSupportTicket", ctx, leg1.Key(), mock.AnythingOfType("booking.SupportTicket")).
		Run(func(args mock.Arguments) {
			appended = args.Get(2).(booking.SupportTicket)
		}).
		Return(nil)

	out, err := newService(repo).CreateSupportTicket(ctx, "seat reclined into the bulkhead", "kyh 7bh")
	require.NoError(t, err)

	assert.True(t, out.Found)
	assert.Regexp(t, `^\d{6}$`, out.Ticket.ID)
	assert.Equal(t, appended.ID, out.Ticket.ID)
	assert.Equal(t, "seat reclined into the bulkhead", appended.IssueSummary)
	assert.Equal(t, booking.TicketStatusOpen, appended.Status)
	repo.AssertExpectations(t)
}

func TestCreateSupportTicket_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)
	repo.On("QueryByBookingReference", ctx, "ZZZZZZ").Return([]booking.Record{}, nil)

	out, err := newService(repo).CreateSupportTicket(ctx, "lost bag", "zz-zzzz")
	require.NoError(t, err)
	assert.False(t, out.Found)
	repo.AssertNotCalled(t, "AppendSupportTicket", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSupportTicket_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)
	publisher := new(mocks.MockEventPublisher)

	rec := fixtures.NewRecordBuilder().Build()
	repo.On("QueryByBookingReference", ctx, "KYH7BH").Return([]booking.Record{rec}, nil)
	repo.On("AppendSupportTicket", ctx, rec.Key(), mock.AnythingOfType("booking.SupportTicket")).Return(nil)
	publisher.On("Publish", ctx, mock.MatchedBy(func(e events.DomainEvent) bool {
		return e.GetEventType() == "booking.ticket.created" && e.GetAggregateID() == "KYH7BH"
	})).Return(nil)

	svc := NewBookingService(repo, publisher, zap.NewNop())
	out, err := svc.CreateSupportTicket(ctx, "wheelchair assistance", "KYH7BH")
	require.NoError(t, err)
	assert.True(t, out.Found)
	publisher.AssertExpectations(t)
}

func TestCreateSupportTicket_PublishFailureDoesNotFailTicket(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)
	publisher := new(mocks.MockEventPublisher)

	rec := fixtures.NewRecordBuilder().Build()
	repo.On("QueryByBookingReference", ctx, "KYH7BH").Return([]booking.Record{rec}, nil)
	repo.On("AppendSupportTicket", ctx, rec.Key(), mock.AnythingOfType("booking.SupportTicket")).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(apperrors.NewUnavailableError("bus down"))

	svc := NewBookingService(repo, publisher, zap.NewNop())
	out, err := svc.CreateSupportTicket(ctx, "broken tray table", "KYH7BH")
	require.NoError(t, err)
	assert.True(t, out.Found)
}

func TestRequestSpecialMeal_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)

	rec := fixtures.NewRecordBuilder().Build() // departs 2099-01-01 10:00
	updated := rec
	updated.MealSelected = string(booking.MealHalal)

	repo.On("QueryByBookingReference", ctx, "KYH7BH").Return([]booking.Record{rec}, nil)
	repo.On("SetMealSelection", ctx, rec.Key(), booking.MealHalal).Return(updated, nil)

	out, err := newService(repo).RequestSpecialMeal(ctx, "KYH-7BH", booking.MealHalal)
	require.NoError(t, err)

	assert.True(t, out.Found)
	assert.True(t, out.Allowed)
	assert.Equal(t, "halal", out.Updated.MealSelected)
	repo.AssertExpectations(t)
}

func TestRequestSpecialMeal_InsideCutoffPerformsNoWrite(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)

	rec := fixtures.NewRecordBuilder().DepartingIn(2 * time.Hour).Build()
	repo.On("QueryByBookingReference", ctx, "KYH7BH").Return([]booking.Record{rec}, nil)

	out, err := newService(repo).RequestSpecialMeal(ctx, "KYH7BH", booking.MealVegetarian)
	require.NoError(t, err)

	assert.True(t, out.Found)
	assert.False(t, out.Allowed)
	assert.NotEmpty(t, out.DenyReason)
	repo.AssertNotCalled(t, "SetMealSelection", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestSpecialMeal_ChecksRuleAgainstEarliestUpcomingLeg(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)

	soon := fixtures.NewRecordBuilder().WithFrequentFlyer("FF1").DepartingIn(3 * time.Hour).Build()
	far := fixtures.NewRecordBuilder().WithFrequentFlyer("FF2").DepartingIn(72 * time.Hour).Build()

	// Index order lists the far leg first; the rule must still bind to the
	// earliest upcoming leg.
	repo.On("QueryByBookingReference", ctx, "KYH7BH").Return([]booking.Record{far, soon}, nil)

	out, err := newService(repo).RequestSpecialMeal(ctx, "KYH7BH", booking.MealFruitSalad)
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.False(t, out.Allowed)
	repo.AssertNotCalled(t, "SetMealSelection", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestSpecialMeal_OnlyDepartedLegsIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)

	departed := fixtures.NewRecordBuilder().WithDeparture("2001-01-01", "10:00").Build()
	repo.On("QueryByBookingReference", ctx, "KYH7BH").Return([]booking.Record{departed}, nil)

	out, err := newService(repo).RequestSpecialMeal(ctx, "KYH7BH", booking.MealHalal)
	require.NoError(t, err)
	assert.False(t, out.Found)
}

func TestRequestSpecialMeal_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)
	repo.On("QueryByBookingReference", ctx, "ABCDEF").Return([]booking.Record{}, nil)

	out, err := newService(repo).RequestSpecialMeal(ctx, "abc-def", booking.MealVegetarian)
	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Equal(t, "ABCDEF", out.SearchValue)
}

func TestConcurrentTicketAppendsAllRecorded(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockBookingRepository)
	rec := fixtures.NewRecordBuilder().Build()

	repo.On("QueryByBookingReference", ctx, "KYH7BH").Return([]booking.Record{rec}, nil)
	repo.On("AppendSupportTicket", ctx, rec.Key(), mock.AnythingOfType("booking.SupportTicket")).Return(nil)

	svc := newService(repo)

	const appends = 8
	done := make(chan error, appends)
	for i := 0; i < appends; i++ {
		go func() {
			_, err := svc.CreateSupportTicket(ctx, "duplicate charge", "KYH7BH")
			done <- err
		}()
	}
	for i := 0; i < appends; i++ {
		require.NoError(t, <-done)
	}

	// Every successful call issued its own append; none were coalesced into
	// a client-side read-modify-write.
	repo.AssertNumberOfCalls(t, "AppendSupportTicket", appends)
}
