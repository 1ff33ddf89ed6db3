package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"skydesk-backend/application/ports"
	"skydesk-backend/domain/booking"
	apperrors "skydesk-backend/pkg/errors"
	"skydesk-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// DynamoDBAPI is the slice of the DynamoDB client this repository uses.
type DynamoDBAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// ClientProvider returns a client backed by freshly acquired credentials.
// The repository calls it once per credential-expiry failure.
type ClientProvider func(ctx context.Context) (DynamoDBAPI, error)

// error codes DynamoDB returns when the session token has lapsed
const (
	codeExpiredToken          = "ExpiredToken"
	codeExpiredTokenException = "ExpiredTokenException"
)

// BookingRepository implements ports.BookingRepository against the booking
// table: primary-key queries on frequentFlyerNumber, secondary-index queries
// on bookingReference, and the two conditional mutations.
//
// Any operation failing with an expired-credential code is retried exactly
// once on a fresh client; a second credential failure, and every other
// store-side failure, surfaces as UNAVAILABLE with no further retries.
// Throughput backoff is deliberately left to the caller.
type BookingRepository struct {
	client    DynamoDBAPI
	refresh   ClientProvider
	tableName string
	indexName string
	logger    *zap.Logger
	tracer    *observability.Tracer
}

// NewBookingRepository creates a booking repository. tracer may be nil.
func NewBookingRepository(
	client DynamoDBAPI,
	refresh ClientProvider,
	tableName string,
	indexName string,
	logger *zap.Logger,
	tracer *observability.Tracer,
) ports.BookingRepository {
	return &BookingRepository{
		client:    client,
		refresh:   refresh,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
		tracer:    tracer,
	}
}

// QueryByFrequentFlyer returns every record under the given partition key.
func (r *BookingRepository) QueryByFrequentFlyer(ctx context.Context, frequentFlyerNumber string) ([]booking.Record, error) {
	keyCond := expression.Key("frequentFlyerNumber").Equal(expression.Value(frequentFlyerNumber))
	return r.query(ctx, "QueryByFrequentFlyer", keyCond, "")
}

// QueryByBookingReference queries the GSI keyed on bookingReference.
func (r *BookingRepository) QueryByBookingReference(ctx context.Context, bookingReference string) ([]booking.Record, error) {
	keyCond := expression.Key("bookingReference").Equal(expression.Value(bookingReference))
	return r.query(ctx, "QueryByBookingReference", keyCond, r.indexName)
}

func (r *BookingRepository) query(ctx context.Context, op string, keyCond expression.KeyConditionBuilder, indexName string) ([]booking.Record, error) {
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query expression").WithCause(err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if indexName != "" {
		input.IndexName = aws.String(indexName)
	}

	var records []booking.Record
	err = r.withRetry(ctx, op, func(api DynamoDBAPI) error {
		records = records[:0]
		paginator := dynamodb.NewQueryPaginator(api, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return err
			}
			for _, item := range page.Items {
				rec, err := recordFromItem(item)
				if err != nil {
					return err
				}
				records = append(records, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Booking query completed",
		zap.String("operation", op),
		zap.Int("count", len(records)),
	)
	if records == nil {
		records = []booking.Record{}
	}
	return records, nil
}

// AppendSupportTicket appends the ticket with a single server-side
// list_append, creating the list when the attribute is absent. Two concurrent
// appends to the same record both land; there is no read-modify-write window.
func (r *BookingRepository) AppendSupportTicket(ctx context.Context, key booking.Key, ticket booking.SupportTicket) error {
	update := expression.Set(
		expression.Name("supportTickets"),
		expression.ListAppend(
			expression.IfNotExists(expression.Name("supportTickets"), expression.Value([]booking.SupportTicket{})),
			expression.Value([]booking.SupportTicket{ticket}),
		),
	)
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return apperrors.NewInternalError("failed to build ticket update expression").WithCause(err)
	}

	keyAttrs, err := attributevalue.MarshalMap(key)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal record key").WithCause(err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       keyAttrs,
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	}

	err = r.withRetry(ctx, "AppendSupportTicket", func(api DynamoDBAPI) error {
		_, err := api.UpdateItem(ctx, input)
		return err
	})
	if err != nil {
		return err
	}

	r.logger.Info("Support ticket appended",
		zap.String("bookingReference", key.BookingReference),
		zap.String("ticketID", ticket.ID),
	)
	return nil
}

// SetMealSelection overwrites mealSelected and returns the post-update record.
func (r *BookingRepository) SetMealSelection(ctx context.Context, key booking.Key, meal booking.MealType) (booking.Record, error) {
	update := expression.Set(expression.Name("mealSelected"), expression.Value(string(meal)))
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return booking.Record{}, apperrors.NewInternalError("failed to build meal update expression").WithCause(err)
	}

	keyAttrs, err := attributevalue.MarshalMap(key)
	if err != nil {
		return booking.Record{}, apperrors.NewInternalError("failed to marshal record key").WithCause(err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       keyAttrs,
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	}

	var updated booking.Record
	err = r.withRetry(ctx, "SetMealSelection", func(api DynamoDBAPI) error {
		out, err := api.UpdateItem(ctx, input)
		if err != nil {
			return err
		}
		updated, err = recordFromItem(out.Attributes)
		return err
	})
	if err != nil {
		return booking.Record{}, err
	}

	r.logger.Info("Meal selection written",
		zap.String("bookingReference", key.BookingReference),
		zap.String("mealType", string(meal)),
	)
	return updated, nil
}

// withRetry runs fn and, on an expired-credential failure, runs it once more
// on a freshly credentialed client. Everything else fails straight through.
func (r *BookingRepository) withRetry(ctx context.Context, op string, fn func(api DynamoDBAPI) error) error {
	return r.tracer.Capture(ctx, "dynamodb."+op, func(ctx context.Context) error {
		err := fn(r.client)
		if err == nil {
			return nil
		}

		appErr := classify(err)
		r.logger.Error("DynamoDB operation failed",
			zap.String("operation", op),
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
		if appErr.Type != apperrors.ErrorTypeCredential {
			return appErr
		}

		r.logger.Info("Retrying with refreshed credentials", zap.String("operation", op))
		fresh, provErr := r.refresh(ctx)
		if provErr != nil {
			r.logger.Error("Credential refresh failed", zap.Error(provErr))
			return apperrors.NewUnavailableError("could not refresh store credentials").WithCause(provErr)
		}

		if retryErr := fn(fresh); retryErr != nil {
			retried := classify(retryErr)
			r.logger.Error("DynamoDB retry failed",
				zap.String("operation", op),
				zap.String("code", retried.Code),
				zap.Error(retryErr),
			)
			if retried.Type == apperrors.ErrorTypeCredential {
				// Persistently broken credential source; do not loop.
				return apperrors.NewUnavailableError("store credentials expired after refresh").
					WithCode(retried.Code).WithCause(retryErr)
			}
			return retried
		}
		return nil
	})
}

// classify maps a DynamoDB failure onto the application error taxonomy.
func classify(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch code {
		case codeExpiredToken, codeExpiredTokenException:
			return apperrors.NewCredentialError("store credentials expired").WithCode(code).WithCause(err)
		default:
			return apperrors.NewUnavailableError(apiErr.ErrorMessage()).WithCode(code).WithCause(err)
		}
	}

	return apperrors.NewUnavailableError("store request failed").WithCause(err)
}

// recordFromItem decodes a store item into the typed record while keeping the
// complete item, pass-through fields included, on Attributes.
func recordFromItem(item map[string]types.AttributeValue) (booking.Record, error) {
	var rec booking.Record
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return booking.Record{}, apperrors.NewUnavailableError("malformed booking item").WithCause(fmt.Errorf("unmarshal record: %w", err))
	}
	var attrs map[string]interface{}
	if err := attributevalue.UnmarshalMap(item, &attrs); err != nil {
		return booking.Record{}, apperrors.NewUnavailableError("malformed booking item").WithCause(fmt.Errorf("unmarshal attributes: %w", err))
	}
	rec.Attributes = attrs
	return rec, nil
}
