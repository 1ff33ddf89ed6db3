package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"skydesk-backend/application/ports"
	"skydesk-backend/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// EventBridgeAPI is the slice of the EventBridge client this package uses.
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher pushes booking integration events onto an EventBridge bus, where
// downstream support tooling (ticket triage, case creation) picks them up.
type Publisher struct {
	client       EventBridgeAPI
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates an EventBridge-backed event publisher.
func NewPublisher(client EventBridgeAPI, eventBusName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// Publish sends one event to the bus.
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.GetEventType(), err)
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.eventBusName),
				Source:       aws.String(events.Source),
				DetailType:   aws.String(event.GetEventType()),
				Detail:       aws.String(string(detail)),
				Time:         aws.Time(event.GetTimestamp()),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.GetEventType(), err)
	}
	if out.FailedEntryCount > 0 {
		entry := out.Entries[0]
		return fmt.Errorf("event bus rejected %s: %s", event.GetEventType(), aws.ToString(entry.ErrorMessage))
	}

	p.logger.Debug("Published integration event",
		zap.String("eventType", event.GetEventType()),
		zap.String("aggregateID", event.GetAggregateID()),
	)
	return nil
}
