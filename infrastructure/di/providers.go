package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"skydesk-backend/application/ports"
	"skydesk-backend/application/services"
	"skydesk-backend/infrastructure/config"
	"skydesk-backend/infrastructure/messaging/eventbridge"
	"skydesk-backend/infrastructure/persistence/dynamodb"
	"skydesk-backend/interfaces/tools"
	"skydesk-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideClientProvider builds the refresh hook the repository uses after a
// credential expiry: a fresh default config picks up rotated credentials.
func ProvideClientProvider(cfg *config.Config) dynamodb.ClientProvider {
	return func(ctx context.Context) (dynamodb.DynamoDBAPI, error) {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.AWSRegion),
		)
		if err != nil {
			return nil, err
		}
		return awsdynamodb.NewFromConfig(awsCfg), nil
	}
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideTracer creates the X-Ray tracer, or nil when tracing is disabled.
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer("skydesk-booking-tools")
}

// ProvideMetrics creates the CloudWatch metrics emitter, or nil when
// metrics are disabled.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics(client, cfg.MetricsNamespace, logger)
}

// ProvideBookingRepository creates the booking record store client.
func ProvideBookingRepository(
	client *awsdynamodb.Client,
	refresh dynamodb.ClientProvider,
	cfg *config.Config,
	logger *zap.Logger,
	tracer *observability.Tracer,
) ports.BookingRepository {
	return dynamodb.NewBookingRepository(client, refresh, cfg.DynamoDBTable, cfg.IndexName, logger, tracer)
}

// ProvideEventPublisher creates the integration event publisher, or nil when
// no event bus is configured. The service treats a nil publisher as a no-op.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideBookingService creates the application service
func ProvideBookingService(
	repo ports.BookingRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.BookingService {
	return services.NewBookingService(repo, publisher, logger)
}

// ProvideToolRegistry builds the registry with the airline tools registered.
func ProvideToolRegistry(
	svc *services.BookingService,
	logger *zap.Logger,
	metrics *observability.Metrics,
) (*tools.Registry, error) {
	registry := tools.NewRegistry(logger, metrics)
	if err := registry.RegisterAll(tools.NewAirlineTools(svc, logger).Specs()); err != nil {
		return nil, err
	}
	return registry, nil
}
