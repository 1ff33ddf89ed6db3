package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchAPI is the slice of the CloudWatch client this package uses.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics publishes per-tool invocation metrics to CloudWatch. A nil *Metrics
// records nothing. Publishing is best effort: a metrics failure is logged and
// never affects the tool outcome.
type Metrics struct {
	client    CloudWatchAPI
	namespace string
	logger    *zap.Logger
}

// NewMetrics creates a CloudWatch-backed metrics publisher.
func NewMetrics(client CloudWatchAPI, namespace string, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordToolInvocation emits count and latency datapoints for one tool call.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool, outcome string, duration time.Duration) {
	if m == nil {
		return
	}

	dimensions := []types.Dimension{
		{Name: aws.String("Tool"), Value: aws.String(tool)},
		{Name: aws.String("Outcome"), Value: aws.String(outcome)},
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("ToolInvocations"),
				Dimensions: dimensions,
				Value:      aws.Float64(1),
				Unit:       types.StandardUnitCount,
			},
			{
				MetricName: aws.String("ToolLatency"),
				Dimensions: dimensions,
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       types.StandardUnitMilliseconds,
			},
		},
	})
	if err != nil {
		m.logger.Warn("Failed to publish tool metrics",
			zap.String("tool", tool),
			zap.Error(err),
		)
	}
}
