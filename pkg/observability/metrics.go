package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics publishes operational counters to CloudWatch. Emission is best
// effort: a failed put is logged and never fails the operation it measures.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
	logger    *zap.Logger
}

// NewMetrics creates a new metrics publisher
func NewMetrics(client *cloudwatch.Client, namespace string, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordMaintenancePass emits the outcome counters of one deduplication
// pass: categories removed, items moved, and wall-clock duration.
func (m *Metrics) RecordMaintenancePass(ctx context.Context, categoriesRemoved, itemsMoved int, duration time.Duration) {
	if m == nil || m.client == nil {
		return
	}

	now := time.Now()
	data := []types.MetricDatum{
		{
			MetricName: aws.String("CategoriesRemoved"),
			Value:      aws.Float64(float64(categoriesRemoved)),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(now),
		},
		{
			MetricName: aws.String("ItemsMoved"),
			Value:      aws.Float64(float64(itemsMoved)),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(now),
		},
		{
			MetricName: aws.String("MaintenanceDuration"),
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(now),
		},
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	})
	if err != nil {
		m.logger.Warn("failed to publish maintenance metrics", zap.Error(err))
	}
}

// RecordCount emits a single named counter
func (m *Metrics) RecordCount(ctx context.Context, name string, value int) {
	if m == nil || m.client == nil {
		return
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(float64(value)),
				Unit:       types.StandardUnitCount,
				Timestamp:  aws.Time(time.Now()),
			},
		},
	})
	if err != nil {
		m.logger.Warn("failed to publish metric", zap.String("metric", name), zap.Error(err))
	}
}
