package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("chat-metrics")

// ChatMetrics provides metrics collection for the conversation flow
type ChatMetrics struct {
	sessionsCreatedCounter  metric.Int64Counter
	messagesCounter         metric.Int64Counter
	resourcesCreatedCounter metric.Int64Counter
	resourcesFailedCounter  metric.Int64Counter
	provisionDuration       metric.Float64Histogram
	sessionsActiveGauge     metric.Int64UpDownCounter
}

// NewChatMetrics creates a new chat metrics collector
func NewChatMetrics() (*ChatMetrics, error) {
	sessionsCreatedCounter, err := meter.Int64Counter(
		"azure_chat.sessions.created",
		metric.WithDescription("Total number of chat sessions created"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}

	messagesCounter, err := meter.Int64Counter(
		"azure_chat.messages.processed",
		metric.WithDescription("Total number of chat messages processed"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	resourcesCreatedCounter, err := meter.Int64Counter(
		"azure_chat.resources.created",
		metric.WithDescription("Total number of Azure resources created successfully"),
		metric.WithUnit("{resource}"),
	)
	if err != nil {
		return nil, err
	}

	resourcesFailedCounter, err := meter.Int64Counter(
		"azure_chat.resources.failed",
		metric.WithDescription("Total number of resource creations that failed"),
		metric.WithUnit("{resource}"),
	)
	if err != nil {
		return nil, err
	}

	provisionDuration, err := meter.Float64Histogram(
		"azure_chat.provision.duration",
		metric.WithDescription("Duration of resource provisioning in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	sessionsActiveGauge, err := meter.Int64UpDownCounter(
		"azure_chat.sessions.active",
		metric.WithDescription("Number of currently active chat sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}

	return &ChatMetrics{
		sessionsCreatedCounter:  sessionsCreatedCounter,
		messagesCounter:         messagesCounter,
		resourcesCreatedCounter: resourcesCreatedCounter,
		resourcesFailedCounter:  resourcesFailedCounter,
		provisionDuration:       provisionDuration,
		sessionsActiveGauge:     sessionsActiveGauge,
	}, nil
}

// RecordSessionCreated records a new chat session
func (cm *ChatMetrics) RecordSessionCreated(ctx context.Context) {
	cm.sessionsCreatedCounter.Add(ctx, 1)
	cm.sessionsActiveGauge.Add(ctx, 1)
}

// RecordSessionEnded records a session deletion or expiry
func (cm *ChatMetrics) RecordSessionEnded(ctx context.Context) {
	cm.sessionsActiveGauge.Add(ctx, -1)
}

// RecordMessage records one processed chat message and the state the
// session ended up in
func (cm *ChatMetrics) RecordMessage(ctx context.Context, state string) {
	cm.messagesCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("session.state", state),
		),
	)
}

// RecordResourceCreated records a successful resource creation
func (cm *ChatMetrics) RecordResourceCreated(ctx context.Context, resourceType, region string, duration time.Duration) {
	cm.resourcesCreatedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("resource.type", resourceType),
			attribute.String("resource.region", region),
			attribute.String("status", "created"),
		),
	)
	cm.provisionDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("resource.type", resourceType),
			attribute.String("status", "created"),
		),
	)
}

// RecordResourceFailed records a failed resource creation
func (cm *ChatMetrics) RecordResourceFailed(ctx context.Context, resourceType, errorType string, duration time.Duration) {
	cm.resourcesFailedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("resource.type", resourceType),
			attribute.String("status", "failed"),
			attribute.String("error.type", errorType),
		),
	)
	cm.provisionDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("resource.type", resourceType),
			attribute.String("status", "failed"),
		),
	)
}
