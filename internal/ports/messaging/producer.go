package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// NotifyProducer publishes events for the notify worker to one SQS queue.
type NotifyProducer struct {
	sender         MessageSender
	notifyQueueURL string
}

func NewProducer(sender MessageSender, notifyQueueURL string) *NotifyProducer {
	return &NotifyProducer{
		sender:         sender,
		notifyQueueURL: notifyQueueURL,
	}
}

func NewSQSProducer(client SQSClient, notifyQueueURL string) *NotifyProducer {
	return NewProducer(&SQSSender{client: client}, notifyQueueURL)
}

func (p *NotifyProducer) PublishNotificacion(ctx context.Context, body interface{}) error {
	return p.publish(ctx, p.notifyQueueURL, body)
}

func (p *NotifyProducer) publish(ctx context.Context, destination string, body interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}

	// Enrich the current span with empleado_id if available
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		var payload struct {
			EmpleadoID int64 `json:"empleadoId"`
		}
		if err := json.Unmarshal(b, &payload); err == nil && payload.EmpleadoID != 0 {
			span.SetAttributes(attribute.Int64("app.empleadoId", payload.EmpleadoID))
		}
	}

	if err := p.sender.SendMessage(ctx, destination, b); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
