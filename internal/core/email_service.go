package core

import (
	"context"
	"fmt"

	"github.com/Jorge200118/checador-qr/internal/core/asistencia"
	"github.com/Jorge200118/checador-qr/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type EmailService interface {
	EnviarResumenSalida(ctx context.Context, destinatario string, minutos int) error
}

type SESEmailService struct {
	client *ses.Client
	sender string
}

func NewSESEmailService(client *ses.Client, sender string) *SESEmailService {
	return &SESEmailService{client: client, sender: sender}
}

func (s *SESEmailService) EnviarResumenSalida(ctx context.Context, destinatario string, minutos int) error {
	tracer := otel.Tracer("ses-email-service")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	// Enrich span with empleadoId if available in context
	if empID := telemetry.EmpleadoIDFromContext(ctx); empID != "" {
		span.SetAttributes(attribute.String("app.empleadoId", empID))
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{destinatario},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Resumen de jornada"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(fmt.Sprintf("Hola,\n\nTu salida quedo registrada. Tiempo trabajado: %s.",
						asistencia.FormatearMinutos(minutos))),
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}
