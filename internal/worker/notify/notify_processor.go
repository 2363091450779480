package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Jorge200118/checador-qr/internal/core"
	"github.com/Jorge200118/checador-qr/internal/core/model"
	"github.com/Jorge200118/checador-qr/internal/ports/messaging"
	"github.com/Jorge200118/checador-qr/internal/ports/repository"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// NotifyProcessor handles salida events from the notify queue: it sends the
// shift summary email once per registro. SES sits behind a circuit breaker
// so a mail outage doesn't turn into a hammering retry storm.
type NotifyProcessor struct {
	emailService core.EmailService
	repo         repository.Repository
	dominio      string
	cb           *gobreaker.CircuitBreaker
}

// NewProcessor sets up the processor for the notify queue. dominio is the
// mail domain appended to employee codes to form recipient addresses.
func NewProcessor(emailService core.EmailService, repo repository.Repository, dominio string) *NotifyProcessor {
	settings := gobreaker.Settings{
		Name:        "SES-Notify",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate exceeds 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &NotifyProcessor{
		emailService: emailService,
		repo:         repo,
		dominio:      dominio,
		cb:           gobreaker.NewCircuitBreaker(settings),
	}
}

// Process handles one message from the notify queue. The registro's
// notification columns make it idempotent: an already-completed job is
// acknowledged without resending.
func (p *NotifyProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.SalidaEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal salida event")
		return false, 0, err // Do not retry on malformed message
	}

	registro, err := p.repo.GetRegistro(ctx, event.RegistroID)
	if err != nil {
		return true, 10, fmt.Errorf("failed to get registro from db: %w", err)
	}
	if registro == nil {
		log.Ctx(ctx).Error().Int64("registro_id", event.RegistroID).Msg("Registro no longer exists, dropping event")
		return false, 0, nil
	}

	if registro.NotificacionEstado == model.NotificacionCompletada {
		log.Ctx(ctx).Info().Int64("registro_id", event.RegistroID).Msg("Notification already sent. Skipping.")
		return false, 0, nil
	}

	destinatario := event.CodigoEmpleado + "@" + p.dominio
	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.emailService.EnviarResumenSalida(ctx, destinatario, event.MinutosTrabajados)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			log.Ctx(ctx).Warn().Msg("Circuit breaker is OPEN; skipping SES call")
		}
		newCount := registro.NotificacionReintentos + 1
		p.repo.UpdateNotificacionEstado(ctx, event.RegistroID, model.NotificacionPendiente, newCount)

		delay := calculateBackoff(newCount)
		return true, delay, err
	}

	err = p.repo.UpdateNotificacionEstado(ctx, event.RegistroID, model.NotificacionCompletada, 0)
	return false, 0, err
}

// calculateBackoff determines how long to wait before retrying a failed job.
// It increases the delay exponentially with each retry.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 { // Cap at 1 hour
		return 3600
	}
	return backoff
}
