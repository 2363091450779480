package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/Jorge200118/checador-qr/internal/core/model"
	"github.com/Jorge200118/checador-qr/internal/ports/repository"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// registroRepo stubs only the two repository calls the processor makes.
// Anything else would be a bug, so the embedded nil interface panics.
type registroRepo struct {
	repository.Repository
	registro *model.Registro

	estado     model.EstadoNotificacion
	reintentos int
	updated    bool
}

func (r *registroRepo) GetRegistro(ctx context.Context, id int64) (*model.Registro, error) {
	return r.registro, nil
}

func (r *registroRepo) UpdateNotificacionEstado(ctx context.Context, id int64, estado model.EstadoNotificacion, reintentos int) error {
	r.estado = estado
	r.reintentos = reintentos
	r.updated = true
	return nil
}

type fakeEmail struct {
	err          error
	destinatario string
	minutos      int
	llamadas     int
}

func (f *fakeEmail) EnviarResumenSalida(ctx context.Context, destinatario string, minutos int) error {
	f.llamadas++
	f.destinatario = destinatario
	f.minutos = minutos
	return f.err
}

func mensajeSalida(t *testing.T) types.Message {
	t.Helper()
	body := `{"registroId": 42, "empleadoId": 7, "codigoEmpleado": "EMP-007", "minutosTrabajados": 480, "fechaHora": "2026-03-10T17:00:00Z"}`
	return types.Message{Body: aws.String(body)}
}

func TestProcessEnviaResumen(t *testing.T) {
	repo := &registroRepo{registro: &model.Registro{ID: 42, NotificacionEstado: model.NotificacionPendiente}}
	email := &fakeEmail{}
	p := NewProcessor(email, repo, "empresa.mx")

	retry, delay, err := p.Process(context.Background(), mensajeSalida(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retry || delay != 0 {
		t.Errorf("success must not retry, got retry=%v delay=%d", retry, delay)
	}
	if email.destinatario != "EMP-007@empresa.mx" {
		t.Errorf("destinatario: got %q", email.destinatario)
	}
	if email.minutos != 480 {
		t.Errorf("minutos: got %d", email.minutos)
	}
	if repo.estado != model.NotificacionCompletada || repo.reintentos != 0 {
		t.Errorf("estado after success: got %s/%d", repo.estado, repo.reintentos)
	}
}

func TestProcessIdempotenteCuandoYaCompletado(t *testing.T) {
	repo := &registroRepo{registro: &model.Registro{ID: 42, NotificacionEstado: model.NotificacionCompletada}}
	email := &fakeEmail{}
	p := NewProcessor(email, repo, "empresa.mx")

	retry, _, err := p.Process(context.Background(), mensajeSalida(t))
	if err != nil || retry {
		t.Fatalf("completed job must ack silently, got retry=%v err=%v", retry, err)
	}
	if email.llamadas != 0 {
		t.Errorf("no email expected, got %d calls", email.llamadas)
	}
}

func TestProcessDescartaRegistroInexistente(t *testing.T) {
	repo := &registroRepo{}
	p := NewProcessor(&fakeEmail{}, repo, "empresa.mx")

	retry, _, err := p.Process(context.Background(), mensajeSalida(t))
	if err != nil || retry {
		t.Fatalf("missing registro must be dropped, got retry=%v err=%v", retry, err)
	}
}

func TestProcessReintentaConBackoff(t *testing.T) {
	repo := &registroRepo{registro: &model.Registro{ID: 42, NotificacionEstado: model.NotificacionPendiente, NotificacionReintentos: 2}}
	email := &fakeEmail{err: errors.New("ses throttled")}
	p := NewProcessor(email, repo, "empresa.mx")

	retry, delay, err := p.Process(context.Background(), mensajeSalida(t))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !retry {
		t.Error("send failure must request a retry")
	}
	// Third attempt: 2^3 * 10 seconds.
	if delay != 80 {
		t.Errorf("backoff: got %d, want 80", delay)
	}
	if repo.estado != model.NotificacionPendiente || repo.reintentos != 3 {
		t.Errorf("estado after failure: got %s/%d", repo.estado, repo.reintentos)
	}
}

func TestProcessMensajeMalformado(t *testing.T) {
	p := NewProcessor(&fakeEmail{}, &registroRepo{}, "empresa.mx")

	retry, _, err := p.Process(context.Background(), types.Message{Body: aws.String("{not json")})
	if err == nil {
		t.Fatal("expected an unmarshal error")
	}
	if retry {
		t.Error("malformed messages must not be retried")
	}
}

func TestCalculateBackoffCap(t *testing.T) {
	if got := calculateBackoff(1); got != 20 {
		t.Errorf("retry 1: got %d, want 20", got)
	}
	if got := calculateBackoff(20); got != 3600 {
		t.Errorf("retry 20: got %d, want cap 3600", got)
	}
}
