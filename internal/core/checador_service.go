package core

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/Jorge200118/checador-qr/internal/core/asistencia"
	"github.com/Jorge200118/checador-qr/internal/core/model"
	"github.com/Jorge200118/checador-qr/internal/export"
	"github.com/Jorge200118/checador-qr/internal/ports/messaging"
	"github.com/Jorge200118/checador-qr/internal/ports/repository"
	"github.com/Jorge200118/checador-qr/internal/ports/storage"
	"github.com/rs/zerolog/log"
)

// Block resolution windows for ENTRADA scans: from 15 minutes before the
// expected entrance up to 600 minutes after it. SALIDA scans use the
// block's own exit tolerance, defaulting to 15 minutes.
const (
	entradaAntesMin      = 15
	entradaDespuesMin    = 600
	toleranciaSalidaDflt = 15
)

const registrosRecientesLimite = 10

// ChecadorService is the application core shared by the kiosk and admin
// surfaces. All timestamps it produces are wall-clock values in zona.
type ChecadorService struct {
	repo     repository.Repository
	fotos    storage.FotoStorage
	producer messaging.Producer
	zona     *time.Location
	ahora    func() time.Time
}

// NewChecadorService wires up the database repository, the photo store and
// the message queue producer.
func NewChecadorService(repo repository.Repository, fotos storage.FotoStorage, producer messaging.Producer, zona *time.Location) *ChecadorService {
	return &ChecadorService{
		repo:     repo,
		fotos:    fotos,
		producer: producer,
		zona:     zona,
		ahora:    time.Now,
	}
}

// ValidacionQR is the read-only result of a successful scan validation.
// The caller creates the registro as a separate step.
type ValidacionQR struct {
	Empleado model.Empleado     `json:"empleado"`
	Tipo     model.TipoRegistro `json:"tipo_registro"`
	BloqueID *int64             `json:"bloque_id,omitempty"`
}

// ValidarQR resolves a scanned code to an employee and event kind and
// checks the admission rules for emitting that event now. It performs no
// writes.
func (s *ChecadorService) ValidarQR(ctx context.Context, codigo string) (*ValidacionQR, error) {
	cfg, empleado, err := s.repo.FindQRConfigByCodigo(ctx, codigo)
	if err != nil {
		return nil, fmt.Errorf("failed to query QR config: %w", err)
	}
	if cfg == nil {
		return nil, ErrCodigoInvalido
	}

	// The event kind comes solely from which configured string matched.
	tipo := model.TipoSalida
	if cfg.QREntrada == codigo {
		tipo = model.TipoEntrada
	}

	ahora := s.ahora().In(s.zona)
	if err := s.validarAdmision(ctx, empleado.ID, tipo, ahora); err != nil {
		return nil, err
	}

	// Block resolution is best-effort: a registro without a block is valid.
	var bloqueID *int64
	if empleado.HorarioID != nil {
		bloques, err := s.repo.GetBloques(ctx, *empleado.HorarioID)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Int64("horario_id", *empleado.HorarioID).
				Msg("No se pudieron cargar los bloques del horario")
		} else {
			bloqueID = resolverBloque(bloques, tipo, ahora)
		}
	}

	return &ValidacionQR{Empleado: *empleado, Tipo: tipo, BloqueID: bloqueID}, nil
}

// validarAdmision enforces the duplicate/out-of-order rules before a new
// event may be emitted. The check and the later insert are not atomic; two
// tablets racing on the same employee can still slip through, same as the
// original system.
func (s *ChecadorService) validarAdmision(ctx context.Context, empleadoID int64, tipo model.TipoRegistro, ahora time.Time) error {
	switch tipo {
	case model.TipoEntrada:
		inicio, fin := ventanaDia(ahora)
		ultimo, err := s.repo.FindUltimoRegistroDelDia(ctx, empleadoID, inicio, fin)
		if err != nil {
			return fmt.Errorf("failed to query registros del dia: %w", err)
		}
		if ultimo != nil && ultimo.TipoRegistro == model.TipoEntrada {
			return ErrEntradaDuplicada
		}
	case model.TipoSalida:
		ultimaEntrada, err := s.repo.FindUltimaEntrada(ctx, empleadoID)
		if err != nil {
			return fmt.Errorf("failed to query ultima entrada: %w", err)
		}
		if ultimaEntrada == nil {
			return ErrSinEntrada
		}
		cerrada, err := s.repo.ExisteSalidaPosterior(ctx, empleadoID, ultimaEntrada.FechaHora)
		if err != nil {
			return fmt.Errorf("failed to query salida posterior: %w", err)
		}
		if cerrada {
			return ErrSalidaRegistrada
		}
	}
	return nil
}

// resolverBloque picks the first block whose window contains the current
// time of day, in orden_bloque order.
func resolverBloque(bloques []model.Bloque, tipo model.TipoRegistro, ahora time.Time) *int64 {
	minutosAhora := ahora.Hour()*60 + ahora.Minute()

	for _, b := range bloques {
		if tipo == model.TipoEntrada {
			entrada, err := model.MinutosDeHora(b.HoraEntrada)
			if err != nil {
				continue
			}
			if minutosAhora >= entrada-entradaAntesMin && minutosAhora <= entrada+entradaDespuesMin {
				id := b.ID
				return &id
			}
		} else {
			salida, err := model.MinutosDeHora(b.HoraSalida)
			if err != nil {
				continue
			}
			tolerancia := b.ToleranciaSalidaMin
			if tolerancia == 0 {
				tolerancia = toleranciaSalidaDflt
			}
			if minutosAhora >= salida-tolerancia && minutosAhora <= salida+tolerancia {
				id := b.ID
				return &id
			}
		}
	}
	return nil
}

// NuevoRegistro is the kiosk's record-creation request, produced after a
// successful ValidarQR.
type NuevoRegistro struct {
	EmpleadoID int64
	Tipo       model.TipoRegistro
	QRCode     string
	TabletID   string
	BloqueID   *int64
	FotoBase64 string
}

// CrearRegistro persists one attendance event, uploading the confirmation
// photo first when present. Photo upload failure degrades to a null photo
// reference; the registro is created regardless.
func (s *ChecadorService) CrearRegistro(ctx context.Context, nuevo NuevoRegistro) (*model.Registro, error) {
	ahora := s.ahora().In(s.zona)

	var fotoURL *string
	if nuevo.FotoBase64 != "" {
		if url, err := s.subirFoto(ctx, nuevo.EmpleadoID, nuevo.FotoBase64, ahora); err != nil {
			log.Ctx(ctx).Warn().Err(err).Int64("empleado_id", nuevo.EmpleadoID).
				Msg("Fallo la subida de foto; el registro se crea sin foto")
		} else {
			fotoURL = &url
		}
	}

	registro := &model.Registro{
		EmpleadoID:      nuevo.EmpleadoID,
		TipoRegistro:    nuevo.Tipo,
		FechaHora:       ahora,
		QRCode:          nuevo.QRCode,
		TabletID:        nuevo.TabletID,
		BloqueHorarioID: nuevo.BloqueID,
		FotoRegistro:    fotoURL,
		Observaciones:   fmt.Sprintf("Registro desde %s", nuevo.TabletID),
	}

	id, err := s.repo.CreateRegistro(ctx, registro)
	if err != nil {
		return nil, fmt.Errorf("failed to create registro: %w", err)
	}
	registro.ID = id

	if nuevo.Tipo == model.TipoSalida {
		s.publicarSalida(ctx, registro)
	}

	return registro, nil
}

// subirFoto decodes the kiosk's base64 capture and stores it under a name
// derived from the employee id and a millisecond timestamp.
func (s *ChecadorService) subirFoto(ctx context.Context, empleadoID int64, fotoBase64 string, ahora time.Time) (string, error) {
	// The camera capture arrives as a data URL; strip the prefix.
	if i := strings.Index(fotoBase64, ","); i >= 0 && strings.HasPrefix(fotoBase64, "data:") {
		fotoBase64 = fotoBase64[i+1:]
	}
	datos, err := base64.StdEncoding.DecodeString(fotoBase64)
	if err != nil {
		return "", fmt.Errorf("failed to decode photo: %w", err)
	}

	nombre := fmt.Sprintf("emp_%d_%d.jpg", empleadoID, ahora.UnixMilli())
	return s.fotos.SubirFoto(ctx, nombre, datos)
}

// publicarSalida emits the shift-completed event consumed by the notify
// worker. Publishing is fire-and-forget from the kiosk's point of view.
func (s *ChecadorService) publicarSalida(ctx context.Context, salida *model.Registro) {
	entrada, err := s.repo.FindUltimaEntrada(ctx, salida.EmpleadoID)
	if err != nil || entrada == nil || !entrada.FechaHora.Before(salida.FechaHora) {
		return
	}

	evento := messaging.SalidaEvent{
		RegistroID:        salida.ID,
		EmpleadoID:        salida.EmpleadoID,
		CodigoEmpleado:    entrada.EmpleadoCodigo,
		MinutosTrabajados: int(salida.FechaHora.Sub(entrada.FechaHora) / time.Minute),
		FechaHora:         salida.FechaHora,
	}
	if err := s.producer.PublishNotificacion(ctx, evento); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("registro_id", salida.ID).
			Msg("No se pudo publicar el evento de salida")
	}
}

// Salud checks the persistence layer the same way the kiosk always did:
// one cheap read.
func (s *ChecadorService) Salud(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// ventanaDia returns the wall-clock [00:00:00.000, 23:59:59.999] window of
// the given instant's calendar date.
func ventanaDia(t time.Time) (time.Time, time.Time) {
	inicio := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	fin := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
	return inicio, fin
}

// rangoConsulta widens an inclusive date range to full days.
func rangoConsulta(inicio, fin time.Time) (time.Time, time.Time) {
	desde, _ := ventanaDia(inicio)
	_, hasta := ventanaDia(fin)
	return desde, hasta
}

// Registros loads a date range with filters and derives the per-employee
// per-day jornadas the admin table shows.
func (s *ChecadorService) Registros(ctx context.Context, inicio, fin time.Time, filtro repository.FiltroRegistros) ([]model.Registro, []asistencia.Jornada, error) {
	if fin.Before(inicio) {
		return nil, nil, ErrRangoInvalido
	}
	desde, hasta := rangoConsulta(inicio, fin)
	registros, err := s.repo.GetRegistrosByFecha(ctx, desde, hasta, filtro)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query registros: %w", err)
	}
	return registros, asistencia.AgruparPorEmpleadoYFecha(registros), nil
}

// ReporteFaltas runs the absence sweep over the range and renders the CSV.
func (s *ChecadorService) ReporteFaltas(ctx context.Context, inicio, fin time.Time) (*export.Archivo, error) {
	if fin.Before(inicio) {
		return nil, ErrRangoInvalido
	}

	empleados, err := s.repo.GetEmpleados(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query empleados: %w", err)
	}
	desde, hasta := rangoConsulta(inicio, fin)
	registros, err := s.repo.GetRegistrosByFecha(ctx, desde, hasta, repository.FiltroRegistros{})
	if err != nil {
		return nil, fmt.Errorf("failed to query registros: %w", err)
	}

	faltas := asistencia.Faltas(empleados, registros, inicio, fin)
	archivo := export.FaltasCSV(faltas, inicio, fin, s.ahora().In(s.zona))
	return &archivo, nil
}

// ReporteAsistencias renders the worked-hours CSV for the range.
func (s *ChecadorService) ReporteAsistencias(ctx context.Context, inicio, fin time.Time) (*export.Archivo, error) {
	if fin.Before(inicio) {
		return nil, ErrRangoInvalido
	}

	desde, hasta := rangoConsulta(inicio, fin)
	registros, err := s.repo.GetRegistrosByFecha(ctx, desde, hasta, repository.FiltroRegistros{})
	if err != nil {
		return nil, fmt.Errorf("failed to query registros: %w", err)
	}

	jornadas := asistencia.AgruparPorEmpleadoYFecha(registros)
	archivo := export.AsistenciasCSV(jornadas, inicio, fin, s.ahora().In(s.zona))
	return &archivo, nil
}

// ResumenEjecutivo aggregates the caller-selected (empleado, fecha) subset
// of the range into a single check-in/check-out/minutes total.
func (s *ChecadorService) ResumenEjecutivo(ctx context.Context, inicio, fin time.Time, empleadoIDs []int64, fechas []string) (*asistencia.Resumen, error) {
	if fin.Before(inicio) {
		return nil, ErrRangoInvalido
	}

	desde, hasta := rangoConsulta(inicio, fin)
	registros, err := s.repo.GetRegistrosByFecha(ctx, desde, hasta, repository.FiltroRegistros{})
	if err != nil {
		return nil, fmt.Errorf("failed to query registros: %w", err)
	}

	porEmpleado := make(map[int64]bool, len(empleadoIDs))
	for _, id := range empleadoIDs {
		porEmpleado[id] = true
	}
	porFecha := make(map[string]bool, len(fechas))
	for _, f := range fechas {
		porFecha[f] = true
	}

	var seleccion []model.Registro
	for _, r := range registros {
		if len(porEmpleado) > 0 && !porEmpleado[r.EmpleadoID] {
			continue
		}
		if len(porFecha) > 0 && !porFecha[r.FechaHora.Format(model.FechaLayout)] {
			continue
		}
		seleccion = append(seleccion, r)
	}

	resumen := asistencia.ResumenEjecutivo(seleccion)
	return &resumen, nil
}

// Estadisticas returns the dashboard counters for today.
func (s *ChecadorService) Estadisticas(ctx context.Context) (*model.Estadisticas, error) {
	inicio, fin := ventanaDia(s.ahora().In(s.zona))
	return s.repo.GetEstadisticas(ctx, inicio, fin)
}

// EmpleadosPresentes lists the open entradas of today.
func (s *ChecadorService) EmpleadosPresentes(ctx context.Context) ([]model.Registro, error) {
	inicio, fin := ventanaDia(s.ahora().In(s.zona))
	return s.repo.GetEmpleadosPresentes(ctx, inicio, fin)
}

// RegistrosRecientes returns the latest scans across all employees.
func (s *ChecadorService) RegistrosRecientes(ctx context.Context) ([]model.Registro, error) {
	return s.repo.GetRegistrosRecientes(ctx, registrosRecientesLimite)
}

// FotosRegistro lists one employee-day's registros that carry a photo.
func (s *ChecadorService) FotosRegistro(ctx context.Context, empleadoID int64, fecha time.Time) ([]model.Registro, error) {
	inicio, fin := ventanaDia(fecha)
	return s.repo.GetFotosRegistro(ctx, empleadoID, inicio, fin)
}

// Empleado CRUD pass-throughs for the admin panel.

func (s *ChecadorService) Empleados(ctx context.Context) ([]model.Empleado, error) {
	return s.repo.GetEmpleados(ctx)
}

func (s *ChecadorService) EmpleadoPorID(ctx context.Context, id int64) (*model.Empleado, error) {
	e, err := s.repo.GetEmpleadoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEmpleadoNoEncontrado
	}
	return e, nil
}

func (s *ChecadorService) CrearEmpleado(ctx context.Context, e *model.Empleado) (*model.Empleado, error) {
	id, err := s.repo.CreateEmpleado(ctx, e)
	if err != nil {
		return nil, err
	}
	e.ID = id
	return e, nil
}

func (s *ChecadorService) ActualizarEmpleado(ctx context.Context, e *model.Empleado) error {
	return s.repo.UpdateEmpleado(ctx, e)
}

func (s *ChecadorService) EliminarEmpleado(ctx context.Context, id int64) error {
	return s.repo.DeleteEmpleado(ctx, id)
}

func (s *ChecadorService) CambiarEmpleadoActivo(ctx context.Context, id int64, activo bool) error {
	return s.repo.SetEmpleadoActivo(ctx, id, activo)
}

func (s *ChecadorService) QRPorEmpleado(ctx context.Context, empleadoID int64) (*model.ConfiguracionQR, error) {
	return s.repo.GetQRConfigByEmpleado(ctx, empleadoID)
}

func (s *ChecadorService) Horarios(ctx context.Context) ([]model.Horario, error) {
	return s.repo.GetHorarios(ctx)
}
