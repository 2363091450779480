package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TipoRegistro distinguishes clock-in from clock-out events.
type TipoRegistro string

const (
	TipoEntrada TipoRegistro = "ENTRADA"
	TipoSalida  TipoRegistro = "SALIDA"
)

// EstadoNotificacion defines the state of the salida-summary notification job.
type EstadoNotificacion string

const (
	NotificacionPendiente  EstadoNotificacion = "PENDIENTE"
	NotificacionProcesando EstadoNotificacion = "PROCESANDO"
	NotificacionCompletada EstadoNotificacion = "COMPLETADO"
	NotificacionFallida    EstadoNotificacion = "FALLIDO"
)

// FechaHoraLayout is the wall-clock layout used for registros.fecha_hora.
// Timestamps are stored without timezone and every reader interprets them
// in the single configured zone.
const FechaHoraLayout = "2006-01-02 15:04:05.000"

// FechaLayout is the calendar-date layout used in report ranges and filenames.
const FechaLayout = "2006-01-02"

// Empleado is the attendance subject. HorarioNombre is populated by joined
// queries only; it is not a column of empleados.
type Empleado struct {
	ID             int64   `json:"id"`
	CodigoEmpleado string  `json:"codigo_empleado"`
	Nombre         string  `json:"nombre"`
	Apellido       string  `json:"apellido"`
	Sucursal       string  `json:"sucursal"`
	Puesto         string  `json:"puesto"`
	Activo         bool    `json:"activo"`
	HorarioID      *int64  `json:"horario_id,omitempty"`
	FotoPerfil     *string `json:"foto_perfil,omitempty"`
	TrabajaDomingo bool    `json:"trabaja_domingo"`
	HorarioNombre  string  `json:"horario_nombre,omitempty"`
}

// NombreCompleto returns "Nombre Apellido" for display and reports.
func (e *Empleado) NombreCompleto() string {
	return strings.TrimSpace(e.Nombre + " " + e.Apellido)
}

// Horario is an expected work-time template made of ordered blocks.
type Horario struct {
	ID          int64    `json:"id"`
	Nombre      string   `json:"nombre"`
	Descripcion string   `json:"descripcion"`
	Activo      bool     `json:"activo"`
	Bloques     []Bloque `json:"bloques"`
}

// Bloque defines one expected entrance/exit window within a Horario.
// Hours are "HH:MM:SS" (or "HH:MM") strings, tolerances are minutes.
type Bloque struct {
	ID                   int64  `json:"id"`
	HorarioID            int64  `json:"horario_id"`
	OrdenBloque          int    `json:"orden_bloque"`
	HoraEntrada          string `json:"hora_entrada"`
	HoraSalida           string `json:"hora_salida"`
	ToleranciaEntradaMin int    `json:"tolerancia_entrada_min"`
	ToleranciaSalidaMin  int    `json:"tolerancia_salida_min"`
	Descripcion          string `json:"descripcion"`
}

// ConfiguracionQR holds the two opaque QR strings configured per employee.
// Which of the two matched a scan determines the event kind.
type ConfiguracionQR struct {
	ID         int64  `json:"id"`
	EmpleadoID int64  `json:"empleado_id"`
	QREntrada  string `json:"qr_entrada"`
	QRSalida   string `json:"qr_salida"`
	Activo     bool   `json:"activo"`
}

// Registro is one scanned attendance event. Immutable once created; only
// the notification bookkeeping columns are ever updated, and only by the
// notify worker. The Empleado* and Sucursal/Puesto fields come from joins.
type Registro struct {
	ID                     int64              `json:"id"`
	EmpleadoID             int64              `json:"empleado_id"`
	TipoRegistro           TipoRegistro       `json:"tipo_registro"`
	FechaHora              time.Time          `json:"fecha_hora"`
	QRCode                 string             `json:"qr_code"`
	TabletID               string             `json:"tablet_id"`
	BloqueHorarioID        *int64             `json:"bloque_horario_id,omitempty"`
	FotoRegistro           *string            `json:"foto_registro,omitempty"`
	Observaciones          string             `json:"observaciones"`
	NotificacionEstado     EstadoNotificacion `json:"-"`
	NotificacionReintentos int                `json:"-"`

	EmpleadoNombre string `json:"empleado_nombre,omitempty"`
	EmpleadoCodigo string `json:"empleado_codigo,omitempty"`
	Sucursal       string `json:"sucursal,omitempty"`
	Puesto         string `json:"puesto,omitempty"`
}

// MinutosDeHora parses an "HH:MM:SS" or "HH:MM" block hour into minutes
// since midnight.
func MinutosDeHora(hora string) (int, error) {
	partes := strings.Split(hora, ":")
	if len(partes) < 2 {
		return 0, fmt.Errorf("hora invalida: %q", hora)
	}
	h, err := strconv.Atoi(partes[0])
	if err != nil {
		return 0, fmt.Errorf("hora invalida: %q", hora)
	}
	m, err := strconv.Atoi(partes[1])
	if err != nil {
		return 0, fmt.Errorf("hora invalida: %q", hora)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("hora fuera de rango: %q", hora)
	}
	return h*60 + m, nil
}

// Estadisticas are the dashboard counters for the current day.
type Estadisticas struct {
	EntradasHoy      int `json:"entradas_hoy"`
	SalidasHoy       int `json:"salidas_hoy"`
	EmpleadosActivos int `json:"empleados_activos"`
	Presentes        int `json:"presentes"`
}
