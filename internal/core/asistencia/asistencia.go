// Package asistencia derives per-employee-per-day attendance summaries from
// raw registros. Everything here is pure computation over already-loaded
// records; persistence and rendering live elsewhere.
package asistencia

import (
	"fmt"
	"sort"
	"time"

	"github.com/Jorge200118/checador-qr/internal/core/model"
)

// Estatus classifies a Jornada by its entrance/exit pairing.
type Estatus string

const (
	EstatusCompleto    Estatus = "COMPLETO"
	EstatusIncompleto  Estatus = "INCOMPLETO"
	EstatusSinRegistro Estatus = "SIN REGISTRO"
)

// ObservacionSinEntrada is the fixed text carried by every absence row.
const ObservacionSinEntrada = "Sin registro de entrada"

// Par is one matched entrance/exit pair within a day.
type Par struct {
	Entrada model.Registro
	Salida  model.Registro
	Minutos int
}

// Jornada is the derived employee-day unit: all of one employee's registros
// on one wall-clock date, with pairing results. Never persisted; computed
// fresh from the raw record set on every use.
type Jornada struct {
	EmpleadoID     int64
	EmpleadoNombre string
	EmpleadoCodigo string
	Sucursal       string
	Puesto         string
	Fecha          time.Time // midnight, wall-clock date of the records
	Registros      []model.Registro
	Entrada        *model.Registro // first ENTRADA of the day (display)
	Salida         *model.Registro // last SALIDA of the day (display)
	Pares          []Par
	MinutosTotales int
	Estatus        Estatus
}

// HorasTrabajadas formats the paired total as "{h}h {mm}m".
func (j *Jornada) HorasTrabajadas() string {
	return FormatearMinutos(j.MinutosTotales)
}

// FormatearMinutos renders a minute total as "8h 00m".
func FormatearMinutos(total int) string {
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}

// fechaLocal truncates a timestamp to its wall-clock calendar date. The
// stored value carries no offset, so the date is taken from the components
// as-is; converting through UTC here would shift records near midnight
// into the wrong day.
func fechaLocal(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type claveJornada struct {
	empleadoID int64
	fecha      time.Time
}

// AgruparPorEmpleadoYFecha partitions registros into Jornadas keyed by
// (empleado, wall-clock date), sorts each group by timestamp and runs the
// single-pending-entrance pairing scan. The result is ordered by date,
// then employee code.
func AgruparPorEmpleadoYFecha(registros []model.Registro) []Jornada {
	grupos := make(map[claveJornada]*Jornada)
	for _, r := range registros {
		clave := claveJornada{empleadoID: r.EmpleadoID, fecha: fechaLocal(r.FechaHora)}
		j, ok := grupos[clave]
		if !ok {
			j = &Jornada{
				EmpleadoID:     r.EmpleadoID,
				EmpleadoNombre: r.EmpleadoNombre,
				EmpleadoCodigo: r.EmpleadoCodigo,
				Sucursal:       r.Sucursal,
				Puesto:         r.Puesto,
				Fecha:          clave.fecha,
			}
			grupos[clave] = j
		}
		j.Registros = append(j.Registros, r)
	}

	jornadas := make([]Jornada, 0, len(grupos))
	for _, j := range grupos {
		procesarJornada(j)
		jornadas = append(jornadas, *j)
	}

	sort.Slice(jornadas, func(a, b int) bool {
		if !jornadas[a].Fecha.Equal(jornadas[b].Fecha) {
			return jornadas[a].Fecha.Before(jornadas[b].Fecha)
		}
		return jornadas[a].EmpleadoCodigo < jornadas[b].EmpleadoCodigo
	})
	return jornadas
}

// procesarJornada sorts the day's records and pairs consecutive
// entrada/salida events. Only the most recent unmatched entrada is tracked:
// a second entrada overwrites the pending slot and the earlier one never
// pairs. A salida with no pending entrada contributes no minutes but stays
// in Registros for display.
func procesarJornada(j *Jornada) {
	sort.SliceStable(j.Registros, func(a, b int) bool {
		return j.Registros[a].FechaHora.Before(j.Registros[b].FechaHora)
	})

	var pendiente *model.Registro
	for i := range j.Registros {
		r := &j.Registros[i]
		switch r.TipoRegistro {
		case model.TipoEntrada:
			pendiente = r
		case model.TipoSalida:
			if pendiente == nil {
				continue
			}
			minutos := int(r.FechaHora.Sub(pendiente.FechaHora) / time.Minute)
			j.Pares = append(j.Pares, Par{Entrada: *pendiente, Salida: *r, Minutos: minutos})
			j.MinutosTotales += minutos
			pendiente = nil
		}
	}

	// Displayed entrada/salida are first-of-kind and last-of-kind, which may
	// differ from the records that actually paired.
	for i := range j.Registros {
		if j.Registros[i].TipoRegistro == model.TipoEntrada {
			j.Entrada = &j.Registros[i]
			break
		}
	}
	for i := len(j.Registros) - 1; i >= 0; i-- {
		if j.Registros[i].TipoRegistro == model.TipoSalida {
			j.Salida = &j.Registros[i]
			break
		}
	}

	switch {
	case len(j.Pares) > 0:
		j.Estatus = EstatusCompleto
	case len(j.Registros) > 0:
		j.Estatus = EstatusIncompleto
	default:
		j.Estatus = EstatusSinRegistro
	}
}

// Falta is one absence row: an active employee with no entrada on a date.
type Falta struct {
	Fecha       time.Time
	Empleado    model.Empleado
	Observacion string
}

// RangoFechas expands an inclusive date range into one midnight per day.
func RangoFechas(inicio, fin time.Time) []time.Time {
	var fechas []time.Time
	for f := fechaLocal(inicio); !f.After(fechaLocal(fin)); f = f.AddDate(0, 0, 1) {
		fechas = append(fechas, f)
	}
	return fechas
}

// Faltas sweeps the range day by day and emits one row per active employee
// with zero ENTRADA records on that date. The output is the full cross
// product of days and absent employees; range sanity is the caller's
// responsibility.
func Faltas(empleados []model.Empleado, registros []model.Registro, inicio, fin time.Time) []Falta {
	entradasPorFecha := make(map[time.Time]map[int64]bool)
	for _, r := range registros {
		if r.TipoRegistro != model.TipoEntrada {
			continue
		}
		fecha := fechaLocal(r.FechaHora)
		if entradasPorFecha[fecha] == nil {
			entradasPorFecha[fecha] = make(map[int64]bool)
		}
		entradasPorFecha[fecha][r.EmpleadoID] = true
	}

	var faltas []Falta
	for _, fecha := range RangoFechas(inicio, fin) {
		presentes := entradasPorFecha[fecha]
		for _, emp := range empleados {
			if !emp.Activo {
				continue
			}
			if presentes[emp.ID] {
				continue
			}
			faltas = append(faltas, Falta{
				Fecha:       fecha,
				Empleado:    emp,
				Observacion: ObservacionSinEntrada,
			})
		}
	}
	return faltas
}

// Resumen aggregates a caller-selected record subset for the executive
// report. It is a single total, not a per-employee breakdown.
type Resumen struct {
	CheckIns       int `json:"registros_check_in"`
	CheckOuts      int `json:"registros_check_out"`
	MinutosTotales int `json:"total_laborado_minutos"`
}

// FormatoHM renders the total as "H:MM" for the executive report.
func (r Resumen) FormatoHM() string {
	return fmt.Sprintf("%d:%02d", r.MinutosTotales/60, r.MinutosTotales%60)
}

// ResumenEjecutivo counts check-ins and check-outs across the subset and
// totals paired minutes with the same pending-entrance rule as the daily
// grouping, except records are bucketed by date only, mixing employees
// within each bucket. Negative pair durations are clamped to zero here.
func ResumenEjecutivo(registros []model.Registro) Resumen {
	var res Resumen
	porFecha := make(map[time.Time][]model.Registro)
	for _, r := range registros {
		switch r.TipoRegistro {
		case model.TipoEntrada:
			res.CheckIns++
		case model.TipoSalida:
			res.CheckOuts++
		}
		fecha := fechaLocal(r.FechaHora)
		porFecha[fecha] = append(porFecha[fecha], r)
	}

	for _, dia := range porFecha {
		sort.SliceStable(dia, func(a, b int) bool {
			return dia[a].FechaHora.Before(dia[b].FechaHora)
		})
		var pendiente *time.Time
		for i := range dia {
			switch dia[i].TipoRegistro {
			case model.TipoEntrada:
				t := dia[i].FechaHora
				pendiente = &t
			case model.TipoSalida:
				if pendiente == nil {
					continue
				}
				minutos := int(dia[i].FechaHora.Sub(*pendiente) / time.Minute)
				if minutos > 0 {
					res.MinutosTotales += minutos
				}
				pendiente = nil
			}
		}
	}
	return res
}
