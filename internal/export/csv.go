// Package export renders the admin reports as downloadable CSV files.
// The format is inherited from the spreadsheet-oriented reports the admin
// panel always produced: a UTF-8 BOM, prose header lines, one quoted data
// table and, for faltas, a per-date summary trailer.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Jorge200118/checador-qr/internal/core/asistencia"
	"github.com/Jorge200118/checador-qr/internal/core/model"
)

// Archivo is a rendered report ready to download.
type Archivo struct {
	Nombre    string
	Contenido []byte
}

const bom = "\uFEFF"

const generadoLayout = "2006-01-02 15:04:05"

// campo quotes one CSV field, doubling embedded quotes.
func campo(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FaltasCSV renders the absence report: rows grouped and sorted by date,
// then a per-date count trailer.
func FaltasCSV(faltas []asistencia.Falta, inicio, fin, generado time.Time) Archivo {
	var b strings.Builder
	b.WriteString(bom)

	b.WriteString("REPORTE DE FALTAS POR RANGO DE FECHAS\n")
	fmt.Fprintf(&b, "Período: %s al %s\n", inicio.Format(model.FechaLayout), fin.Format(model.FechaLayout))
	fmt.Fprintf(&b, "Total faltas encontradas: %d\n", len(faltas))
	fmt.Fprintf(&b, "Generado: %s\n\n", generado.Format(generadoLayout))

	b.WriteString("Fecha,Código,Empleado,Sucursal,Puesto,Horario,Observación\n")

	porFecha := make(map[string][]asistencia.Falta)
	for _, f := range faltas {
		fecha := f.Fecha.Format(model.FechaLayout)
		porFecha[fecha] = append(porFecha[fecha], f)
	}
	fechas := make([]string, 0, len(porFecha))
	for fecha := range porFecha {
		fechas = append(fechas, fecha)
	}
	sort.Strings(fechas)

	for _, fecha := range fechas {
		for _, f := range porFecha[fecha] {
			horario := f.Empleado.HorarioNombre
			if horario == "" {
				horario = "Sin horario"
			}
			b.WriteString(strings.Join([]string{
				campo(fecha),
				campo(f.Empleado.CodigoEmpleado),
				campo(f.Empleado.NombreCompleto()),
				campo(f.Empleado.Sucursal),
				campo(f.Empleado.Puesto),
				campo(horario),
				campo(f.Observacion),
			}, ",") + "\n")
		}
	}

	b.WriteString("\n\nRESUMEN POR FECHA:\n")
	b.WriteString("Fecha,Cantidad Faltas\n")
	for _, fecha := range fechas {
		fmt.Fprintf(&b, "%s,%d\n", campo(fecha), len(porFecha[fecha]))
	}

	nombre := fmt.Sprintf("Faltas_%s_al_%s_%d_faltas_%d_dias.csv",
		inicio.Format(model.FechaLayout), fin.Format(model.FechaLayout), len(faltas), len(fechas))

	return Archivo{Nombre: nombre, Contenido: []byte(b.String())}
}

// horasTrabajadas classifies one jornada for the hours column. It compares
// the displayed first entrada against the displayed last salida, not the
// paired total: the report mirrors what the admin table shows.
func horasTrabajadas(j *asistencia.Jornada) string {
	switch {
	case j.Entrada != nil && j.Salida != nil:
		if !j.Salida.FechaHora.After(j.Entrada.FechaHora) {
			return "Error"
		}
		diff := j.Salida.FechaHora.Sub(j.Entrada.FechaHora)
		return fmt.Sprintf("%dh %dm", int(diff/time.Hour), int(diff%time.Hour/time.Minute))
	case j.Entrada != nil:
		return "En turno"
	default:
		return "N/A"
	}
}

func oNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// AsistenciasCSV renders the worked-hours report, one row per employee-day.
func AsistenciasCSV(jornadas []asistencia.Jornada, inicio, fin, generado time.Time) Archivo {
	var b strings.Builder
	b.WriteString(bom)

	b.WriteString("REPORTE DE ASISTENCIAS CON HORAS TRABAJADAS\n")
	fmt.Fprintf(&b, "Período: %s al %s\n", inicio.Format(model.FechaLayout), fin.Format(model.FechaLayout))
	fmt.Fprintf(&b, "Total empleados-días: %d\n", len(jornadas))
	fmt.Fprintf(&b, "Generado: %s\n\n", generado.Format(generadoLayout))

	b.WriteString("Fecha,Código,Empleado,Sucursal,Puesto,Primera Entrada,Última Salida,Horas Trabajadas\n")

	for i := range jornadas {
		j := &jornadas[i]
		primeraEntrada := "N/A"
		if j.Entrada != nil {
			primeraEntrada = j.Entrada.FechaHora.Format("15:04")
		}
		ultimaSalida := "N/A"
		if j.Salida != nil {
			ultimaSalida = j.Salida.FechaHora.Format("15:04")
		}

		b.WriteString(strings.Join([]string{
			campo(j.Fecha.Format(model.FechaLayout)),
			campo(oNA(j.EmpleadoCodigo)),
			campo(oNA(j.EmpleadoNombre)),
			campo(oNA(j.Sucursal)),
			campo(oNA(j.Puesto)),
			campo(primeraEntrada),
			campo(ultimaSalida),
			campo(horasTrabajadas(j)),
		}, ",") + "\n")
	}

	nombre := fmt.Sprintf("Reporte_Asistencias_%s_%s.csv",
		inicio.Format(model.FechaLayout), fin.Format(model.FechaLayout))

	return Archivo{Nombre: nombre, Contenido: []byte(b.String())}
}
