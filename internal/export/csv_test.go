package export_test

import (
	"strings"
	"testing"
	"time"

	"github.com/Jorge200118/checador-qr/internal/core/asistencia"
	"github.com/Jorge200118/checador-qr/internal/core/model"
	"github.com/Jorge200118/checador-qr/internal/export"
)

var generado = time.Date(2025, time.March, 15, 12, 30, 0, 0, time.UTC)

func TestFaltasCSV(t *testing.T) {
	inicio := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	faltas := []asistencia.Falta{
		{
			Fecha: time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC),
			Empleado: model.Empleado{
				CodigoEmpleado: "EMP002", Nombre: "Luis", Apellido: "Mora",
				Sucursal: "Centro", Puesto: "Cajero", HorarioNombre: "Matutino",
			},
			Observacion: asistencia.ObservacionSinEntrada,
		},
		{
			Fecha:       time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
			Empleado:    model.Empleado{CodigoEmpleado: "EMP001", Nombre: "Ana", Apellido: "Lopez"},
			Observacion: asistencia.ObservacionSinEntrada,
		},
	}

	archivo := export.FaltasCSV(faltas, inicio, fin, generado)

	want := "Faltas_2025-03-10_al_2025-03-12_2_faltas_2_dias.csv"
	if archivo.Nombre != want {
		t.Errorf("nombre = %q, want %q", archivo.Nombre, want)
	}

	contenido := string(archivo.Contenido)
	if !strings.HasPrefix(contenido, "\uFEFF") {
		t.Error("el contenido debe iniciar con BOM UTF-8")
	}
	if !strings.Contains(contenido, "REPORTE DE FALTAS POR RANGO DE FECHAS\n") {
		t.Error("falta el titulo del reporte")
	}
	if !strings.Contains(contenido, "Período: 2025-03-10 al 2025-03-12\n") {
		t.Error("falta la linea de periodo")
	}
	if !strings.Contains(contenido, "Total faltas encontradas: 2\n") {
		t.Error("falta el total")
	}
	if !strings.Contains(contenido, "Fecha,Código,Empleado,Sucursal,Puesto,Horario,Observación\n") {
		t.Error("faltan los encabezados de columna")
	}
	if !strings.Contains(contenido, `"2025-03-11","EMP002","Luis Mora","Centro","Cajero","Matutino","Sin registro de entrada"`) {
		t.Error("falta la fila de EMP002")
	}
	// Employee with no schedule gets the fixed placeholder.
	if !strings.Contains(contenido, `"Sin horario"`) {
		t.Error("falta el placeholder de horario")
	}
	// Rows come out sorted by date even though input was not.
	if strings.Index(contenido, `"2025-03-10"`) > strings.Index(contenido, `"2025-03-11"`) {
		t.Error("las filas deben ordenarse por fecha")
	}
	if !strings.Contains(contenido, "RESUMEN POR FECHA:\nFecha,Cantidad Faltas\n") {
		t.Error("falta el resumen por fecha")
	}
	if !strings.Contains(contenido, `"2025-03-10",1`) || !strings.Contains(contenido, `"2025-03-11",1`) {
		t.Error("faltan los conteos por fecha")
	}
}

func jornadaCon(entrada, salida *time.Time) asistencia.Jornada {
	j := asistencia.Jornada{
		EmpleadoCodigo: "EMP001",
		EmpleadoNombre: "Ana Lopez",
		Sucursal:       "Centro",
		Puesto:         "Cajero",
		Fecha:          time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
	if entrada != nil {
		j.Entrada = &model.Registro{TipoRegistro: model.TipoEntrada, FechaHora: *entrada}
	}
	if salida != nil {
		j.Salida = &model.Registro{TipoRegistro: model.TipoSalida, FechaHora: *salida}
	}
	return j
}

func TestAsistenciasCSVHoras(t *testing.T) {
	e := time.Date(2025, time.March, 10, 8, 30, 0, 0, time.UTC)
	s := time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC)
	sAntes := time.Date(2025, time.March, 10, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		nombre  string
		jornada asistencia.Jornada
		want    string
	}{
		{"completa", jornadaCon(&e, &s), `"08:30","17:00","8h 30m"`},
		{"sin salida", jornadaCon(&e, nil), `"08:30","N/A","En turno"`},
		{"sin entrada", jornadaCon(nil, &s), `"N/A","17:00","N/A"`},
		{"salida antes de entrada", jornadaCon(&e, &sAntes), `"08:30","07:00","Error"`},
	}

	inicio := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		archivo := export.AsistenciasCSV([]asistencia.Jornada{tt.jornada}, inicio, inicio, generado)
		if !strings.Contains(string(archivo.Contenido), tt.want) {
			t.Errorf("%s: el CSV no contiene %q", tt.nombre, tt.want)
		}
	}
}

func TestAsistenciasCSVEncabezados(t *testing.T) {
	inicio := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)

	archivo := export.AsistenciasCSV(nil, inicio, fin, generado)

	if archivo.Nombre != "Reporte_Asistencias_2025-03-10_2025-03-12.csv" {
		t.Errorf("nombre = %q", archivo.Nombre)
	}
	contenido := string(archivo.Contenido)
	if !strings.HasPrefix(contenido, "\uFEFF") {
		t.Error("el contenido debe iniciar con BOM UTF-8")
	}
	if !strings.Contains(contenido, "REPORTE DE ASISTENCIAS CON HORAS TRABAJADAS\n") {
		t.Error("falta el titulo")
	}
	if !strings.Contains(contenido, "Total empleados-días: 0\n") {
		t.Error("falta el total de empleados-días")
	}
	if !strings.Contains(contenido, "Fecha,Código,Empleado,Sucursal,Puesto,Primera Entrada,Última Salida,Horas Trabajadas\n") {
		t.Error("faltan los encabezados de columna")
	}
}
