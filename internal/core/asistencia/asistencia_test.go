package asistencia_test

import (
	"testing"
	"time"

	"github.com/Jorge200118/checador-qr/internal/core/asistencia"
	"github.com/Jorge200118/checador-qr/internal/core/model"
)

func reg(empleadoID int64, tipo model.TipoRegistro, dia int, hora, minuto int) model.Registro {
	return model.Registro{
		EmpleadoID:   empleadoID,
		TipoRegistro: tipo,
		FechaHora:    time.Date(2025, time.March, dia, hora, minuto, 0, 0, time.UTC),
	}
}

func TestJornadaEntradaSalidaSimple(t *testing.T) {
	jornadas := asistencia.AgruparPorEmpleadoYFecha([]model.Registro{
		reg(1, model.TipoEntrada, 10, 10, 0),
		reg(1, model.TipoSalida, 10, 18, 0),
	})
	if len(jornadas) != 1 {
		t.Fatalf("jornadas = %d, want 1", len(jornadas))
	}
	j := jornadas[0]
	if len(j.Pares) != 1 {
		t.Errorf("pares = %d, want 1", len(j.Pares))
	}
	if j.MinutosTotales != 480 {
		t.Errorf("minutos = %d, want 480", j.MinutosTotales)
	}
	if j.Estatus != asistencia.EstatusCompleto {
		t.Errorf("estatus = %q, want COMPLETO", j.Estatus)
	}
	if got := j.HorasTrabajadas(); got != "8h 00m" {
		t.Errorf("horas = %q, want \"8h 00m\"", got)
	}
}

func TestJornadaEntradaDobleSobreescribePendiente(t *testing.T) {
	e1 := reg(1, model.TipoEntrada, 10, 10, 0)
	e2 := reg(1, model.TipoEntrada, 10, 11, 0)
	s1 := reg(1, model.TipoSalida, 10, 18, 0)
	jornadas := asistencia.AgruparPorEmpleadoYFecha([]model.Registro{e1, e2, s1})

	j := jornadas[0]
	if len(j.Pares) != 1 {
		t.Fatalf("pares = %d, want 1", len(j.Pares))
	}
	if !j.Pares[0].Entrada.FechaHora.Equal(e2.FechaHora) {
		t.Errorf("par usa entrada %v, want la segunda (%v)", j.Pares[0].Entrada.FechaHora, e2.FechaHora)
	}
	if j.MinutosTotales != 420 {
		t.Errorf("minutos = %d, want 420", j.MinutosTotales)
	}
	if j.Estatus != asistencia.EstatusCompleto {
		t.Errorf("estatus = %q, want COMPLETO", j.Estatus)
	}
	// Displayed entrada is still the first one; paired and displayed hours
	// legitimately diverge.
	if j.Entrada == nil || !j.Entrada.FechaHora.Equal(e1.FechaHora) {
		t.Errorf("entrada mostrada = %v, want la primera (%v)", j.Entrada, e1.FechaHora)
	}
	if j.Salida == nil || !j.Salida.FechaHora.Equal(s1.FechaHora) {
		t.Errorf("salida mostrada = %v, want %v", j.Salida, s1.FechaHora)
	}
}

func TestJornadaEntradaSola(t *testing.T) {
	jornadas := asistencia.AgruparPorEmpleadoYFecha([]model.Registro{
		reg(1, model.TipoEntrada, 10, 10, 0),
	})
	j := jornadas[0]
	if len(j.Pares) != 0 {
		t.Errorf("pares = %d, want 0", len(j.Pares))
	}
	if j.Estatus != asistencia.EstatusIncompleto {
		t.Errorf("estatus = %q, want INCOMPLETO", j.Estatus)
	}
	if got := j.HorasTrabajadas(); got != "0h 00m" {
		t.Errorf("horas = %q, want \"0h 00m\"", got)
	}
}

func TestJornadaSalidaSola(t *testing.T) {
	jornadas := asistencia.AgruparPorEmpleadoYFecha([]model.Registro{
		reg(1, model.TipoSalida, 10, 9, 0),
	})
	j := jornadas[0]
	if len(j.Pares) != 0 {
		t.Errorf("pares = %d, want 0", len(j.Pares))
	}
	if j.Estatus != asistencia.EstatusIncompleto {
		t.Errorf("estatus = %q, want INCOMPLETO", j.Estatus)
	}
}

func TestJornadaSalidaSinEntradaPreviaSeIgnora(t *testing.T) {
	jornadas := asistencia.AgruparPorEmpleadoYFecha([]model.Registro{
		reg(1, model.TipoSalida, 10, 9, 0),
		reg(1, model.TipoEntrada, 10, 10, 0),
		reg(1, model.TipoSalida, 10, 18, 0),
	})
	j := jornadas[0]
	if len(j.Pares) != 1 {
		t.Fatalf("pares = %d, want 1", len(j.Pares))
	}
	if j.MinutosTotales != 480 {
		t.Errorf("minutos = %d, want 480", j.MinutosTotales)
	}
	if len(j.Registros) != 3 {
		t.Errorf("la salida ignorada debe conservarse: registros = %d, want 3", len(j.Registros))
	}
}

func TestAgrupacionUsaFechaLocalNoUTC(t *testing.T) {
	// 23:59 wall-clock and 00:01 the next day must land in two groups even
	// though a UTC-offset interpretation could merge them.
	jornadas := asistencia.AgruparPorEmpleadoYFecha([]model.Registro{
		reg(1, model.TipoEntrada, 10, 23, 59),
		reg(1, model.TipoSalida, 11, 0, 1),
	})
	if len(jornadas) != 2 {
		t.Fatalf("jornadas = %d, want 2", len(jornadas))
	}
	for _, j := range jornadas {
		if j.Estatus != asistencia.EstatusIncompleto {
			t.Errorf("fecha %v: estatus = %q, want INCOMPLETO", j.Fecha, j.Estatus)
		}
	}
}

func TestAgrupacionSeparaEmpleados(t *testing.T) {
	jornadas := asistencia.AgruparPorEmpleadoYFecha([]model.Registro{
		reg(1, model.TipoEntrada, 10, 8, 0),
		reg(2, model.TipoEntrada, 10, 8, 5),
		reg(1, model.TipoSalida, 10, 16, 0),
		reg(2, model.TipoSalida, 10, 17, 5),
	})
	if len(jornadas) != 2 {
		t.Fatalf("jornadas = %d, want 2", len(jornadas))
	}
	for _, j := range jornadas {
		if len(j.Pares) != 1 {
			t.Errorf("empleado %d: pares = %d, want 1", j.EmpleadoID, len(j.Pares))
		}
	}
}

func TestFormatearMinutos(t *testing.T) {
	tests := []struct {
		minutos int
		want    string
	}{
		{0, "0h 00m"},
		{5, "0h 05m"},
		{60, "1h 00m"},
		{480, "8h 00m"},
		{485, "8h 05m"},
		{615, "10h 15m"},
	}
	for _, tt := range tests {
		if got := asistencia.FormatearMinutos(tt.minutos); got != tt.want {
			t.Errorf("FormatearMinutos(%d) = %q, want %q", tt.minutos, got, tt.want)
		}
	}
}

func TestFaltasBarreRangoPorDia(t *testing.T) {
	empleados := []model.Empleado{
		{ID: 1, CodigoEmpleado: "EMP001", Nombre: "Ana", Apellido: "Lopez", Activo: true},
		{ID: 2, CodigoEmpleado: "EMP002", Nombre: "Luis", Apellido: "Mora", Activo: true},
	}
	// Employee 2 has no entrada on day 11 of a 3-day range.
	registros := []model.Registro{
		reg(1, model.TipoEntrada, 10, 8, 0),
		reg(2, model.TipoEntrada, 10, 8, 0),
		reg(1, model.TipoEntrada, 11, 8, 0),
		reg(1, model.TipoEntrada, 12, 8, 0),
		reg(2, model.TipoEntrada, 12, 8, 0),
	}
	inicio := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)

	faltas := asistencia.Faltas(empleados, registros, inicio, fin)
	if len(faltas) != 1 {
		t.Fatalf("faltas = %d, want 1", len(faltas))
	}
	f := faltas[0]
	if f.Empleado.ID != 2 {
		t.Errorf("empleado = %d, want 2", f.Empleado.ID)
	}
	if f.Fecha.Day() != 11 {
		t.Errorf("fecha = %v, want dia 11", f.Fecha)
	}
	if f.Observacion != asistencia.ObservacionSinEntrada {
		t.Errorf("observacion = %q", f.Observacion)
	}
}

func TestFaltasIgnoraInactivosYSalidas(t *testing.T) {
	empleados := []model.Empleado{
		{ID: 1, Activo: true},
		{ID: 2, Activo: false},
	}
	// A salida does not count as presence.
	registros := []model.Registro{reg(1, model.TipoSalida, 10, 18, 0)}
	dia := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	faltas := asistencia.Faltas(empleados, registros, dia, dia)
	if len(faltas) != 1 {
		t.Fatalf("faltas = %d, want 1 (solo el activo)", len(faltas))
	}
	if faltas[0].Empleado.ID != 1 {
		t.Errorf("empleado = %d, want 1", faltas[0].Empleado.ID)
	}
}

func TestRangoFechasInclusivo(t *testing.T) {
	inicio := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	fechas := asistencia.RangoFechas(inicio, fin)
	if len(fechas) != 3 {
		t.Fatalf("fechas = %d, want 3", len(fechas))
	}
	if fechas[0].Day() != 10 || fechas[2].Day() != 12 {
		t.Errorf("rango = %v..%v, want 10..12", fechas[0], fechas[2])
	}
}

func TestResumenEjecutivoAgrupaSoloPorFecha(t *testing.T) {
	// Two employees mixed in the same date bucket: pairing crosses employees
	// on purpose, matching the on-screen executive report.
	registros := []model.Registro{
		reg(1, model.TipoEntrada, 10, 8, 0),
		reg(2, model.TipoSalida, 10, 9, 0),
		reg(1, model.TipoEntrada, 11, 8, 0),
		reg(1, model.TipoSalida, 11, 16, 0),
	}
	res := asistencia.ResumenEjecutivo(registros)
	if res.CheckIns != 2 {
		t.Errorf("check-ins = %d, want 2", res.CheckIns)
	}
	if res.CheckOuts != 2 {
		t.Errorf("check-outs = %d, want 2", res.CheckOuts)
	}
	// Day 10: (E emp1 8:00, S emp2 9:00) pairs for 60. Day 11: 480.
	if res.MinutosTotales != 540 {
		t.Errorf("minutos = %d, want 540", res.MinutosTotales)
	}
	if got := res.FormatoHM(); got != "9:00" {
		t.Errorf("formato = %q, want \"9:00\"", got)
	}
}

func TestResumenEjecutivoDescartaMinutosNegativos(t *testing.T) {
	registros := []model.Registro{
		reg(1, model.TipoEntrada, 10, 18, 0),
		{EmpleadoID: 1, TipoRegistro: model.TipoSalida, FechaHora: time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)},
	}
	// Same timestamp: zero minutes, not negative, not counted.
	res := asistencia.ResumenEjecutivo(registros)
	if res.MinutosTotales != 0 {
		t.Errorf("minutos = %d, want 0", res.MinutosTotales)
	}
}
