package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Jorge200118/checador-qr/internal/core/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ChecadorRepository is the concrete implementation for a PostgreSQL database.
type ChecadorRepository struct {
	DB *sql.DB
}

// NewChecadorRepository create new instance
func NewChecadorRepository(db *sql.DB) Repository {
	return &ChecadorRepository{DB: db}
}

// Ping runs the same cheap read the kiosk health check always used.
func (r *ChecadorRepository) Ping(ctx context.Context) error {
	var id int64
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM horarios LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	return err
}

const empleadoColumns = `e.id, e.codigo_empleado, e.nombre, e.apellido, e.sucursal, e.puesto,
       e.activo, e.horario_id, e.foto_perfil, e.trabaja_domingo, COALESCE(h.nombre, '')`

func scanEmpleado(row interface{ Scan(...any) error }) (*model.Empleado, error) {
	e := &model.Empleado{}
	err := row.Scan(&e.ID, &e.CodigoEmpleado, &e.Nombre, &e.Apellido, &e.Sucursal, &e.Puesto,
		&e.Activo, &e.HorarioID, &e.FotoPerfil, &e.TrabajaDomingo, &e.HorarioNombre)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetEmpleados lists every employee, active or not, with its schedule name.
func (r *ChecadorRepository) GetEmpleados(ctx context.Context) ([]model.Empleado, error) {
	query := `SELECT ` + empleadoColumns + `
              FROM empleados e
              LEFT JOIN horarios h ON h.id = e.horario_id
              ORDER BY e.codigo_empleado`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var empleados []model.Empleado
	for rows.Next() {
		e, err := scanEmpleado(rows)
		if err != nil {
			return nil, err
		}
		empleados = append(empleados, *e)
	}
	return empleados, rows.Err()
}

func (r *ChecadorRepository) GetEmpleadoByID(ctx context.Context, id int64) (*model.Empleado, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.empleadoId", id))

	query := `SELECT ` + empleadoColumns + `
              FROM empleados e
              LEFT JOIN horarios h ON h.id = e.horario_id
              WHERE e.id = $1`

	e, err := scanEmpleado(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (r *ChecadorRepository) CreateEmpleado(ctx context.Context, e *model.Empleado) (int64, error) {
	var id int64
	query := `INSERT INTO empleados (codigo_empleado, nombre, apellido, sucursal, puesto, activo, horario_id, foto_perfil, trabaja_domingo)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	err := r.DB.QueryRowContext(ctx, query,
		e.CodigoEmpleado, e.Nombre, e.Apellido, e.Sucursal, e.Puesto,
		e.Activo, e.HorarioID, e.FotoPerfil, e.TrabajaDomingo).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ChecadorRepository) UpdateEmpleado(ctx context.Context, e *model.Empleado) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.empleadoId", e.ID))

	query := `UPDATE empleados
              SET codigo_empleado = $1,
                  nombre = $2,
                  apellido = $3,
                  sucursal = $4,
                  puesto = $5,
                  horario_id = $6,
                  foto_perfil = $7,
                  trabaja_domingo = $8
              WHERE id = $9`

	_, err := r.DB.ExecContext(ctx, query,
		e.CodigoEmpleado, e.Nombre, e.Apellido, e.Sucursal, e.Puesto,
		e.HorarioID, e.FotoPerfil, e.TrabajaDomingo, e.ID)
	return err
}

// DeleteEmpleado is the hard-delete path; normal flow deactivates instead.
func (r *ChecadorRepository) DeleteEmpleado(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM empleados WHERE id = $1`, id)
	return err
}

func (r *ChecadorRepository) SetEmpleadoActivo(ctx context.Context, id int64, activo bool) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.empleadoId", id))
	_, err := r.DB.ExecContext(ctx, `UPDATE empleados SET activo = $1 WHERE id = $2`, activo, id)
	return err
}

func (r *ChecadorRepository) GetHorarios(ctx context.Context) ([]model.Horario, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, nombre, descripcion, activo FROM horarios ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var horarios []model.Horario
	for rows.Next() {
		var h model.Horario
		if err := rows.Scan(&h.ID, &h.Nombre, &h.Descripcion, &h.Activo); err != nil {
			return nil, err
		}
		horarios = append(horarios, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range horarios {
		bloques, err := r.GetBloques(ctx, horarios[i].ID)
		if err != nil {
			return nil, err
		}
		horarios[i].Bloques = bloques
	}
	return horarios, nil
}

func (r *ChecadorRepository) GetBloques(ctx context.Context, horarioID int64) ([]model.Bloque, error) {
	query := `SELECT id, horario_id, orden_bloque, hora_entrada, hora_salida,
                     tolerancia_entrada_min, tolerancia_salida_min, descripcion
              FROM bloques_horario
              WHERE horario_id = $1
              ORDER BY orden_bloque`

	rows, err := r.DB.QueryContext(ctx, query, horarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bloques []model.Bloque
	for rows.Next() {
		var b model.Bloque
		if err := rows.Scan(&b.ID, &b.HorarioID, &b.OrdenBloque, &b.HoraEntrada, &b.HoraSalida,
			&b.ToleranciaEntradaMin, &b.ToleranciaSalidaMin, &b.Descripcion); err != nil {
			return nil, err
		}
		bloques = append(bloques, b)
	}
	return bloques, rows.Err()
}

// FindQRConfigByCodigo resolves a scanned code against the configured QR
// strings, active configs only, returning the owning employee alongside.
func (r *ChecadorRepository) FindQRConfigByCodigo(ctx context.Context, codigo string) (*model.ConfiguracionQR, *model.Empleado, error) {
	query := `SELECT c.id, c.empleado_id, c.qr_entrada, c.qr_salida, c.activo, ` + empleadoColumns + `
              FROM configuracion_qr c
              JOIN empleados e ON e.id = c.empleado_id
              LEFT JOIN horarios h ON h.id = e.horario_id
              WHERE (c.qr_entrada = $1 OR c.qr_salida = $1) AND c.activo = true`

	c := &model.ConfiguracionQR{}
	e := &model.Empleado{}
	err := r.DB.QueryRowContext(ctx, query, codigo).Scan(
		&c.ID, &c.EmpleadoID, &c.QREntrada, &c.QRSalida, &c.Activo,
		&e.ID, &e.CodigoEmpleado, &e.Nombre, &e.Apellido, &e.Sucursal, &e.Puesto,
		&e.Activo, &e.HorarioID, &e.FotoPerfil, &e.TrabajaDomingo, &e.HorarioNombre)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.empleadoId", e.ID))
	return c, e, nil
}

func (r *ChecadorRepository) GetQRConfigByEmpleado(ctx context.Context, empleadoID int64) (*model.ConfiguracionQR, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.empleadoId", empleadoID))

	query := `SELECT id, empleado_id, qr_entrada, qr_salida, activo
              FROM configuracion_qr
              WHERE empleado_id = $1`

	c := &model.ConfiguracionQR{}
	err := r.DB.QueryRowContext(ctx, query, empleadoID).Scan(
		&c.ID, &c.EmpleadoID, &c.QREntrada, &c.QRSalida, &c.Activo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateRegistro inserts one attendance event. fecha_hora is sent as the
// wall-clock string; the column has no timezone and stores it verbatim.
func (r *ChecadorRepository) CreateRegistro(ctx context.Context, reg *model.Registro) (int64, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.empleadoId", reg.EmpleadoID))

	var id int64
	query := `INSERT INTO registros (empleado_id, tipo_registro, fecha_hora, qr_code, tablet_id,
                                     bloque_horario_id, foto_registro, observaciones,
                                     notificacion_estado, notificacion_reintentos)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0) RETURNING id`

	err := r.DB.QueryRowContext(ctx, query,
		reg.EmpleadoID, reg.TipoRegistro, reg.FechaHora.Format(model.FechaHoraLayout),
		reg.QRCode, reg.TabletID, reg.BloqueHorarioID, reg.FotoRegistro, reg.Observaciones,
		model.NotificacionPendiente).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

const registroColumns = `r.id, r.empleado_id, r.tipo_registro, r.fecha_hora, r.qr_code, r.tablet_id,
       r.bloque_horario_id, r.foto_registro, r.observaciones,
       r.notificacion_estado, r.notificacion_reintentos,
       e.nombre || ' ' || e.apellido, e.codigo_empleado, e.sucursal, e.puesto`

func scanRegistro(row interface{ Scan(...any) error }) (*model.Registro, error) {
	reg := &model.Registro{}
	err := row.Scan(&reg.ID, &reg.EmpleadoID, &reg.TipoRegistro, &reg.FechaHora, &reg.QRCode, &reg.TabletID,
		&reg.BloqueHorarioID, &reg.FotoRegistro, &reg.Observaciones,
		&reg.NotificacionEstado, &reg.NotificacionReintentos,
		&reg.EmpleadoNombre, &reg.EmpleadoCodigo, &reg.Sucursal, &reg.Puesto)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *ChecadorRepository) GetRegistro(ctx context.Context, id int64) (*model.Registro, error) {
	query := `SELECT ` + registroColumns + `
              FROM registros r
              JOIN empleados e ON e.id = r.empleado_id
              WHERE r.id = $1`

	reg, err := scanRegistro(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

// GetRegistrosByFecha returns every registro in the inclusive range,
// oldest first, with employee fields joined for display and grouping.
func (r *ChecadorRepository) GetRegistrosByFecha(ctx context.Context, inicio, fin time.Time, filtro FiltroRegistros) ([]model.Registro, error) {
	query := `SELECT ` + registroColumns + `
              FROM registros r
              JOIN empleados e ON e.id = r.empleado_id
              WHERE r.fecha_hora >= $1 AND r.fecha_hora <= $2`
	args := []any{inicio.Format(model.FechaHoraLayout), fin.Format(model.FechaHoraLayout)}

	if filtro.EmpleadoID != nil {
		args = append(args, *filtro.EmpleadoID)
		query += fmt.Sprintf(" AND r.empleado_id = $%d", len(args))
	}
	if filtro.Tipo != "" {
		args = append(args, filtro.Tipo)
		query += fmt.Sprintf(" AND r.tipo_registro = $%d", len(args))
	}
	if filtro.Sucursal != "" {
		args = append(args, filtro.Sucursal)
		query += fmt.Sprintf(" AND e.sucursal = $%d", len(args))
	}
	if filtro.Puesto != "" {
		args = append(args, filtro.Puesto)
		query += fmt.Sprintf(" AND e.puesto = $%d", len(args))
	}
	query += " ORDER BY r.fecha_hora"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registros []model.Registro
	for rows.Next() {
		reg, err := scanRegistro(rows)
		if err != nil {
			return nil, err
		}
		registros = append(registros, *reg)
	}
	return registros, rows.Err()
}

// FindUltimoRegistroDelDia returns the employee's most recent registro in
// the given day window, or nil if there is none.
func (r *ChecadorRepository) FindUltimoRegistroDelDia(ctx context.Context, empleadoID int64, inicio, fin time.Time) (*model.Registro, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.empleadoId", empleadoID))

	query := `SELECT ` + registroColumns + `
              FROM registros r
              JOIN empleados e ON e.id = r.empleado_id
              WHERE r.empleado_id = $1 AND r.fecha_hora >= $2 AND r.fecha_hora <= $3
              ORDER BY r.fecha_hora DESC
              LIMIT 1`

	reg, err := scanRegistro(r.DB.QueryRowContext(ctx, query, empleadoID,
		inicio.Format(model.FechaHoraLayout), fin.Format(model.FechaHoraLayout)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

// FindUltimaEntrada returns the employee's most recent ENTRADA on any day.
func (r *ChecadorRepository) FindUltimaEntrada(ctx context.Context, empleadoID int64) (*model.Registro, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.empleadoId", empleadoID))

	query := `SELECT ` + registroColumns + `
              FROM registros r
              JOIN empleados e ON e.id = r.empleado_id
              WHERE r.empleado_id = $1 AND r.tipo_registro = $2
              ORDER BY r.fecha_hora DESC
              LIMIT 1`

	reg, err := scanRegistro(r.DB.QueryRowContext(ctx, query, empleadoID, model.TipoEntrada))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

// ExisteSalidaPosterior reports whether the employee has a SALIDA strictly
// after the given timestamp.
func (r *ChecadorRepository) ExisteSalidaPosterior(ctx context.Context, empleadoID int64, despuesDe time.Time) (bool, error) {
	var id int64
	query := `SELECT id FROM registros
              WHERE empleado_id = $1 AND tipo_registro = $2 AND fecha_hora > $3
              LIMIT 1`

	err := r.DB.QueryRowContext(ctx, query, empleadoID, model.TipoSalida,
		despuesDe.Format(model.FechaHoraLayout)).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetFotosRegistro returns the day's registros that carry a photo.
func (r *ChecadorRepository) GetFotosRegistro(ctx context.Context, empleadoID int64, inicio, fin time.Time) ([]model.Registro, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("app.empleadoId", empleadoID))

	query := `SELECT ` + registroColumns + `
              FROM registros r
              JOIN empleados e ON e.id = r.empleado_id
              WHERE r.empleado_id = $1 AND r.fecha_hora >= $2 AND r.fecha_hora <= $3
                AND r.foto_registro IS NOT NULL
              ORDER BY r.fecha_hora`

	rows, err := r.DB.QueryContext(ctx, query, empleadoID,
		inicio.Format(model.FechaHoraLayout), fin.Format(model.FechaHoraLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registros []model.Registro
	for rows.Next() {
		reg, err := scanRegistro(rows)
		if err != nil {
			return nil, err
		}
		registros = append(registros, *reg)
	}
	return registros, rows.Err()
}

// UpdateNotificacionEstado updates the status and retry count for the
// salida-summary notification job. The attendance fields never change.
func (r *ChecadorRepository) UpdateNotificacionEstado(ctx context.Context, id int64, estado model.EstadoNotificacion, reintentos int) error {
	query := `UPDATE registros
              SET notificacion_estado = $1,
                  notificacion_reintentos = $2
              WHERE id = $3`

	_, err := r.DB.ExecContext(ctx, query, estado, reintentos, id)
	return err
}

// GetEstadisticas computes the dashboard counters for the day window.
func (r *ChecadorRepository) GetEstadisticas(ctx context.Context, inicio, fin time.Time) (*model.Estadisticas, error) {
	est := &model.Estadisticas{}

	query := `SELECT
                COUNT(*) FILTER (WHERE tipo_registro = $1),
                COUNT(*) FILTER (WHERE tipo_registro = $2)
              FROM registros
              WHERE fecha_hora >= $3 AND fecha_hora <= $4`
	err := r.DB.QueryRowContext(ctx, query, model.TipoEntrada, model.TipoSalida,
		inicio.Format(model.FechaHoraLayout), fin.Format(model.FechaHoraLayout)).
		Scan(&est.EntradasHoy, &est.SalidasHoy)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM empleados WHERE activo = true`).
		Scan(&est.EmpleadosActivos)
	if err != nil {
		return nil, err
	}

	presentes, err := r.GetEmpleadosPresentes(ctx, inicio, fin)
	if err != nil {
		return nil, err
	}
	est.Presentes = len(presentes)
	return est, nil
}

// GetEmpleadosPresentes returns, for each active employee whose most recent
// registro in the window is an ENTRADA, that entrada row.
func (r *ChecadorRepository) GetEmpleadosPresentes(ctx context.Context, inicio, fin time.Time) ([]model.Registro, error) {
	query := `SELECT DISTINCT ON (r.empleado_id) ` + registroColumns + `
              FROM registros r
              JOIN empleados e ON e.id = r.empleado_id
              WHERE r.fecha_hora >= $1 AND r.fecha_hora <= $2 AND e.activo = true
              ORDER BY r.empleado_id, r.fecha_hora DESC`

	rows, err := r.DB.QueryContext(ctx, query,
		inicio.Format(model.FechaHoraLayout), fin.Format(model.FechaHoraLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presentes []model.Registro
	for rows.Next() {
		reg, err := scanRegistro(rows)
		if err != nil {
			return nil, err
		}
		if reg.TipoRegistro == model.TipoEntrada {
			presentes = append(presentes, *reg)
		}
	}
	return presentes, rows.Err()
}

func (r *ChecadorRepository) GetRegistrosRecientes(ctx context.Context, limite int) ([]model.Registro, error) {
	query := `SELECT ` + registroColumns + `
              FROM registros r
              JOIN empleados e ON e.id = r.empleado_id
              ORDER BY r.fecha_hora DESC
              LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, limite)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registros []model.Registro
	for rows.Next() {
		reg, err := scanRegistro(rows)
		if err != nil {
			return nil, err
		}
		registros = append(registros, *reg)
	}
	return registros, rows.Err()
}
