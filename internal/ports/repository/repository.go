package repository

import (
	"context"
	"time"

	"github.com/Jorge200118/checador-qr/internal/core/model"
)

// FiltroRegistros narrows a range query; zero values mean "no filter".
type FiltroRegistros struct {
	EmpleadoID *int64
	Tipo       model.TipoRegistro
	Sucursal   string
	Puesto     string
}

// Repository contract
type Repository interface {
	Ping(ctx context.Context) error

	GetEmpleados(ctx context.Context) ([]model.Empleado, error)
	GetEmpleadoByID(ctx context.Context, id int64) (*model.Empleado, error)
	CreateEmpleado(ctx context.Context, e *model.Empleado) (int64, error)
	UpdateEmpleado(ctx context.Context, e *model.Empleado) error
	DeleteEmpleado(ctx context.Context, id int64) error
	SetEmpleadoActivo(ctx context.Context, id int64, activo bool) error

	GetHorarios(ctx context.Context) ([]model.Horario, error)
	GetBloques(ctx context.Context, horarioID int64) ([]model.Bloque, error)

	FindQRConfigByCodigo(ctx context.Context, codigo string) (*model.ConfiguracionQR, *model.Empleado, error)
	GetQRConfigByEmpleado(ctx context.Context, empleadoID int64) (*model.ConfiguracionQR, error)

	CreateRegistro(ctx context.Context, r *model.Registro) (int64, error)
	GetRegistro(ctx context.Context, id int64) (*model.Registro, error)
	GetRegistrosByFecha(ctx context.Context, inicio, fin time.Time, filtro FiltroRegistros) ([]model.Registro, error)
	FindUltimoRegistroDelDia(ctx context.Context, empleadoID int64, inicio, fin time.Time) (*model.Registro, error)
	FindUltimaEntrada(ctx context.Context, empleadoID int64) (*model.Registro, error)
	ExisteSalidaPosterior(ctx context.Context, empleadoID int64, despuesDe time.Time) (bool, error)
	GetFotosRegistro(ctx context.Context, empleadoID int64, inicio, fin time.Time) ([]model.Registro, error)
	UpdateNotificacionEstado(ctx context.Context, id int64, estado model.EstadoNotificacion, reintentos int) error

	GetEstadisticas(ctx context.Context, inicio, fin time.Time) (*model.Estadisticas, error)
	GetEmpleadosPresentes(ctx context.Context, inicio, fin time.Time) ([]model.Registro, error)
	GetRegistrosRecientes(ctx context.Context, limite int) ([]model.Registro, error)
}
