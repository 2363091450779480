package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Jorge200118/checador-qr/internal/api/handler"
	"github.com/Jorge200118/checador-qr/internal/core"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(service *core.ChecadorService) *mux.Router {

	h := handler.ChecadorHandler{Service: service}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	// Kiosk surface
	api.HandleFunc("/kiosko/validar-qr", h.ValidarQR).Methods(http.MethodPost)
	api.HandleFunc("/kiosko/registros", h.CrearRegistro).Methods(http.MethodPost)

	// Admin surface
	api.HandleFunc("/empleados", h.ListarEmpleados).Methods(http.MethodGet)
	api.HandleFunc("/empleados", h.CrearEmpleado).Methods(http.MethodPost)
	api.HandleFunc("/empleados/{id}", h.ObtenerEmpleado).Methods(http.MethodGet)
	api.HandleFunc("/empleados/{id}", h.ActualizarEmpleado).Methods(http.MethodPut)
	api.HandleFunc("/empleados/{id}", h.EliminarEmpleado).Methods(http.MethodDelete)
	api.HandleFunc("/empleados/{id}/activo", h.CambiarEmpleadoActivo).Methods(http.MethodPatch)
	api.HandleFunc("/empleados/{id}/qr", h.ObtenerQREmpleado).Methods(http.MethodGet)
	api.HandleFunc("/horarios", h.ListarHorarios).Methods(http.MethodGet)
	api.HandleFunc("/registros", h.ListarRegistros).Methods(http.MethodGet)
	api.HandleFunc("/registros/fotos", h.FotosRegistro).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/estadisticas", h.Estadisticas).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/presentes", h.EmpleadosPresentes).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/recientes", h.RegistrosRecientes).Methods(http.MethodGet)
	api.HandleFunc("/reportes/faltas", h.ReporteFaltas).Methods(http.MethodGet)
	api.HandleFunc("/reportes/asistencias", h.ReporteAsistencias).Methods(http.MethodGet)
	api.HandleFunc("/reportes/resumen-ejecutivo", h.ResumenEjecutivo).Methods(http.MethodPost)

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	return r
}
