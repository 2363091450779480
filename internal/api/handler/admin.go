package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Jorge200118/checador-qr/internal/core/model"
	"github.com/Jorge200118/checador-qr/internal/ports/repository"
	"github.com/gorilla/mux"
)

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (h *ChecadorHandler) ListarEmpleados(w http.ResponseWriter, r *http.Request) {
	empleados, err := h.Service.Empleados(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, empleados)
}

func (h *ChecadorHandler) ObtenerEmpleado(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	empleado, err := h.Service.EmpleadoPorID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, empleado)
}

func (h *ChecadorHandler) CrearEmpleado(w http.ResponseWriter, r *http.Request) {
	var empleado model.Empleado
	if err := json.NewDecoder(r.Body).Decode(&empleado); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if empleado.CodigoEmpleado == "" || empleado.Nombre == "" {
		http.Error(w, "codigo_empleado and nombre are required", http.StatusBadRequest)
		return
	}

	creado, err := h.Service.CrearEmpleado(r.Context(), &empleado)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, creado)
}

func (h *ChecadorHandler) ActualizarEmpleado(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	var empleado model.Empleado
	if err := json.NewDecoder(r.Body).Decode(&empleado); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	empleado.ID = id

	if err := h.Service.ActualizarEmpleado(r.Context(), &empleado); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, empleado)
}

// EliminarEmpleado is the hard-delete path; CambiarEmpleadoActivo is the
// normal deactivation flow.
func (h *ChecadorHandler) EliminarEmpleado(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Service.EliminarEmpleado(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type CambiarActivoRequest struct {
	Activo bool `json:"activo"`
}

func (h *ChecadorHandler) CambiarEmpleadoActivo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	var req CambiarActivoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Service.CambiarEmpleadoActivo(r.Context(), id, req.Activo); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "activo": req.Activo})
}

func (h *ChecadorHandler) ObtenerQREmpleado(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	qr, err := h.Service.QRPorEmpleado(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if qr == nil {
		http.Error(w, "QR config not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, qr)
}

func (h *ChecadorHandler) ListarHorarios(w http.ResponseWriter, r *http.Request) {
	horarios, err := h.Service.Horarios(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, horarios)
}

// ListarRegistros returns the raw registros of the range plus the derived
// jornadas the admin table renders.
func (h *ChecadorHandler) ListarRegistros(w http.ResponseWriter, r *http.Request) {
	inicio, err := parseFecha(r, "inicio")
	if err != nil {
		http.Error(w, "inicio must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	fin, err := parseFecha(r, "fin")
	if err != nil {
		http.Error(w, "fin must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	filtro := repository.FiltroRegistros{
		Tipo:     model.TipoRegistro(r.URL.Query().Get("tipo")),
		Sucursal: r.URL.Query().Get("sucursal"),
		Puesto:   r.URL.Query().Get("puesto"),
	}
	if s := r.URL.Query().Get("empleado_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			http.Error(w, "Invalid empleado_id", http.StatusBadRequest)
			return
		}
		filtro.EmpleadoID = &id
	}

	registros, jornadas, err := h.Service.Registros(r.Context(), inicio, fin, filtro)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"registros": registros,
		"jornadas":  jornadas,
	})
}

func (h *ChecadorHandler) FotosRegistro(w http.ResponseWriter, r *http.Request) {
	empleadoID, err := strconv.ParseInt(r.URL.Query().Get("empleado_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid empleado_id", http.StatusBadRequest)
		return
	}
	fecha, err := parseFecha(r, "fecha")
	if err != nil {
		http.Error(w, "fecha must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	fotos, err := h.Service.FotosRegistro(r.Context(), empleadoID, fecha)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fotos)
}

func (h *ChecadorHandler) Estadisticas(w http.ResponseWriter, r *http.Request) {
	est, err := h.Service.Estadisticas(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, est)
}

func (h *ChecadorHandler) EmpleadosPresentes(w http.ResponseWriter, r *http.Request) {
	presentes, err := h.Service.EmpleadosPresentes(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, presentes)
}

func (h *ChecadorHandler) RegistrosRecientes(w http.ResponseWriter, r *http.Request) {
	recientes, err := h.Service.RegistrosRecientes(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, recientes)
}
