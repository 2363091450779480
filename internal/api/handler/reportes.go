package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Jorge200118/checador-qr/internal/core/model"
	"github.com/Jorge200118/checador-qr/internal/export"
)

func respondCSV(w http.ResponseWriter, archivo *export.Archivo) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archivo.Nombre))
	w.WriteHeader(http.StatusOK)
	w.Write(archivo.Contenido)
}

func (h *ChecadorHandler) rangoReporte(r *http.Request) (time.Time, time.Time, error) {
	inicio, err := parseFecha(r, "inicio")
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("inicio must be YYYY-MM-DD")
	}
	fin, err := parseFecha(r, "fin")
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("fin must be YYYY-MM-DD")
	}
	return inicio, fin, nil
}

// ReporteFaltas streams the absence CSV for the range. Large ranges are the
// caller's problem: the sweep emits days × absent employees rows unbounded.
func (h *ChecadorHandler) ReporteFaltas(w http.ResponseWriter, r *http.Request) {
	inicio, fin, err := h.rangoReporte(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	archivo, err := h.Service.ReporteFaltas(r.Context(), inicio, fin)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCSV(w, archivo)
}

func (h *ChecadorHandler) ReporteAsistencias(w http.ResponseWriter, r *http.Request) {
	inicio, fin, err := h.rangoReporte(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	archivo, err := h.Service.ReporteAsistencias(r.Context(), inicio, fin)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCSV(w, archivo)
}

type ResumenEjecutivoRequest struct {
	Inicio      string   `json:"inicio"`
	Fin         string   `json:"fin"`
	EmpleadoIDs []int64  `json:"empleado_ids"`
	Fechas      []string `json:"fechas,omitempty"`
}

// ResumenEjecutivo aggregates the caller-selected employee/date subset of
// the on-screen records into one productivity total.
func (h *ChecadorHandler) ResumenEjecutivo(w http.ResponseWriter, r *http.Request) {
	var req ResumenEjecutivoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	inicio, err := time.Parse(model.FechaLayout, req.Inicio)
	if err != nil {
		http.Error(w, "inicio must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	fin, err := time.Parse(model.FechaLayout, req.Fin)
	if err != nil {
		http.Error(w, "fin must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if len(req.EmpleadoIDs) == 0 {
		http.Error(w, "empleado_ids is required", http.StatusBadRequest)
		return
	}

	resumen, err := h.Service.ResumenEjecutivo(r.Context(), inicio, fin, req.EmpleadoIDs, req.Fechas)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"registros_check_in":     resumen.CheckIns,
		"registros_check_out":    resumen.CheckOuts,
		"total_laborado_minutos": resumen.MinutosTotales,
		"total_laborado_formato": resumen.FormatoHM(),
		"fecha_generacion":       time.Now(),
	})
}
