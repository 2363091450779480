package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Jorge200118/checador-qr/internal/core"
	"github.com/Jorge200118/checador-qr/internal/core/model"
)

type ChecadorHandler struct {
	Service *core.ChecadorService
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError maps the core error taxonomy onto HTTP statuses. Admission
// failures are conflicts, unknown codes and employees are not-found, bad
// ranges are client errors; anything else is a 500 with a generic message.
func respondError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, core.ErrCodigoInvalido), errors.Is(err, core.ErrEmpleadoNoEncontrado):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrEntradaDuplicada), errors.Is(err, core.ErrSinEntrada), errors.Is(err, core.ErrSalidaRegistrada):
		status = http.StatusConflict
	case errors.Is(err, core.ErrRangoInvalido):
		status = http.StatusBadRequest
	default:
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Error interno del servidor"})
		return
	}
	respondJSON(w, status, map[string]any{"error": err.Error()})
}

type ValidarQRRequest struct {
	Codigo string `json:"codigo"`
}

// ValidarQR is the kiosk's first step after decoding a scan: read-only
// validation of the code and the admission rules.
func (h *ChecadorHandler) ValidarQR(w http.ResponseWriter, r *http.Request) {
	var req ValidarQRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Codigo == "" {
		http.Error(w, "codigo is required", http.StatusBadRequest)
		return
	}

	validacion, err := h.Service.ValidarQR(r.Context(), req.Codigo)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, validacion)
}

type CrearRegistroRequest struct {
	EmpleadoID int64              `json:"empleado_id"`
	Tipo       model.TipoRegistro `json:"tipo_registro"`
	Codigo     string             `json:"codigo"`
	TabletID   string             `json:"tablet_id"`
	BloqueID   *int64             `json:"bloque_id,omitempty"`
	FotoBase64 string             `json:"foto_base64,omitempty"`
}

// CrearRegistro is the kiosk's second step: persist the event validated
// moments before, with the confirmation photo when the camera produced one.
func (h *ChecadorHandler) CrearRegistro(w http.ResponseWriter, r *http.Request) {
	var req CrearRegistroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.EmpleadoID == 0 || req.TabletID == "" {
		http.Error(w, "empleado_id and tablet_id are required", http.StatusBadRequest)
		return
	}
	if req.Tipo != model.TipoEntrada && req.Tipo != model.TipoSalida {
		http.Error(w, "tipo_registro must be ENTRADA or SALIDA", http.StatusBadRequest)
		return
	}

	registro, err := h.Service.CrearRegistro(r.Context(), core.NuevoRegistro{
		EmpleadoID: req.EmpleadoID,
		Tipo:       req.Tipo,
		QRCode:     req.Codigo,
		TabletID:   req.TabletID,
		BloqueID:   req.BloqueID,
		FotoBase64: req.FotoBase64,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, registro)
}

func (h *ChecadorHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Salud(r.Context()); err != nil {
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Service is operational."))
}

// parseFecha reads one "2006-01-02" query parameter.
func parseFecha(r *http.Request, nombre string) (time.Time, error) {
	return time.Parse(model.FechaLayout, r.URL.Query().Get(nombre))
}
