package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-reservations/internal/dto/request"
	"cinema-reservations/internal/usecase"
	"cinema-reservations/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ShowtimeHandler struct {
	service usecase.ShowtimeService
	log     *zap.Logger
}

func NewShowtimeHandler(service usecase.ShowtimeService, log *zap.Logger) *ShowtimeHandler {
	return &ShowtimeHandler{
		service: service,
		log:     log.With(zap.String("handler", "showtime")),
	}
}

// CreateShowtime handles POST /Funcion (staff only)
func (h *ShowtimeHandler) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.CreateShowtimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	showtime, err := h.service.CreateShowtime(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create showtime")
		return
	}

	utils.ResponseCreated(w, "success", showtime)
}

// UpdateShowtime handles PUT /Funcion/{idSala}/{fechaHoraFuncion} (staff only)
func (h *ShowtimeHandler) UpdateShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateShowtimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	showtime, err := h.service.UpdateShowtime(r.Context(),
		chi.URLParam(r, "idSala"),
		chi.URLParam(r, "fechaHoraFuncion"),
		&req,
	)
	if err != nil {
		writeServiceError(w, h.log, err, "update showtime")
		return
	}

	utils.ResponseSuccess(w, "success", showtime)
}

// DeactivateShowtime handles DELETE /Funcion/{idSala}/{fechaHoraFuncion} (staff only).
// Removal never deletes the row: sold reservations keep pointing at it.
func (h *ShowtimeHandler) DeactivateShowtime(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeactivateShowtime(r.Context(),
		chi.URLParam(r, "idSala"),
		chi.URLParam(r, "fechaHoraFuncion"),
	)
	if err != nil {
		writeServiceError(w, h.log, err, "deactivate showtime")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ListShowtimes handles GET /Funciones?idSala=... (public)
func (h *ShowtimeHandler) ListShowtimes(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("idSala")
	if roomID == "" {
		utils.ResponseBadRequest(w, "idSala is required", nil)
		return
	}

	showtimes, err := h.service.ListByRoom(r.Context(), roomID)
	if err != nil {
		writeServiceError(w, h.log, err, "list showtimes")
		return
	}

	utils.ResponseSuccess(w, "success", showtimes)
}
