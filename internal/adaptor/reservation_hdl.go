package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cinema-reservations/internal/dto/request"
	"cinema-reservations/internal/usecase"
	"cinema-reservations/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// CreateHold handles POST /AsientoReserva (protected)
func (h *ReservationHandler) CreateHold(w http.ResponseWriter, r *http.Request) {
	dni, ok := utils.GetDNIFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.StartHold(r.Context(), dni, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create hold")
		return
	}

	utils.ResponseCreated(w, "success", reservation)
}

// GetAvailability handles GET /AsientoReservas?idSala=...&fechaHoraFuncion=... (public)
func (h *ReservationHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	roomID := query.Get("idSala")
	showtimeStart := query.Get("fechaHoraFuncion")
	if roomID == "" || showtimeStart == "" {
		utils.ResponseBadRequest(w, "idSala and fechaHoraFuncion are required", nil)
		return
	}

	availability, err := h.service.Availability(r.Context(), roomID, showtimeStart)
	if err != nil {
		writeServiceError(w, h.log, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// Confirm handles POST /Reserva/confirm (payment provider callback)
func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.Confirm(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "confirm reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// Cancel handles DELETE /Reserva/{idSala}/{fechaHoraFuncion}/{dni}/{fechaReserva} (protected)
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	dni, ok := utils.GetDNIFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	// A customer only cancels their own reservation; staff may cancel any.
	pathDNI := chi.URLParam(r, "dni")
	role, _ := utils.GetRoleFromContext(r.Context())
	if pathDNI != dni && role != "staff" {
		utils.ResponseForbidden(w, "Cannot cancel another customer's reservation")
		return
	}

	err := h.service.Cancel(r.Context(),
		pathDNI,
		chi.URLParam(r, "idSala"),
		chi.URLParam(r, "fechaHoraFuncion"),
		chi.URLParam(r, "fechaReserva"),
	)
	if err != nil {
		writeServiceError(w, h.log, err, "cancel reservation")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// CancelSeat handles DELETE /Reserva/{idSala}/{fechaHoraFuncion}/{dni}/{fechaReserva}/Asiento/{fila}/{nro}
// (protected). The booking UI addresses the cancel through the seat the
// customer tapped; the seat must belong to the reservation.
func (h *ReservationHandler) CancelSeat(w http.ResponseWriter, r *http.Request) {
	dni, ok := utils.GetDNIFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	pathDNI := chi.URLParam(r, "dni")
	role, _ := utils.GetRoleFromContext(r.Context())
	if pathDNI != dni && role != "staff" {
		utils.ResponseForbidden(w, "Cannot cancel another customer's reservation")
		return
	}

	number, err := strconv.Atoi(chi.URLParam(r, "nro"))
	if err != nil {
		utils.ResponseBadRequest(w, "Seat number must be an integer", nil)
		return
	}

	err = h.service.CancelSeat(r.Context(),
		pathDNI,
		chi.URLParam(r, "idSala"),
		chi.URLParam(r, "fechaHoraFuncion"),
		chi.URLParam(r, "fechaReserva"),
		chi.URLParam(r, "fila"),
		number,
	)
	if err != nil {
		writeServiceError(w, h.log, err, "cancel reservation seat")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetReservation handles GET /Reserva/{idSala}/{fechaHoraFuncion}/{dni}/{fechaReserva} (protected)
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	dni, ok := utils.GetDNIFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	pathDNI := chi.URLParam(r, "dni")
	role, _ := utils.GetRoleFromContext(r.Context())
	if pathDNI != dni && role != "staff" {
		utils.ResponseForbidden(w, "Cannot view another customer's reservation")
		return
	}

	reservation, err := h.service.GetReservation(r.Context(),
		pathDNI,
		chi.URLParam(r, "idSala"),
		chi.URLParam(r, "fechaHoraFuncion"),
		chi.URLParam(r, "fechaReserva"),
	)
	if err != nil {
		writeServiceError(w, h.log, err, "get reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// ListByCustomer handles GET /Reservas/{dni} (protected)
func (h *ReservationHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	dni, ok := utils.GetDNIFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	pathDNI := chi.URLParam(r, "dni")
	role, _ := utils.GetRoleFromContext(r.Context())
	if pathDNI != dni && role != "staff" {
		utils.ResponseForbidden(w, "Cannot view another customer's reservations")
		return
	}

	reservations, err := h.service.ListByCustomer(r.Context(), pathDNI)
	if err != nil {
		writeServiceError(w, h.log, err, "list reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}
