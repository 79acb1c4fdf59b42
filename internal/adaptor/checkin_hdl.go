package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-reservations/internal/dto/request"
	"cinema-reservations/internal/usecase"
	"cinema-reservations/pkg/utils"

	"go.uber.org/zap"
)

type CheckInHandler struct {
	service usecase.CheckInService
	log     *zap.Logger
}

func NewCheckInHandler(service usecase.CheckInService, log *zap.Logger) *CheckInHandler {
	return &CheckInHandler{
		service: service,
		log:     log.With(zap.String("handler", "checkin")),
	}
}

// ValidateQR handles POST /qr/validate (staff only). The scanner shows
// the code from the response body; the HTTP status is secondary.
func (h *CheckInHandler) ValidateQR(w http.ResponseWriter, r *http.Request) {
	var req request.ValidateQRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	summary, err := h.service.CheckIn(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "validate QR")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}
