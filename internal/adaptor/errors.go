package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"cinema-reservations/internal/usecase"
	"cinema-reservations/pkg/utils"

	"go.uber.org/zap"
)

// writeServiceError maps the service layer's coded errors onto the wire.
// The code travels verbatim inside error.code; the HTTP status is only a
// coarse bucket for generic clients.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var coded usecase.CodedError
	if errors.As(err, &coded) {
		status := http.StatusConflict
		var details any

		switch coded.ErrorCode() {
		case usecase.CodeNotFound:
			status = http.StatusNotFound
		case usecase.CodeInvalidToken:
			status = http.StatusBadRequest
		case usecase.CodeReleaseDateInvalid:
			status = http.StatusUnprocessableEntity
		}

		var unavailable *usecase.SeatsUnavailableError
		if errors.As(err, &unavailable) {
			details = map[string]any{"asientos": unavailable.Seats}
		}
		var overlap *usecase.ShowtimeOverlapError
		if errors.As(err, &overlap) {
			details = map[string]any{
				"idSala":           overlap.Conflicting.RoomID.String(),
				"fechaHoraFuncion": overlap.Conflicting.StartsAt,
				"fechaHoraFin":     overlap.Conflicting.EndsAt(),
			}
		}

		log.Warn(operation+" rejected",
			zap.String("code", coded.ErrorCode()),
			zap.Error(err),
		)
		utils.ResponseErrorCode(w, status, coded.ErrorCode(), coded.Error(), details)
		return
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "validation failed"),
		strings.Contains(msg, "invalid"),
		strings.Contains(msg, "duplicate"):
		log.Warn(operation+" failed - bad input", zap.Error(err))
		utils.ResponseBadRequest(w, msg, nil)
	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
