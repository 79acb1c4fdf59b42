package wire

import (
	"cinema-reservations/internal/adaptor"
	"cinema-reservations/pkg/middleware"
	"cinema-reservations/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCheckIn(
	r chi.Router,
	checkInHandler *adaptor.CheckInHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// The scanner at the door authenticates as staff.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.Auth.JWTSecret, log))
		r.Use(middleware.Staff(log))

		// POST /qr/validate - consume a reservation QR
		r.Post("/qr/validate", checkInHandler.ValidateQR)
	})
}
