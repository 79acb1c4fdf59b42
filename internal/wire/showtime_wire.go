package wire

import (
	"cinema-reservations/internal/adaptor"
	"cinema-reservations/pkg/middleware"
	"cinema-reservations/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireShowtime(
	r chi.Router,
	showtimeHandler *adaptor.ShowtimeHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== STAFF ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.Auth.JWTSecret, log))
		r.Use(middleware.Staff(log))

		// POST /Funcion - schedule a showtime
		r.Post("/Funcion", showtimeHandler.CreateShowtime)

		// PUT /Funcion/... - edit a showtime
		r.Put("/Funcion/{idSala}/{fechaHoraFuncion}", showtimeHandler.UpdateShowtime)

		// DELETE /Funcion/... - deactivate (never physically removes)
		r.Delete("/Funcion/{idSala}/{fechaHoraFuncion}", showtimeHandler.DeactivateShowtime)
	})

	// ==================== PUBLIC ROUTES ====================
	// GET /Funciones?idSala=... - showtimes for one room
	r.Get("/Funciones", showtimeHandler.ListShowtimes)
}
