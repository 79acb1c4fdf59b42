package wire

import (
	"cinema-reservations/internal/adaptor"
	"cinema-reservations/pkg/middleware"
	"cinema-reservations/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.Auth.JWTSecret, log))

		// POST /AsientoReserva - claim seats and open a hold
		r.Post("/AsientoReserva", reservationHandler.CreateHold)

		// GET /Reserva/... - one reservation by its natural key
		r.Get("/Reserva/{idSala}/{fechaHoraFuncion}/{dni}/{fechaReserva}", reservationHandler.GetReservation)

		// DELETE /Reserva/... - release a reservation (own, or any as staff)
		r.Delete("/Reserva/{idSala}/{fechaHoraFuncion}/{dni}/{fechaReserva}", reservationHandler.Cancel)

		// DELETE /Reserva/.../Asiento/{fila}/{nro} - same cancel, addressed
		// through one of the reservation's seats
		r.Delete("/Reserva/{idSala}/{fechaHoraFuncion}/{dni}/{fechaReserva}/Asiento/{fila}/{nro}", reservationHandler.CancelSeat)

		// GET /Reservas/{dni} - reservation history
		r.Get("/Reservas/{dni}", reservationHandler.ListByCustomer)
	})

	// ==================== PUBLIC ROUTES ====================
	// GET /AsientoReservas - seat map for one showtime
	r.Get("/AsientoReservas", reservationHandler.GetAvailability)

	// POST /Reserva/confirm - payment confirmation signal; the provider
	// authenticates out of band and may deliver the same signal twice
	r.Post("/Reserva/confirm", reservationHandler.Confirm)
}
