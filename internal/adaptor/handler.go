package adaptor

import (
	"cinema-reservations/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Catalog     *CatalogHandler
	Showtime    *ShowtimeHandler
	Reservation *ReservationHandler
	CheckIn     *CheckInHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Catalog:     NewCatalogHandler(service.Catalog, log),
		Showtime:    NewShowtimeHandler(service.Showtime, log),
		Reservation: NewReservationHandler(service.Reservation, log),
		CheckIn:     NewCheckInHandler(service.CheckIn, log),
	}
}
