package usecase

import (
	"cinema-reservations/internal/data/repository"
	"cinema-reservations/pkg/cache"
	"cinema-reservations/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Catalog     CatalogService
	Showtime    ShowtimeService
	Reservation ReservationService
	CheckIn     CheckInService
	Sweeper     SweeperService
}

func NewService(repo *repository.Repository, cacheStore cache.Store, config *utils.Config, log *zap.Logger) *Service {
	reservation := NewReservationService(repo, cacheStore, config, log)

	return &Service{
		Catalog:     NewCatalogService(repo, log),
		Showtime:    NewShowtimeService(repo, log),
		Reservation: reservation,
		CheckIn:     NewCheckInService(repo, config, log),
		Sweeper:     NewSweeperService(repo, reservation, config, log),
	}
}
