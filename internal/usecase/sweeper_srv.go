package usecase

import (
	"context"
	"time"

	"cinema-reservations/internal/data/repository"
	"cinema-reservations/pkg/utils"

	"go.uber.org/zap"
)

// expiredHoldBatch bounds how many holds one tick processes so a burst
// of expirations cannot stall the loop.
const expiredHoldBatch = 100

type SweeperService interface {
	// Run blocks sweeping until the context is cancelled. Each tick
	// reclaims expired pending holds and marks finished confirmed
	// reservations as no-shows.
	Run(ctx context.Context)

	// Sweep performs a single pass.
	Sweep(ctx context.Context) (reclaimed int, noShows int64)
}

type sweeperService struct {
	repo        *repository.Repository
	reservation ReservationService
	config      *utils.Config
	log         *zap.Logger
	now         func() time.Time
}

func NewSweeperService(repo *repository.Repository, reservation ReservationService, config *utils.Config, log *zap.Logger) SweeperService {
	return &sweeperService{
		repo:        repo,
		reservation: reservation,
		config:      config,
		log:         log.With(zap.String("service", "sweeper")),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *sweeperService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.config.Sweeper.Interval)
	defer ticker.Stop()

	s.log.Info("Sweeper started", zap.Duration("interval", s.config.Sweeper.Interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *sweeperService) Sweep(ctx context.Context) (int, int64) {
	now := s.now()

	expired, err := s.repo.Reservation.FindExpiredHolds(ctx, now, expiredHoldBatch)
	if err != nil {
		s.log.Error("Failed to scan for expired holds", zap.Error(err))
		return 0, 0
	}

	reclaimed := 0
	for _, res := range expired {
		// The per-row CAS inside CancelExpired makes losing to a
		// concurrent confirm a quiet no-op.
		won, err := s.reservation.CancelExpired(ctx, res)
		if err != nil {
			s.log.Error("Failed to reclaim expired hold",
				zap.Error(err),
				zap.String("dni", res.DNI),
				zap.String("room_id", res.RoomID.String()),
				zap.Time("showtime", res.ShowtimeStart),
			)
			continue
		}
		if won {
			reclaimed++
		}
	}

	noShows, err := s.repo.Reservation.MarkNoShows(ctx, now)
	if err != nil {
		s.log.Error("Failed to mark no-shows", zap.Error(err))
	}

	if reclaimed > 0 || noShows > 0 {
		s.log.Info("Sweep completed",
			zap.Int("reclaimed_holds", reclaimed),
			zap.Int64("no_shows", noShows),
		)
	}

	return reclaimed, noShows
}
