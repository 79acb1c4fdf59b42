package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-reservations/internal/data/entity"
	"cinema-reservations/internal/data/repository"
	"cinema-reservations/internal/dto/request"
	"cinema-reservations/internal/dto/response"
	"cinema-reservations/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckInService interface {
	// CheckIn validates a door scan and consumes the reservation. A QR
	// admits exactly once: the attended transition is a compare-and-swap,
	// so two simultaneous scans of the same code produce one success.
	CheckIn(ctx context.Context, req *request.ValidateQRRequest) (*response.CheckInResponse, error)
}

type checkInService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewCheckInService(repo *repository.Repository, config *utils.Config, log *zap.Logger) CheckInService {
	return &checkInService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "checkin")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *checkInService) CheckIn(ctx context.Context, req *request.ValidateQRRequest) (*response.CheckInResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	payload, err := utils.ParseQRToken(s.config.Auth.QRSecret, req.EncryptedData)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	roomID, err := uuid.Parse(payload.RoomID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	key := entity.ReservationKey{
		DNI:           payload.DNI,
		RoomID:        roomID,
		ShowtimeStart: payload.ShowtimeStart,
		CreatedAt:     payload.ReservedAt,
	}

	res, err := s.repo.Reservation.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if res == nil {
		// A signed token for a reservation that does not exist is treated
		// the same as a forged one.
		return nil, ErrInvalidToken
	}

	switch res.Status {
	case entity.ReservationStatusCancelled:
		return nil, ErrReservationCancelled
	case entity.ReservationStatusAttended:
		return nil, ErrAlreadyUsed
	}

	showtime, err := s.repo.Showtime.FindByKey(ctx, entity.ShowtimeKey{RoomID: key.RoomID, StartsAt: key.ShowtimeStart})
	if err != nil {
		return nil, err
	}
	if showtime == nil {
		return nil, ErrShowtimeNotFound
	}

	now := s.now()
	if now.Before(showtime.StartsAt.Add(-s.config.CheckIn.GracePeriod)) {
		return nil, ErrFunctionNotStarted
	}
	if now.After(showtime.EndsAt()) {
		return nil, ErrFunctionAlreadyEnded
	}

	won, err := s.repo.Reservation.AttendCAS(ctx, key)
	if err != nil {
		return nil, err
	}
	if !won {
		// Lost the race since the read above. Re-read for the precise
		// rejection reason.
		current, err := s.repo.Reservation.FindByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if current != nil && current.Status == entity.ReservationStatusCancelled {
			return nil, ErrReservationCancelled
		}
		return nil, ErrAlreadyUsed
	}

	movie, err := s.repo.Movie.FindByID(ctx, showtime.MovieID)
	if err != nil {
		return nil, err
	}
	room, err := s.repo.Room.FindByID(ctx, key.RoomID)
	if err != nil {
		return nil, err
	}

	claims, err := s.repo.SeatClaim.FindBySet(ctx, res.ClaimSetID)
	if err != nil {
		return nil, err
	}

	out := &response.CheckInResponse{
		DNI:           res.DNI,
		ShowtimeStart: showtime.StartsAt,
		SeatCount:     len(claims),
	}
	if movie != nil {
		out.MovieTitle = movie.Title
	}
	if room != nil {
		out.RoomName = room.Name
	}

	s.log.Info("Check-in accepted",
		zap.String("dni", res.DNI),
		zap.String("room_id", key.RoomID.String()),
		zap.Time("showtime", key.ShowtimeStart),
		zap.Int("seats", len(claims)),
	)

	return out, nil
}
