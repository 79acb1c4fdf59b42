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
	"cinema-reservations/pkg/cache"
	"cinema-reservations/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationService interface {
	// StartHold claims the seats and creates a pending reservation whose
	// deadline the sweeper enforces. The hold TTL is server config, never
	// client input.
	StartHold(ctx context.Context, dni string, req *request.CreateHoldRequest) (*response.ReservationResponse, error)

	// Confirm moves a hold to confirmed on the payment signal and
	// returns the QR the customer presents at the door. Re-delivery of
	// the same signal is an idempotent success.
	Confirm(ctx context.Context, req *request.ConfirmReservationRequest) (*response.ReservationResponse, error)

	// Cancel releases the reservation's seats. Valid from pending or
	// confirmed; attended and no-show are terminal.
	Cancel(ctx context.Context, dni, roomID, showtimeStart, reservedAt string) error

	// CancelSeat is the seat-addressed form of Cancel the booking UI
	// calls: the row and number identify which claimed seat the customer
	// tapped, and must belong to the reservation. The cancellation
	// itself is reservation-level — all of the claim set is released.
	CancelSeat(ctx context.Context, dni, roomID, showtimeStart, reservedAt, row string, number int) error

	GetReservation(ctx context.Context, dni, roomID, showtimeStart, reservedAt string) (*response.ReservationResponse, error)
	ListByCustomer(ctx context.Context, dni string) ([]*response.ReservationResponse, error)

	// Availability serves the seat map, cache-aside with a short TTL.
	// Reads may be slightly stale; only the claim insert is authoritative.
	Availability(ctx context.Context, roomID, showtimeStart string) (*response.AvailabilityResponse, error)

	// CancelExpired is the sweeper's entry point: a pending-only
	// compare-and-swap that loses quietly to a concurrent confirm.
	CancelExpired(ctx context.Context, res *entity.Reservation) (bool, error)
}

type reservationService struct {
	repo   *repository.Repository
	cache  cache.Store
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewReservationService(repo *repository.Repository, cacheStore cache.Store, config *utils.Config, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:   repo,
		cache:  cacheStore,
		config: config,
		log:    log.With(zap.String("service", "reservation")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func availabilityCacheKey(roomID uuid.UUID, start time.Time) string {
	return fmt.Sprintf("availability:%s:%s", roomID.String(), start.Format(time.RFC3339))
}

func (s *reservationService) invalidateAvailability(ctx context.Context, roomID uuid.UUID, start time.Time) {
	if err := s.cache.Delete(ctx, availabilityCacheKey(roomID, start)); err != nil {
		// The snapshot TTL bounds how long the stale entry can live.
		s.log.Warn("Failed to invalidate availability cache", zap.Error(err))
	}
}

func parseReservationKey(dni, roomID, showtimeStart, reservedAt string) (entity.ReservationKey, error) {
	roomUUID, err := uuid.Parse(roomID)
	if err != nil {
		return entity.ReservationKey{}, fmt.Errorf("invalid room ID %s: %w", roomID, err)
	}
	start, err := utils.ParseTimeRFC3339(showtimeStart)
	if err != nil {
		return entity.ReservationKey{}, fmt.Errorf("invalid showtime start %s: %w", showtimeStart, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, reservedAt)
	if err != nil {
		return entity.ReservationKey{}, fmt.Errorf("invalid reservation timestamp %s: %w", reservedAt, err)
	}
	return entity.ReservationKey{
		DNI:           dni,
		RoomID:        roomUUID,
		ShowtimeStart: start,
		CreatedAt:     createdAt.UTC(),
	}, nil
}

func (s *reservationService) StartHold(ctx context.Context, dni string, req *request.CreateHoldRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	key, err := parseShowtimeKey(req.RoomID, req.ShowtimeStart)
	if err != nil {
		return nil, err
	}

	// Reject duplicates up front; the claim store would otherwise report
	// our own second copy as a conflict.
	seen := make(map[entity.SeatRef]struct{}, len(req.Seats))
	seats := make([]entity.SeatRef, 0, len(req.Seats))
	for _, seat := range req.Seats {
		ref := entity.SeatRef{RowLabel: seat.Row, SeatNumber: seat.Number}
		if _, dup := seen[ref]; dup {
			return nil, fmt.Errorf("duplicate seat %s%d in request", ref.RowLabel, ref.SeatNumber)
		}
		seen[ref] = struct{}{}
		seats = append(seats, ref)
	}

	showtime, err := s.repo.Showtime.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if showtime == nil || showtime.Visibility != entity.ShowtimeVisibilityPublic {
		return nil, ErrShowtimeNotFound
	}

	count, err := s.repo.Seat.CountByRefs(ctx, key.RoomID, seats)
	if err != nil {
		return nil, err
	}
	if count != len(seats) {
		return nil, fmt.Errorf("request names %d seats outside the room layout", len(seats)-count)
	}

	claimSetID := uuid.New()
	err = s.repo.SeatClaim.ClaimSeats(ctx, key.RoomID, key.StartsAt, seats, claimSetID)
	if err != nil {
		var conflict *repository.SeatConflictError
		if errors.As(err, &conflict) {
			s.log.Info("Hold rejected, seats taken",
				zap.String("dni", dni),
				zap.String("room_id", key.RoomID.String()),
				zap.Time("showtime", key.StartsAt),
				zap.Int("conflicting", len(conflict.Seats)),
			)
			return nil, &SeatsUnavailableError{Seats: conflict.Seats}
		}
		return nil, err
	}

	now := s.now().Truncate(time.Microsecond)
	deadline := now.Add(s.config.Booking.HoldTTL)
	reservation := &entity.Reservation{
		DNI:           dni,
		RoomID:        key.RoomID,
		ShowtimeStart: key.StartsAt,
		CreatedAt:     now,
		Status:        entity.ReservationStatusPendingHold,
		HoldDeadline:  &deadline,
		TotalAmount:   showtime.Price * float64(len(seats)),
		ClaimSetID:    claimSetID,
		UpdatedAt:     now,
	}

	if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
		// Claims must not outlive a reservation that never existed.
		if relErr := s.repo.SeatClaim.ReleaseSet(ctx, claimSetID); relErr != nil {
			s.log.Error("Failed to release claims after create failure",
				zap.Error(relErr),
				zap.String("claim_set_id", claimSetID.String()),
			)
		}
		return nil, err
	}

	s.invalidateAvailability(ctx, key.RoomID, key.StartsAt)

	s.log.Info("Hold created",
		zap.String("dni", dni),
		zap.String("room_id", key.RoomID.String()),
		zap.Time("showtime", key.StartsAt),
		zap.Int("seats", len(seats)),
		zap.Time("deadline", deadline),
	)

	return response.ReservationToResponse(reservation, seats, ""), nil
}

func (s *reservationService) qrFor(res *entity.Reservation) (string, error) {
	return utils.SignQRToken(s.config.Auth.QRSecret, utils.QRPayload{
		DNI:           res.DNI,
		RoomID:        res.RoomID.String(),
		ShowtimeStart: res.ShowtimeStart,
		ReservedAt:    res.CreatedAt,
	})
}

func (s *reservationService) seatsOf(ctx context.Context, res *entity.Reservation) ([]entity.SeatRef, error) {
	claims, err := s.repo.SeatClaim.FindBySet(ctx, res.ClaimSetID)
	if err != nil {
		return nil, err
	}
	seats := make([]entity.SeatRef, 0, len(claims))
	for _, c := range claims {
		seats = append(seats, entity.SeatRef{RowLabel: c.RowLabel, SeatNumber: c.SeatNumber})
	}
	return seats, nil
}

func (s *reservationService) Confirm(ctx context.Context, req *request.ConfirmReservationRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	key, err := parseReservationKey(req.DNI, req.RoomID, req.ShowtimeStart, req.ReservedAt)
	if err != nil {
		return nil, err
	}

	won, err := s.repo.Reservation.ConfirmCAS(ctx, key, req.PaymentRef)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.Reservation.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNotFound
	}

	if !won && res.Status != entity.ReservationStatusConfirmed {
		// Cancelled, attended or no-show: the payment signal arrived too
		// late to matter.
		return nil, ErrAlreadyResolved
	}

	seats, err := s.seatsOf(ctx, res)
	if err != nil {
		return nil, err
	}

	qr, err := s.qrFor(res)
	if err != nil {
		return nil, err
	}

	if won {
		s.log.Info("Reservation confirmed",
			zap.String("dni", key.DNI),
			zap.String("room_id", key.RoomID.String()),
			zap.Time("showtime", key.ShowtimeStart),
			zap.String("payment_ref", req.PaymentRef),
		)
	}

	return response.ReservationToResponse(res, seats, qr), nil
}

func (s *reservationService) Cancel(ctx context.Context, dni, roomID, showtimeStart, reservedAt string) error {
	key, err := parseReservationKey(dni, roomID, showtimeStart, reservedAt)
	if err != nil {
		return err
	}
	return s.cancelByKey(ctx, key)
}

func (s *reservationService) CancelSeat(ctx context.Context, dni, roomID, showtimeStart, reservedAt, row string, number int) error {
	key, err := parseReservationKey(dni, roomID, showtimeStart, reservedAt)
	if err != nil {
		return err
	}

	res, err := s.repo.Reservation.FindByKey(ctx, key)
	if err != nil {
		return err
	}
	if res == nil {
		return ErrNotFound
	}
	if res.Status == entity.ReservationStatusCancelled {
		// Claims are already gone; repeating the cancel stays a no-op
		// even though the seat no longer resolves.
		return nil
	}

	seats, err := s.seatsOf(ctx, res)
	if err != nil {
		return err
	}
	ref := entity.SeatRef{RowLabel: row, SeatNumber: number}
	owned := false
	for _, seat := range seats {
		if seat == ref {
			owned = true
			break
		}
	}
	if !owned {
		return ErrNotFound
	}

	return s.cancelByKey(ctx, key)
}

func (s *reservationService) cancelByKey(ctx context.Context, key entity.ReservationKey) error {
	res, err := s.repo.Reservation.FindByKey(ctx, key)
	if err != nil {
		return err
	}
	if res == nil {
		return ErrNotFound
	}

	won, err := s.repo.Reservation.CancelCAS(ctx, key)
	if err != nil {
		return err
	}
	if !won {
		current, err := s.repo.Reservation.FindByKey(ctx, key)
		if err != nil {
			return err
		}
		if current != nil && current.Status == entity.ReservationStatusCancelled {
			// Cancelling twice is a no-op, not an error.
			return nil
		}
		return ErrAlreadyResolved
	}

	if err := s.repo.SeatClaim.ReleaseSet(ctx, res.ClaimSetID); err != nil {
		return err
	}
	s.invalidateAvailability(ctx, key.RoomID, key.ShowtimeStart)

	s.log.Info("Reservation cancelled",
		zap.String("dni", key.DNI),
		zap.String("room_id", key.RoomID.String()),
		zap.Time("showtime", key.ShowtimeStart),
	)

	return nil
}

func (s *reservationService) CancelExpired(ctx context.Context, res *entity.Reservation) (bool, error) {
	won, err := s.repo.Reservation.CancelExpiredCAS(ctx, res.Key(), s.now())
	if err != nil {
		return false, err
	}
	if !won {
		// Confirmed (or cancelled) between the scan and this call.
		return false, nil
	}

	if err := s.repo.SeatClaim.ReleaseSet(ctx, res.ClaimSetID); err != nil {
		return true, err
	}
	s.invalidateAvailability(ctx, res.RoomID, res.ShowtimeStart)

	return true, nil
}

func (s *reservationService) GetReservation(ctx context.Context, dni, roomID, showtimeStart, reservedAt string) (*response.ReservationResponse, error) {
	key, err := parseReservationKey(dni, roomID, showtimeStart, reservedAt)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.Reservation.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNotFound
	}

	seats, err := s.seatsOf(ctx, res)
	if err != nil {
		return nil, err
	}

	qr := ""
	if res.Status == entity.ReservationStatusConfirmed {
		if qr, err = s.qrFor(res); err != nil {
			return nil, err
		}
	}

	return response.ReservationToResponse(res, seats, qr), nil
}

func (s *reservationService) ListByCustomer(ctx context.Context, dni string) ([]*response.ReservationResponse, error) {
	reservations, err := s.repo.Reservation.FindByDNI(ctx, dni)
	if err != nil {
		return nil, err
	}

	out := make([]*response.ReservationResponse, 0, len(reservations))
	for _, res := range reservations {
		seats, err := s.seatsOf(ctx, res)
		if err != nil {
			return nil, err
		}
		qr := ""
		if res.Status == entity.ReservationStatusConfirmed {
			if qr, err = s.qrFor(res); err != nil {
				return nil, err
			}
		}
		out = append(out, response.ReservationToResponse(res, seats, qr))
	}

	return out, nil
}

func (s *reservationService) Availability(ctx context.Context, roomID, showtimeStart string) (*response.AvailabilityResponse, error) {
	key, err := parseShowtimeKey(roomID, showtimeStart)
	if err != nil {
		return nil, err
	}

	cacheKey := availabilityCacheKey(key.RoomID, key.StartsAt)
	var cached response.AvailabilityResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("Availability cache read failed", zap.Error(err))
	}

	seats, err := s.repo.Seat.FindByRoom(ctx, key.RoomID)
	if err != nil {
		return nil, err
	}
	if len(seats) == 0 {
		return nil, ErrRoomNotFound
	}

	claims, err := s.repo.SeatClaim.FindBySchedule(ctx, key.RoomID, key.StartsAt)
	if err != nil {
		return nil, err
	}

	claimed := make(map[entity.SeatRef]struct{}, len(claims))
	for _, c := range claims {
		claimed[entity.SeatRef{RowLabel: c.RowLabel, SeatNumber: c.SeatNumber}] = struct{}{}
	}

	out := &response.AvailabilityResponse{
		RoomID:        key.RoomID.String(),
		ShowtimeStart: key.StartsAt,
		Seats:         make([]response.SeatAvailability, 0, len(seats)),
	}
	for _, seat := range seats {
		_, occupied := claimed[entity.SeatRef{RowLabel: seat.RowLabel, SeatNumber: seat.SeatNumber}]
		out.Seats = append(out.Seats, response.SeatAvailability{
			Row:      seat.RowLabel,
			Number:   seat.SeatNumber,
			Tier:     seat.Tier,
			Occupied: occupied,
		})
	}

	if err := s.cache.Set(ctx, cacheKey, out, s.config.Booking.AvailabilityCacheTTL); err != nil {
		s.log.Warn("Availability cache write failed", zap.Error(err))
	}

	return out, nil
}
