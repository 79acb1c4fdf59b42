package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-reservations/internal/data/entity"
	"cinema-reservations/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	Create(ctx context.Context, res *entity.Reservation) error
	FindByKey(ctx context.Context, key entity.ReservationKey) (*entity.Reservation, error)
	FindByDNI(ctx context.Context, dni string) ([]*entity.Reservation, error)

	// Status transitions are single-row compare-and-swap updates guarded
	// on the current status. Each returns whether this call won the swap;
	// a false result means someone else already moved the row.
	ConfirmCAS(ctx context.Context, key entity.ReservationKey, paymentRef string) (bool, error)
	CancelCAS(ctx context.Context, key entity.ReservationKey) (bool, error)
	AttendCAS(ctx context.Context, key entity.ReservationKey) (bool, error)

	// CancelExpiredCAS is the sweeper's narrower cancel: it only fires
	// while the row is still a pending hold whose deadline has passed, so
	// racing a concurrent confirm is safe without extra locking.
	CancelExpiredCAS(ctx context.Context, key entity.ReservationKey, now time.Time) (bool, error)

	// Sweeper queries
	FindExpiredHolds(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error)
	MarkNoShows(ctx context.Context, now time.Time) (int64, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `dni, room_id, showtime_starts_at, created_at, status, hold_deadline, total_amount, payment_ref, claim_set_id, updated_at`

func (r *reservationRepository) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		res.DNI,
		res.RoomID,
		res.ShowtimeStart,
		res.CreatedAt,
		res.Status,
		res.HoldDeadline,
		res.TotalAmount,
		res.PaymentRef,
		res.ClaimSetID,
		res.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("dni", res.DNI),
			zap.String("room_id", res.RoomID.String()),
			zap.Time("showtime", res.ShowtimeStart),
		)
		return fmt.Errorf("create reservation for %s: %w", res.DNI, err)
	}

	return nil
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.DNI,
		&res.RoomID,
		&res.ShowtimeStart,
		&res.CreatedAt,
		&res.Status,
		&res.HoldDeadline,
		&res.TotalAmount,
		&res.PaymentRef,
		&res.ClaimSetID,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) FindByKey(ctx context.Context, key entity.ReservationKey) (*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE dni = $1 AND room_id = $2 AND showtime_starts_at = $3 AND created_at = $4
	`

	res, err := scanReservation(r.db.QueryRow(ctx, query, key.DNI, key.RoomID, key.ShowtimeStart, key.CreatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation",
			zap.Error(err),
			zap.String("dni", key.DNI),
			zap.Time("showtime", key.ShowtimeStart),
		)
		return nil, fmt.Errorf("find reservation for %s: %w", key.DNI, err)
	}

	return res, nil
}

func (r *reservationRepository) FindByDNI(ctx context.Context, dni string) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE dni = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, dni)
	if err != nil {
		r.log.Error("Failed to find reservations by DNI", zap.Error(err), zap.String("dni", dni))
		return nil, fmt.Errorf("find reservations for %s: %w", dni, err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}

func (r *reservationRepository) ConfirmCAS(ctx context.Context, key entity.ReservationKey, paymentRef string) (bool, error) {
	// Clearing hold_deadline here is what detaches the reservation from
	// the sweeper; there is no timer to cancel.
	query := `
		UPDATE reservations
		SET status = $5, hold_deadline = NULL, payment_ref = $6, updated_at = $7
		WHERE dni = $1 AND room_id = $2 AND showtime_starts_at = $3 AND created_at = $4
		  AND status = $8
	`

	tag, err := r.db.Exec(ctx, query,
		key.DNI, key.RoomID, key.ShowtimeStart, key.CreatedAt,
		entity.ReservationStatusConfirmed, paymentRef, time.Now().UTC(),
		entity.ReservationStatusPendingHold,
	)
	if err != nil {
		r.log.Error("Failed to confirm reservation", zap.Error(err), zap.String("dni", key.DNI))
		return false, fmt.Errorf("confirm reservation for %s: %w", key.DNI, err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *reservationRepository) CancelCAS(ctx context.Context, key entity.ReservationKey) (bool, error) {
	query := `
		UPDATE reservations
		SET status = $5, hold_deadline = NULL, updated_at = $6
		WHERE dni = $1 AND room_id = $2 AND showtime_starts_at = $3 AND created_at = $4
		  AND status IN ($7, $8)
	`

	tag, err := r.db.Exec(ctx, query,
		key.DNI, key.RoomID, key.ShowtimeStart, key.CreatedAt,
		entity.ReservationStatusCancelled, time.Now().UTC(),
		entity.ReservationStatusPendingHold, entity.ReservationStatusConfirmed,
	)
	if err != nil {
		r.log.Error("Failed to cancel reservation", zap.Error(err), zap.String("dni", key.DNI))
		return false, fmt.Errorf("cancel reservation for %s: %w", key.DNI, err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *reservationRepository) AttendCAS(ctx context.Context, key entity.ReservationKey) (bool, error) {
	// Guarded on "not already attended, not cancelled" rather than a hard
	// confirmed-only gate, so the same path survives a policy change that
	// lets pending holds through the door.
	query := `
		UPDATE reservations
		SET status = $5, hold_deadline = NULL, updated_at = $6
		WHERE dni = $1 AND room_id = $2 AND showtime_starts_at = $3 AND created_at = $4
		  AND status IN ($7, $8)
	`

	tag, err := r.db.Exec(ctx, query,
		key.DNI, key.RoomID, key.ShowtimeStart, key.CreatedAt,
		entity.ReservationStatusAttended, time.Now().UTC(),
		entity.ReservationStatusPendingHold, entity.ReservationStatusConfirmed,
	)
	if err != nil {
		r.log.Error("Failed to mark attendance", zap.Error(err), zap.String("dni", key.DNI))
		return false, fmt.Errorf("mark attendance for %s: %w", key.DNI, err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *reservationRepository) CancelExpiredCAS(ctx context.Context, key entity.ReservationKey, now time.Time) (bool, error) {
	query := `
		UPDATE reservations
		SET status = $5, hold_deadline = NULL, updated_at = $6
		WHERE dni = $1 AND room_id = $2 AND showtime_starts_at = $3 AND created_at = $4
		  AND status = $7 AND hold_deadline IS NOT NULL AND hold_deadline < $8
	`

	tag, err := r.db.Exec(ctx, query,
		key.DNI, key.RoomID, key.ShowtimeStart, key.CreatedAt,
		entity.ReservationStatusCancelled, time.Now().UTC(),
		entity.ReservationStatusPendingHold, now,
	)
	if err != nil {
		r.log.Error("Failed to cancel expired hold", zap.Error(err), zap.String("dni", key.DNI))
		return false, fmt.Errorf("cancel expired hold for %s: %w", key.DNI, err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *reservationRepository) FindExpiredHolds(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = $1 AND hold_deadline IS NOT NULL AND hold_deadline < $2
		ORDER BY hold_deadline
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, entity.ReservationStatusPendingHold, now, limit)
	if err != nil {
		r.log.Error("Failed to scan for expired holds", zap.Error(err))
		return nil, fmt.Errorf("find expired holds: %w", err)
	}
	defer rows.Close()

	var expired []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expired hold row: %w", err)
		}
		expired = append(expired, res)
	}

	return expired, rows.Err()
}

func (r *reservationRepository) MarkNoShows(ctx context.Context, now time.Time) (int64, error) {
	// Confirmed reservations whose showtime has fully ended. Claims stay:
	// no_show is terminal with respect to seats.
	query := `
		UPDATE reservations r
		SET status = $1, updated_at = $2
		FROM showtimes s
		WHERE s.room_id = r.room_id AND s.starts_at = r.showtime_starts_at
		  AND r.status = $3
		  AND s.starts_at + make_interval(mins => s.duration_min) < $4
	`

	tag, err := r.db.Exec(ctx, query,
		entity.ReservationStatusNoShow, time.Now().UTC(),
		entity.ReservationStatusConfirmed, now,
	)
	if err != nil {
		r.log.Error("Failed to mark no-shows", zap.Error(err))
		return 0, fmt.Errorf("mark no-shows: %w", err)
	}

	return tag.RowsAffected(), nil
}
