package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema-reservations/internal/data/entity"
	"cinema-reservations/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type SeatClaimRepository interface {
	// ClaimSeats inserts one claim per seat, all inside a single
	// transaction. If any seat already has a live claim the whole
	// transaction rolls back and a *SeatConflictError lists the seats
	// that were taken. There is deliberately no availability pre-check:
	// the primary-key violation is the conflict signal.
	ClaimSeats(ctx context.Context, roomID uuid.UUID, showtimeStart time.Time, seats []entity.SeatRef, claimSetID uuid.UUID) error

	// ReleaseSet deletes every claim in the set. Releasing a set that no
	// longer exists is a no-op, not an error.
	ReleaseSet(ctx context.Context, claimSetID uuid.UUID) error

	// FindBySchedule is the single indexed lookup serving the seat map.
	FindBySchedule(ctx context.Context, roomID uuid.UUID, showtimeStart time.Time) ([]*entity.SeatClaim, error)

	// FindBySet returns the claims owned by one reservation.
	FindBySet(ctx context.Context, claimSetID uuid.UUID) ([]*entity.SeatClaim, error)
}

type seatClaimRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatClaimRepository(db database.PgxIface, log *zap.Logger) SeatClaimRepository {
	return &seatClaimRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat_claim")),
	}
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func (r *seatClaimRepository) ClaimSeats(ctx context.Context, roomID uuid.UUID, showtimeStart time.Time, seats []entity.SeatRef, claimSetID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin claim transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO seat_claims (room_id, row_label, seat_number, showtime_starts_at, claim_set_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()
	for _, seat := range seats {
		_, err := tx.Exec(ctx, query, roomID, seat.RowLabel, seat.SeatNumber, showtimeStart, claimSetID, now)
		if err != nil {
			if isUniqueViolation(err) {
				// Roll back before reading, so our own partial inserts
				// don't show up as conflicts.
				_ = tx.Rollback(ctx)
				taken, findErr := r.findTaken(ctx, roomID, showtimeStart, seats)
				if findErr != nil {
					return findErr
				}
				return &SeatConflictError{Seats: conflictSeats(taken, []entity.SeatRef{seat})}
			}
			r.log.Error("Failed to insert seat claim",
				zap.Error(err),
				zap.String("room_id", roomID.String()),
				zap.Time("showtime", showtimeStart),
				zap.String("seat", seat.RowLabel),
				zap.Int("number", seat.SeatNumber),
			)
			return fmt.Errorf("insert seat claim %s%d: %w", seat.RowLabel, seat.SeatNumber, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		// A concurrent claimer can still win at commit under serializable
		// isolation; surface it as the same conflict outcome.
		if isUniqueViolation(err) {
			taken, findErr := r.findTaken(ctx, roomID, showtimeStart, seats)
			if findErr != nil {
				return findErr
			}
			return &SeatConflictError{Seats: conflictSeats(taken, seats)}
		}
		return fmt.Errorf("commit seat claims: %w", err)
	}

	return nil
}

// conflictSeats chooses what a SeatConflictError reports. The re-read
// happens after the rollback, so the winning claim may already be
// released by then; an empty re-read falls back to the seats whose
// insert actually collided, never an empty conflict list.
func conflictSeats(taken, collided []entity.SeatRef) []entity.SeatRef {
	if len(taken) > 0 {
		return taken
	}
	return collided
}

// findTaken reports which of the requested seats currently hold a claim.
func (r *seatClaimRepository) findTaken(ctx context.Context, roomID uuid.UUID, showtimeStart time.Time, seats []entity.SeatRef) ([]entity.SeatRef, error) {
	var sb strings.Builder
	args := []any{roomID, showtimeStart}
	for i, seat := range seats {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(fmt.Sprintf("($%d,$%d)", len(args)+1, len(args)+2))
		args = append(args, seat.RowLabel, seat.SeatNumber)
	}

	query := `
		SELECT row_label, seat_number
		FROM seat_claims
		WHERE room_id = $1 AND showtime_starts_at = $2
		  AND (row_label, seat_number) IN (` + sb.String() + `)
		ORDER BY row_label, seat_number
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to read conflicting claims",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.Time("showtime", showtimeStart),
		)
		return nil, fmt.Errorf("find conflicting claims: %w", err)
	}
	defer rows.Close()

	var taken []entity.SeatRef
	for rows.Next() {
		var ref entity.SeatRef
		if err := rows.Scan(&ref.RowLabel, &ref.SeatNumber); err != nil {
			return nil, fmt.Errorf("scan conflicting claim: %w", err)
		}
		taken = append(taken, ref)
	}

	return taken, rows.Err()
}

func (r *seatClaimRepository) ReleaseSet(ctx context.Context, claimSetID uuid.UUID) error {
	query := `DELETE FROM seat_claims WHERE claim_set_id = $1`

	_, err := r.db.Exec(ctx, query, claimSetID)
	if err != nil {
		r.log.Error("Failed to release claim set",
			zap.Error(err),
			zap.String("claim_set_id", claimSetID.String()),
		)
		return fmt.Errorf("release claim set %s: %w", claimSetID.String(), err)
	}

	return nil
}

func (r *seatClaimRepository) FindBySet(ctx context.Context, claimSetID uuid.UUID) ([]*entity.SeatClaim, error) {
	query := `
		SELECT room_id, row_label, seat_number, showtime_starts_at, claim_set_id, created_at
		FROM seat_claims
		WHERE claim_set_id = $1
		ORDER BY row_label, seat_number
	`

	rows, err := r.db.Query(ctx, query, claimSetID)
	if err != nil {
		r.log.Error("Failed to find claims by set",
			zap.Error(err),
			zap.String("claim_set_id", claimSetID.String()),
		)
		return nil, fmt.Errorf("find claims for set %s: %w", claimSetID.String(), err)
	}
	defer rows.Close()

	var claims []*entity.SeatClaim
	for rows.Next() {
		var c entity.SeatClaim
		err := rows.Scan(
			&c.RoomID,
			&c.RowLabel,
			&c.SeatNumber,
			&c.ShowtimeStart,
			&c.ClaimSetID,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan seat claim row: %w", err)
		}
		claims = append(claims, &c)
	}

	return claims, rows.Err()
}

func (r *seatClaimRepository) FindBySchedule(ctx context.Context, roomID uuid.UUID, showtimeStart time.Time) ([]*entity.SeatClaim, error) {
	query := `
		SELECT room_id, row_label, seat_number, showtime_starts_at, claim_set_id, created_at
		FROM seat_claims
		WHERE room_id = $1 AND showtime_starts_at = $2
		ORDER BY row_label, seat_number
	`

	rows, err := r.db.Query(ctx, query, roomID, showtimeStart)
	if err != nil {
		r.log.Error("Failed to find claims by schedule",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.Time("showtime", showtimeStart),
		)
		return nil, fmt.Errorf("find claims for room %s: %w", roomID.String(), err)
	}
	defer rows.Close()

	var claims []*entity.SeatClaim
	for rows.Next() {
		var c entity.SeatClaim
		err := rows.Scan(
			&c.RoomID,
			&c.RowLabel,
			&c.SeatNumber,
			&c.ShowtimeStart,
			&c.ClaimSetID,
			&c.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat claim row", zap.Error(err))
			return nil, fmt.Errorf("scan seat claim row: %w", err)
		}
		claims = append(claims, &c)
	}

	return claims, rows.Err()
}
