package repository

import (
	"context"
	"fmt"
	"strings"

	"cinema-reservations/internal/data/entity"
	"cinema-reservations/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatRepository interface {
	// CreateBatch inserts the full seat grid when a room is created.
	CreateBatch(ctx context.Context, seats []*entity.Seat) error
	FindByRoom(ctx context.Context, roomID uuid.UUID) ([]*entity.Seat, error)

	// CountByRefs reports how many of the given refs exist in the room,
	// used to reject holds that name seats outside the layout.
	CountByRefs(ctx context.Context, roomID uuid.UUID, refs []entity.SeatRef) (int, error)
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) CreateBatch(ctx context.Context, seats []*entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO seats (room_id, row_label, seat_number, tier) VALUES `)
	args := make([]any, 0, len(seats)*4)
	for i, seat := range seats {
		if i > 0 {
			sb.WriteString(",")
		}
		n := len(args)
		sb.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d)", n+1, n+2, n+3, n+4))
		args = append(args, seat.RoomID, seat.RowLabel, seat.SeatNumber, seat.Tier)
	}

	_, err := r.db.Exec(ctx, sb.String(), args...)
	if err != nil {
		r.log.Error("Failed to create seat batch",
			zap.Error(err),
			zap.String("room_id", seats[0].RoomID.String()),
			zap.Int("count", len(seats)),
		)
		return fmt.Errorf("create %d seats: %w", len(seats), err)
	}

	return nil
}

func (r *seatRepository) FindByRoom(ctx context.Context, roomID uuid.UUID) ([]*entity.Seat, error) {
	query := `
		SELECT room_id, row_label, seat_number, tier
		FROM seats
		WHERE room_id = $1
		ORDER BY row_label, seat_number
	`

	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		r.log.Error("Failed to find seats by room",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
		)
		return nil, fmt.Errorf("find seats in room %s: %w", roomID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		if err := rows.Scan(&seat.RoomID, &seat.RowLabel, &seat.SeatNumber, &seat.Tier); err != nil {
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, rows.Err()
}

func (r *seatRepository) CountByRefs(ctx context.Context, roomID uuid.UUID, refs []entity.SeatRef) (int, error) {
	if len(refs) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	args := []any{roomID}
	for i, ref := range refs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(fmt.Sprintf("($%d,$%d)", len(args)+1, len(args)+2))
		args = append(args, ref.RowLabel, ref.SeatNumber)
	}

	query := `
		SELECT COUNT(*)
		FROM seats
		WHERE room_id = $1 AND (row_label, seat_number) IN (` + sb.String() + `)
	`

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count seats by refs",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
		)
		return 0, fmt.Errorf("count seats in room %s: %w", roomID.String(), err)
	}

	return count, nil
}
