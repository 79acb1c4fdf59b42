package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-reservations/internal/data/entity"
	"cinema-reservations/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShowtimeRepository interface {
	Create(ctx context.Context, showtime *entity.Showtime) error
	FindByKey(ctx context.Context, key entity.ShowtimeKey) (*entity.Showtime, error)
	FindByRoom(ctx context.Context, roomID uuid.UUID) ([]*entity.Showtime, error)
	Update(ctx context.Context, key entity.ShowtimeKey, updated *entity.Showtime) error
	SetVisibility(ctx context.Context, key entity.ShowtimeKey, visibility entity.ShowtimeVisibility) (bool, error)

	// FindOverlapping returns the first non-inactive showtime in the room
	// whose [start, end) interval intersects the candidate interval,
	// optionally excluding one showtime (the one being edited).
	FindOverlapping(ctx context.Context, roomID uuid.UUID, start, end time.Time, excluding *entity.ShowtimeKey) (*entity.Showtime, error)
}

type showtimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowtimeRepository(db database.PgxIface, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

const showtimeColumns = `room_id, starts_at, movie_id, duration_min, price, visibility, created_at, updated_at`

func scanShowtime(row pgx.Row) (*entity.Showtime, error) {
	var s entity.Showtime
	err := row.Scan(
		&s.RoomID,
		&s.StartsAt,
		&s.MovieID,
		&s.DurationMin,
		&s.Price,
		&s.Visibility,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *showtimeRepository) Create(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		INSERT INTO showtimes (` + showtimeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		showtime.RoomID,
		showtime.StartsAt,
		showtime.MovieID,
		showtime.DurationMin,
		showtime.Price,
		showtime.Visibility,
		showtime.CreatedAt,
		showtime.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create showtime",
			zap.Error(err),
			zap.String("room_id", showtime.RoomID.String()),
			zap.Time("starts_at", showtime.StartsAt),
		)
		return fmt.Errorf("create showtime in room %s: %w", showtime.RoomID.String(), err)
	}

	return nil
}

func (r *showtimeRepository) FindByKey(ctx context.Context, key entity.ShowtimeKey) (*entity.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE room_id = $1 AND starts_at = $2
	`

	s, err := scanShowtime(r.db.QueryRow(ctx, query, key.RoomID, key.StartsAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime",
			zap.Error(err),
			zap.String("room_id", key.RoomID.String()),
			zap.Time("starts_at", key.StartsAt),
		)
		return nil, fmt.Errorf("find showtime in room %s: %w", key.RoomID.String(), err)
	}

	return s, nil
}

func (r *showtimeRepository) FindByRoom(ctx context.Context, roomID uuid.UUID) ([]*entity.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE room_id = $1
		ORDER BY starts_at
	`

	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		r.log.Error("Failed to find showtimes by room",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
		)
		return nil, fmt.Errorf("find showtimes in room %s: %w", roomID.String(), err)
	}
	defer rows.Close()

	var showtimes []*entity.Showtime
	for rows.Next() {
		s, err := scanShowtime(rows)
		if err != nil {
			return nil, fmt.Errorf("scan showtime row: %w", err)
		}
		showtimes = append(showtimes, s)
	}

	return showtimes, rows.Err()
}

func (r *showtimeRepository) Update(ctx context.Context, key entity.ShowtimeKey, updated *entity.Showtime) error {
	// starts_at may move on edit, which re-keys the row; the overlap
	// check against the new interval happens in the service first.
	query := `
		UPDATE showtimes
		SET starts_at = $3, movie_id = $4, duration_min = $5, price = $6, visibility = $7, updated_at = $8
		WHERE room_id = $1 AND starts_at = $2
	`

	tag, err := r.db.Exec(ctx, query,
		key.RoomID, key.StartsAt,
		updated.StartsAt,
		updated.MovieID,
		updated.DurationMin,
		updated.Price,
		updated.Visibility,
		time.Now().UTC(),
	)
	if err != nil {
		r.log.Error("Failed to update showtime",
			zap.Error(err),
			zap.String("room_id", key.RoomID.String()),
			zap.Time("starts_at", key.StartsAt),
		)
		return fmt.Errorf("update showtime in room %s: %w", key.RoomID.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *showtimeRepository) SetVisibility(ctx context.Context, key entity.ShowtimeKey, visibility entity.ShowtimeVisibility) (bool, error) {
	query := `
		UPDATE showtimes
		SET visibility = $3, updated_at = $4
		WHERE room_id = $1 AND starts_at = $2
	`

	tag, err := r.db.Exec(ctx, query, key.RoomID, key.StartsAt, visibility, time.Now().UTC())
	if err != nil {
		r.log.Error("Failed to set showtime visibility",
			zap.Error(err),
			zap.String("room_id", key.RoomID.String()),
			zap.Time("starts_at", key.StartsAt),
			zap.String("visibility", string(visibility)),
		)
		return false, fmt.Errorf("set visibility for showtime in room %s: %w", key.RoomID.String(), err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *showtimeRepository) FindOverlapping(ctx context.Context, roomID uuid.UUID, start, end time.Time, excluding *entity.ShowtimeKey) (*entity.Showtime, error) {
	// Interval overlap: s1 < e2 AND s2 < e1, over non-inactive rows only.
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE room_id = $1
		  AND visibility <> $2
		  AND starts_at < $3
		  AND starts_at + make_interval(mins => duration_min) > $4
	`
	args := []any{roomID, entity.ShowtimeVisibilityInactive, end, start}

	if excluding != nil {
		query += ` AND NOT (room_id = $5 AND starts_at = $6)`
		args = append(args, excluding.RoomID, excluding.StartsAt)
	}

	query += ` ORDER BY starts_at LIMIT 1`

	s, err := scanShowtime(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to check showtime overlap",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.Time("start", start),
		)
		return nil, fmt.Errorf("check overlap in room %s: %w", roomID.String(), err)
	}

	return s, nil
}
