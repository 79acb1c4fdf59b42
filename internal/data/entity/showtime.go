package entity

import (
	"time"

	"github.com/google/uuid"
)

type ShowtimeVisibility string

const (
	ShowtimeVisibilityPrivate  ShowtimeVisibility = "private"
	ShowtimeVisibilityPublic   ShowtimeVisibility = "public"
	ShowtimeVisibilityInactive ShowtimeVisibility = "inactive"
)

// Showtime is identified by (room, start instant). A public showtime is
// never physically deleted: historical check-in data stays addressable,
// so removal means a transition to inactive.
type Showtime struct {
	RoomID      uuid.UUID          `db:"room_id"`
	StartsAt    time.Time          `db:"starts_at"`
	MovieID     uuid.UUID          `db:"movie_id"`
	DurationMin int                `db:"duration_min"` // snapshot of the movie runtime at scheduling time
	Price       float64            `db:"price"`
	Visibility  ShowtimeVisibility `db:"visibility"`
	CreatedAt   time.Time          `db:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at"`
}

// EndsAt is the exclusive end of the screening interval.
func (s *Showtime) EndsAt() time.Time {
	return s.StartsAt.Add(time.Duration(s.DurationMin) * time.Minute)
}

// ShowtimeKey identifies a showtime on the wire and in reservations.
type ShowtimeKey struct {
	RoomID   uuid.UUID
	StartsAt time.Time
}
