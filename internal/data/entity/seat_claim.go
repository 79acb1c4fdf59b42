package entity

import (
	"time"

	"github.com/google/uuid"
)

// SeatClaim records that one seat is taken for one showtime. The
// composite primary key (room, row, number, showtime start) is the whole
// double-booking defense: inserting a claim that already exists fails at
// the database, and that failure is the conflict signal.
type SeatClaim struct {
	RoomID        uuid.UUID `db:"room_id"`
	RowLabel      string    `db:"row_label"`
	SeatNumber    int       `db:"seat_number"`
	ShowtimeStart time.Time `db:"showtime_starts_at"`
	ClaimSetID    uuid.UUID `db:"claim_set_id"`
	CreatedAt     time.Time `db:"created_at"`
}
