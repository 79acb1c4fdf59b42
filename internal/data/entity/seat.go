package entity

import "github.com/google/uuid"

type SeatTier string

const (
	SeatTierStandard SeatTier = "standard"
	SeatTierVIP      SeatTier = "vip"
)

// Seat is static layout: created with the room, never mutated by the
// booking flow. Identity is (room, row, number).
type Seat struct {
	RoomID     uuid.UUID `db:"room_id"`
	RowLabel   string    `db:"row_label"`   // A, B, C, ...
	SeatNumber int       `db:"seat_number"` // 1, 2, 3, ...
	Tier       SeatTier  `db:"tier"`
}

// SeatRef identifies one seat within a known room.
type SeatRef struct {
	RowLabel   string `json:"fila"`
	SeatNumber int    `json:"nro"`
}
