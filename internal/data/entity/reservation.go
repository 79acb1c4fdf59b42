package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPendingHold ReservationStatus = "pending_hold"
	ReservationStatusConfirmed   ReservationStatus = "confirmed"
	ReservationStatusCancelled   ReservationStatus = "cancelled"
	ReservationStatusAttended    ReservationStatus = "attended"
	ReservationStatusNoShow      ReservationStatus = "no_show"
)

// Reservation owns a claim set for one showtime. Identified by
// (customer DNI, showtime, creation instant). HoldDeadline is set only
// while the status is pending_hold; clearing it on resolution is what
// keeps the sweeper away from resolved reservations.
type Reservation struct {
	DNI           string            `db:"dni"`
	RoomID        uuid.UUID         `db:"room_id"`
	ShowtimeStart time.Time         `db:"showtime_starts_at"`
	CreatedAt     time.Time         `db:"created_at"`
	Status        ReservationStatus `db:"status"`
	HoldDeadline  *time.Time        `db:"hold_deadline"`
	TotalAmount   float64           `db:"total_amount"`
	PaymentRef    *string           `db:"payment_ref"`
	ClaimSetID    uuid.UUID         `db:"claim_set_id"`
	UpdatedAt     time.Time         `db:"updated_at"`
}

// ReservationKey is the natural identifier used on the wire and inside
// QR payloads.
type ReservationKey struct {
	DNI           string
	RoomID        uuid.UUID
	ShowtimeStart time.Time
	CreatedAt     time.Time
}

func (r *Reservation) Key() ReservationKey {
	return ReservationKey{
		DNI:           r.DNI,
		RoomID:        r.RoomID,
		ShowtimeStart: r.ShowtimeStart,
		CreatedAt:     r.CreatedAt,
	}
}
