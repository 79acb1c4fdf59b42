package response

import (
	"time"

	"cinema-reservations/internal/data/entity"
)

type SeatResponse struct {
	Row    string `json:"fila"`
	Number int    `json:"nro"`
}

type ReservationResponse struct {
	DNI           string                   `json:"dni"`
	RoomID        string                   `json:"idSala"`
	ShowtimeStart time.Time                `json:"fechaHoraFuncion"`
	ReservedAt    time.Time                `json:"fechaReserva"`
	Status        entity.ReservationStatus `json:"estado"`
	HoldDeadline  *time.Time               `json:"venceEn,omitempty"`
	TotalAmount   float64                  `json:"total"`
	Seats         []SeatResponse           `json:"asientos,omitempty"`
	// QR is present only on a confirmed reservation; it is what the
	// customer presents at the door.
	QR string `json:"qr,omitempty"`
}

func ReservationToResponse(res *entity.Reservation, seats []entity.SeatRef, qr string) *ReservationResponse {
	out := &ReservationResponse{
		DNI:           res.DNI,
		RoomID:        res.RoomID.String(),
		ShowtimeStart: res.ShowtimeStart,
		ReservedAt:    res.CreatedAt,
		Status:        res.Status,
		HoldDeadline:  res.HoldDeadline,
		TotalAmount:   res.TotalAmount,
		QR:            qr,
	}
	for _, s := range seats {
		out.Seats = append(out.Seats, SeatResponse{Row: s.RowLabel, Number: s.SeatNumber})
	}
	return out
}

type SeatAvailability struct {
	Row      string          `json:"fila"`
	Number   int             `json:"nro"`
	Tier     entity.SeatTier `json:"categoria"`
	Occupied bool            `json:"ocupado"`
}

// AvailabilityResponse is the seat map the booking UI renders. It may be
// a few seconds stale; the claim insert is the source of truth.
type AvailabilityResponse struct {
	RoomID        string             `json:"idSala"`
	ShowtimeStart time.Time          `json:"fechaHoraFuncion"`
	Seats         []SeatAvailability `json:"asientos"`
}
