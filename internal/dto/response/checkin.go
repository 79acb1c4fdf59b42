package response

import "time"

// CheckInResponse is the reservation summary shown at the door after a
// successful scan.
type CheckInResponse struct {
	DNI           string    `json:"dni"`
	MovieTitle    string    `json:"pelicula"`
	RoomName      string    `json:"sala"`
	ShowtimeStart time.Time `json:"fechaHoraFuncion"`
	SeatCount     int       `json:"cantidadAsientos"`
}
