package response

import (
	"time"

	"cinema-reservations/internal/data/entity"
)

type ShowtimeResponse struct {
	RoomID      string                    `json:"idSala"`
	StartsAt    time.Time                 `json:"fechaHoraFuncion"`
	EndsAt      time.Time                 `json:"fechaHoraFin"`
	MovieID     string                    `json:"idPelicula"`
	DurationMin int                       `json:"duracionMin"`
	Price       float64                   `json:"precio"`
	Visibility  entity.ShowtimeVisibility `json:"visibilidad"`
}

func ShowtimeToResponse(s *entity.Showtime) *ShowtimeResponse {
	return &ShowtimeResponse{
		RoomID:      s.RoomID.String(),
		StartsAt:    s.StartsAt,
		EndsAt:      s.EndsAt(),
		MovieID:     s.MovieID.String(),
		DurationMin: s.DurationMin,
		Price:       s.Price,
		Visibility:  s.Visibility,
	}
}
