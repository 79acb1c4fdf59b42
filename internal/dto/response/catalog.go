package response

import (
	"time"

	"cinema-reservations/internal/data/entity"
)

type MovieResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"titulo"`
	Synopsis    *string   `json:"sinopsis,omitempty"`
	DurationMin int       `json:"duracionMin"`
	ReleaseDate time.Time `json:"fechaEstreno"`
}

func MovieToResponse(m *entity.Movie) *MovieResponse {
	return &MovieResponse{
		ID:          m.ID.String(),
		Title:       m.Title,
		Synopsis:    m.Synopsis,
		DurationMin: m.DurationMin,
		ReleaseDate: m.ReleaseDate,
	}
}

type RoomResponse struct {
	ID          string `json:"id"`
	Name        string `json:"nombre"`
	Rows        int    `json:"filas"`
	SeatsPerRow int    `json:"asientosPorFila"`
	TotalSeats  int    `json:"totalAsientos"`
}

func RoomToResponse(r *entity.Room) *RoomResponse {
	return &RoomResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Rows:        r.Rows,
		SeatsPerRow: r.SeatsRow,
		TotalSeats:  r.Rows * r.SeatsRow,
	}
}
