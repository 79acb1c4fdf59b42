package request

type CreateMovieRequest struct {
	Title       string  `json:"titulo" validate:"required"`
	Synopsis    *string `json:"sinopsis,omitempty"`
	DurationMin int     `json:"duracionMin" validate:"required,min=1"`
	ReleaseDate string  `json:"fechaEstreno" validate:"required"`
}

type CreateRoomRequest struct {
	Name        string `json:"nombre" validate:"required"`
	Rows        int    `json:"filas" validate:"required,min=1,max=26"`
	SeatsPerRow int    `json:"asientosPorFila" validate:"required,min=1"`
	VIPRows     int    `json:"filasVip" validate:"min=0"`
}
