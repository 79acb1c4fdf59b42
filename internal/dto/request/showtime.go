package request

type CreateShowtimeRequest struct {
	RoomID     string  `json:"idSala" validate:"required,uuid4"`
	MovieID    string  `json:"idPelicula" validate:"required,uuid4"`
	StartsAt   string  `json:"fechaHoraFuncion" validate:"required"`
	Price      float64 `json:"precio" validate:"required,gt=0"`
	Visibility string  `json:"visibilidad" validate:"omitempty,oneof=private public"`
}

type UpdateShowtimeRequest struct {
	MovieID    string  `json:"idPelicula" validate:"required,uuid4"`
	StartsAt   string  `json:"fechaHoraFuncion" validate:"required"`
	Price      float64 `json:"precio" validate:"required,gt=0"`
	Visibility string  `json:"visibilidad" validate:"omitempty,oneof=private public inactive"`
}
