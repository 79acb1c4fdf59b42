package request

type SeatRequest struct {
	Row    string `json:"fila" validate:"required"`
	Number int    `json:"nro" validate:"required,min=1"`
}

type CreateHoldRequest struct {
	RoomID        string        `json:"idSala" validate:"required,uuid4"`
	ShowtimeStart string        `json:"fechaHoraFuncion" validate:"required"`
	Seats         []SeatRequest `json:"asientos" validate:"required,min=1,dive"`
}

// ConfirmReservationRequest carries the opaque payment confirmation
// signal. The provider may deliver it more than once.
type ConfirmReservationRequest struct {
	DNI           string `json:"dni" validate:"required"`
	RoomID        string `json:"idSala" validate:"required,uuid4"`
	ShowtimeStart string `json:"fechaHoraFuncion" validate:"required"`
	ReservedAt    string `json:"fechaReserva" validate:"required"`
	PaymentRef    string `json:"referenciaPago" validate:"required"`
}
