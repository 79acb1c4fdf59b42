package usecase

import (
	"fmt"

	"cinema-reservations/internal/data/entity"
)

// CodedError is the closed error surface of the service layer. Handlers
// serialize the code verbatim; clients branch on it. Codes are part of
// the wire contract and never change.
type CodedError interface {
	error
	ErrorCode() string
}

// Error codes consumed by the booking UI and the scanner.
const (
	CodeSeatsUnavailable     = "ASIENTOS_NO_DISPONIBLES"
	CodeShowtimeOverlap      = "SOLAPAMIENTO_FUNCIONES"
	CodeReleaseDateInvalid   = "FECHA_ESTRENO_INVALIDA"
	CodeFunctionNotStarted   = "FUNCTION_NOT_STARTED"
	CodeFunctionAlreadyEnded = "FUNCTION_ALREADY_ENDED"
	CodeAlreadyUsed          = "ALREADY_USED"
	CodeReservationCancelled = "RESERVATION_CANCELLED"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeNotFound             = "NOT_FOUND"
	CodeAlreadyResolved      = "ALREADY_RESOLVED"
)

// Error is a plain coded error with no payload.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string     { return e.Message }
func (e *Error) ErrorCode() string { return e.Code }

var (
	ErrNotFound             = &Error{Code: CodeNotFound, Message: "reservation not found"}
	ErrShowtimeNotFound     = &Error{Code: CodeNotFound, Message: "showtime not found"}
	ErrMovieNotFound        = &Error{Code: CodeNotFound, Message: "movie not found"}
	ErrRoomNotFound         = &Error{Code: CodeNotFound, Message: "room not found"}
	ErrAlreadyResolved      = &Error{Code: CodeAlreadyResolved, Message: "reservation already resolved"}
	ErrInvalidToken         = &Error{Code: CodeInvalidToken, Message: "QR code is not valid"}
	ErrFunctionNotStarted   = &Error{Code: CodeFunctionNotStarted, Message: "the function has not started yet"}
	ErrFunctionAlreadyEnded = &Error{Code: CodeFunctionAlreadyEnded, Message: "the function has already ended"}
	ErrAlreadyUsed          = &Error{Code: CodeAlreadyUsed, Message: "QR code was already used"}
	ErrReservationCancelled = &Error{Code: CodeReservationCancelled, Message: "the reservation was cancelled"}
	ErrReleaseDateInvalid   = &Error{Code: CodeReleaseDateInvalid, Message: "showtime starts before the movie release date"}
)

// SeatsUnavailableError reports a claim conflict. It is data, not a
// fault: the caller retries with different seats after refreshing the
// seat map.
type SeatsUnavailableError struct {
	Seats []entity.SeatRef
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("%d requested seats are no longer available", len(e.Seats))
}

func (e *SeatsUnavailableError) ErrorCode() string { return CodeSeatsUnavailable }

// ShowtimeOverlapError reports a scheduling conflict with an existing
// showtime in the same room.
type ShowtimeOverlapError struct {
	Conflicting *entity.Showtime
}

func (e *ShowtimeOverlapError) Error() string {
	return fmt.Sprintf("overlaps showtime at %s in the same room",
		e.Conflicting.StartsAt.Format("2006-01-02 15:04"))
}

func (e *ShowtimeOverlapError) ErrorCode() string { return CodeShowtimeOverlap }
