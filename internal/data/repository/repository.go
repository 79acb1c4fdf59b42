package repository

import (
	"cinema-reservations/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Movie       MovieRepository
	Room        RoomRepository
	Seat        SeatRepository
	Showtime    ShowtimeRepository
	SeatClaim   SeatClaimRepository
	Reservation ReservationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Movie:       NewMovieRepository(db, log),
		Room:        NewRoomRepository(db, log),
		Seat:        NewSeatRepository(db, log),
		Showtime:    NewShowtimeRepository(db, log),
		SeatClaim:   NewSeatClaimRepository(db, log),
		Reservation: NewReservationRepository(db, log),
	}
}
