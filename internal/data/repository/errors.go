package repository

import (
	"fmt"

	"cinema-reservations/internal/data/entity"
)

// SeatConflictError is the only conflict outcome the claim store can
// produce. It originates from the unique-key violation on seat_claims and
// carries every requested seat that already had a live claim, so the
// booking UI can highlight them.
type SeatConflictError struct {
	Seats []entity.SeatRef
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats unavailable: %d conflicting", len(e.Seats))
}
