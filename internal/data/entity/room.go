package entity

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Rows      int       `db:"row_count"`
	SeatsRow  int       `db:"seats_per_row"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
