package entity

import (
	"time"

	"github.com/google/uuid"
)

type Movie struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Synopsis    *string   `db:"synopsis"`
	DurationMin int       `db:"duration_min"`
	ReleaseDate time.Time `db:"release_date"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
