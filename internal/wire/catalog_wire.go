package wire

import (
	"cinema-reservations/internal/adaptor"
	"cinema-reservations/pkg/middleware"
	"cinema-reservations/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== STAFF ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.Auth.JWTSecret, log))
		r.Use(middleware.Staff(log))

		// POST /Pelicula - register a movie
		r.Post("/Pelicula", catalogHandler.CreateMovie)

		// POST /Sala - create a room with its seat layout
		r.Post("/Sala", catalogHandler.CreateRoom)
	})

	// ==================== PUBLIC ROUTES ====================
	r.Get("/Peliculas", catalogHandler.ListMovies)
	r.Get("/Salas", catalogHandler.ListRooms)
}
