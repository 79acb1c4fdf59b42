package wire

import (
	"net/http"

	"cinema-reservations/internal/adaptor"
	"cinema-reservations/internal/data/repository"
	"cinema-reservations/internal/usecase"
	"cinema-reservations/pkg/cache"
	"cinema-reservations/pkg/middleware"
	"cinema-reservations/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

func Wiring(repo *repository.Repository, cacheStore cache.Store, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, cacheStore, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireCatalog(r, handler.Catalog, config, logger)
	wireShowtime(r, handler.Showtime, config, logger)
	wireReservation(r, handler.Reservation, config, logger)
	wireCheckIn(r, handler.CheckIn, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
