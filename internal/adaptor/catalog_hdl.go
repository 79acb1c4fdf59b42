package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-reservations/internal/dto/request"
	"cinema-reservations/internal/usecase"
	"cinema-reservations/pkg/utils"

	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// CreateMovie handles POST /Pelicula (staff only)
func (h *CatalogHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create movie")
		return
	}

	utils.ResponseCreated(w, "success", movie)
}

// ListMovies handles GET /Peliculas (public)
func (h *CatalogHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.ListMovies(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// CreateRoom handles POST /Sala (staff only)
func (h *CatalogHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	room, err := h.service.CreateRoom(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create room")
		return
	}

	utils.ResponseCreated(w, "success", room)
}

// ListRooms handles GET /Salas (public)
func (h *CatalogHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list rooms")
		return
	}

	utils.ResponseSuccess(w, "success", rooms)
}
