package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-reservations/internal/data/entity"
	"cinema-reservations/internal/data/repository"
	"cinema-reservations/internal/dto/request"
	"cinema-reservations/internal/dto/response"
	"cinema-reservations/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ShowtimeService interface {
	CreateShowtime(ctx context.Context, req *request.CreateShowtimeRequest) (*response.ShowtimeResponse, error)
	UpdateShowtime(ctx context.Context, roomID string, startsAt string, req *request.UpdateShowtimeRequest) (*response.ShowtimeResponse, error)
	// DeactivateShowtime is what DELETE maps to on the wire: a public
	// showtime is never physically removed, its check-in history must
	// stay addressable.
	DeactivateShowtime(ctx context.Context, roomID string, startsAt string) error
	ListByRoom(ctx context.Context, roomID string) ([]*response.ShowtimeResponse, error)
}

type showtimeService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewShowtimeService(repo *repository.Repository, log *zap.Logger) ShowtimeService {
	return &showtimeService{
		repo: repo,
		log:  log.With(zap.String("service", "showtime")),
	}
}

func parseShowtimeKey(roomID, startsAt string) (entity.ShowtimeKey, error) {
	roomUUID, err := uuid.Parse(roomID)
	if err != nil {
		return entity.ShowtimeKey{}, fmt.Errorf("invalid room ID %s: %w", roomID, err)
	}
	start, err := utils.ParseTimeRFC3339(startsAt)
	if err != nil {
		return entity.ShowtimeKey{}, fmt.Errorf("invalid showtime start %s: %w", startsAt, err)
	}
	return entity.ShowtimeKey{RoomID: roomUUID, StartsAt: start}, nil
}

// checkSchedule enforces the two scheduling rules: the movie must already
// be released, and the interval must not overlap a non-inactive showtime
// in the same room. The two failures carry distinct codes and are never
// conflated.
func (s *showtimeService) checkSchedule(ctx context.Context, roomID uuid.UUID, movie *entity.Movie, start time.Time, excluding *entity.ShowtimeKey) error {
	if start.Before(movie.ReleaseDate) {
		return ErrReleaseDateInvalid
	}

	end := start.Add(time.Duration(movie.DurationMin) * time.Minute)
	conflicting, err := s.repo.Showtime.FindOverlapping(ctx, roomID, start, end, excluding)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if conflicting != nil {
		return &ShowtimeOverlapError{Conflicting: conflicting}
	}

	return nil
}

func (s *showtimeService) CreateShowtime(ctx context.Context, req *request.CreateShowtimeRequest) (*response.ShowtimeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	key, err := parseShowtimeKey(req.RoomID, req.StartsAt)
	if err != nil {
		return nil, err
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID %s: %w", req.MovieID, err)
	}

	room, err := s.repo.Room.FindByID(ctx, key.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	if err := s.checkSchedule(ctx, key.RoomID, movie, key.StartsAt, nil); err != nil {
		return nil, err
	}

	visibility := entity.ShowtimeVisibility(req.Visibility)
	if visibility == "" {
		visibility = entity.ShowtimeVisibilityPrivate
	}

	now := time.Now().UTC()
	showtime := &entity.Showtime{
		RoomID:      key.RoomID,
		StartsAt:    key.StartsAt,
		MovieID:     movieID,
		DurationMin: movie.DurationMin,
		Price:       req.Price,
		Visibility:  visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Showtime.Create(ctx, showtime); err != nil {
		return nil, err
	}

	s.log.Info("Showtime created",
		zap.String("room_id", key.RoomID.String()),
		zap.Time("starts_at", key.StartsAt),
		zap.String("movie_id", movieID.String()),
	)

	return response.ShowtimeToResponse(showtime), nil
}

func (s *showtimeService) UpdateShowtime(ctx context.Context, roomID string, startsAt string, req *request.UpdateShowtimeRequest) (*response.ShowtimeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	key, err := parseShowtimeKey(roomID, startsAt)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Showtime.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrShowtimeNotFound
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID %s: %w", req.MovieID, err)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	newStart, err := utils.ParseTimeRFC3339(req.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime start %s: %w", req.StartsAt, err)
	}

	// Excluding itself from the comparison keeps a no-op edit from
	// self-conflicting.
	if err := s.checkSchedule(ctx, key.RoomID, movie, newStart, &key); err != nil {
		return nil, err
	}

	visibility := existing.Visibility
	if req.Visibility != "" {
		visibility = entity.ShowtimeVisibility(req.Visibility)
	}

	updated := &entity.Showtime{
		RoomID:      key.RoomID,
		StartsAt:    newStart,
		MovieID:     movieID,
		DurationMin: movie.DurationMin,
		Price:       req.Price,
		Visibility:  visibility,
		CreatedAt:   existing.CreatedAt,
	}

	if err := s.repo.Showtime.Update(ctx, key, updated); err != nil {
		return nil, err
	}

	s.log.Info("Showtime updated",
		zap.String("room_id", key.RoomID.String()),
		zap.Time("starts_at", key.StartsAt),
	)

	return response.ShowtimeToResponse(updated), nil
}

func (s *showtimeService) DeactivateShowtime(ctx context.Context, roomID string, startsAt string) error {
	key, err := parseShowtimeKey(roomID, startsAt)
	if err != nil {
		return err
	}

	ok, err := s.repo.Showtime.SetVisibility(ctx, key, entity.ShowtimeVisibilityInactive)
	if err != nil {
		return err
	}
	if !ok {
		return ErrShowtimeNotFound
	}

	s.log.Info("Showtime deactivated",
		zap.String("room_id", key.RoomID.String()),
		zap.Time("starts_at", key.StartsAt),
	)

	return nil
}

func (s *showtimeService) ListByRoom(ctx context.Context, roomID string) ([]*response.ShowtimeResponse, error) {
	roomUUID, err := uuid.Parse(roomID)
	if err != nil {
		return nil, fmt.Errorf("invalid room ID %s: %w", roomID, err)
	}

	showtimes, err := s.repo.Showtime.FindByRoom(ctx, roomUUID)
	if err != nil {
		return nil, err
	}

	out := make([]*response.ShowtimeResponse, 0, len(showtimes))
	for _, showtime := range showtimes {
		out = append(out, response.ShowtimeToResponse(showtime))
	}

	return out, nil
}
