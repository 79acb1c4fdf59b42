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

type CatalogService interface {
	CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*response.MovieResponse, error)
	ListMovies(ctx context.Context) ([]*response.MovieResponse, error)
	CreateRoom(ctx context.Context, req *request.CreateRoomRequest) (*response.RoomResponse, error)
	ListRooms(ctx context.Context) ([]*response.RoomResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*response.MovieResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	releaseDate, err := utils.ParseTimeRFC3339(req.ReleaseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid release date %s: %w", req.ReleaseDate, err)
	}

	now := time.Now().UTC()
	movie := &entity.Movie{
		ID:          uuid.New(),
		Title:       req.Title,
		Synopsis:    req.Synopsis,
		DurationMin: req.DurationMin,
		ReleaseDate: releaseDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, err
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
	)

	return response.MovieToResponse(movie), nil
}

func (s *catalogService) ListMovies(ctx context.Context) ([]*response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*response.MovieResponse, 0, len(movies))
	for _, movie := range movies {
		out = append(out, response.MovieToResponse(movie))
	}

	return out, nil
}

func (s *catalogService) CreateRoom(ctx context.Context, req *request.CreateRoomRequest) (*response.RoomResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if req.VIPRows > req.Rows {
		return nil, fmt.Errorf("room has %d rows, cannot mark %d as VIP", req.Rows, req.VIPRows)
	}

	now := time.Now().UTC()
	room := &entity.Room{
		ID:        uuid.New(),
		Name:      req.Name,
		Rows:      req.Rows,
		SeatsRow:  req.SeatsPerRow,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Room.Create(ctx, room); err != nil {
		return nil, err
	}

	// The layout is fixed at creation. Rows are labelled A..Z from the
	// screen; the back rows are the VIP ones.
	seats := make([]*entity.Seat, 0, req.Rows*req.SeatsPerRow)
	for row := 0; row < req.Rows; row++ {
		tier := entity.SeatTierStandard
		if row >= req.Rows-req.VIPRows {
			tier = entity.SeatTierVIP
		}
		label := string(rune('A' + row))
		for num := 1; num <= req.SeatsPerRow; num++ {
			seats = append(seats, &entity.Seat{
				RoomID:     room.ID,
				RowLabel:   label,
				SeatNumber: num,
				Tier:       tier,
			})
		}
	}

	if err := s.repo.Seat.CreateBatch(ctx, seats); err != nil {
		return nil, err
	}

	s.log.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("name", room.Name),
		zap.Int("seats", len(seats)),
	)

	return response.RoomToResponse(room), nil
}

func (s *catalogService) ListRooms(ctx context.Context) ([]*response.RoomResponse, error) {
	rooms, err := s.repo.Room.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*response.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, response.RoomToResponse(room))
	}

	return out, nil
}
