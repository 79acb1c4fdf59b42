package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"cinema-reservations/internal/data/entity"
	"cinema-reservations/internal/data/repository"
	"cinema-reservations/pkg/cache"
	"cinema-reservations/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func uuidMustParse(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

// In-memory repository fakes. Each fake holds the same atomicity
// contract as the real pgx implementation: claim inserts are
// all-or-nothing under one lock, and status transitions are
// compare-and-swap.

func claimKey(roomID uuid.UUID, row string, number int, start time.Time) string {
	return fmt.Sprintf("%s|%s|%d|%d", roomID, row, number, start.UnixNano())
}

type fakeSeatClaimRepo struct {
	mu     sync.Mutex
	claims map[string]*entity.SeatClaim
}

func newFakeSeatClaimRepo() *fakeSeatClaimRepo {
	return &fakeSeatClaimRepo{claims: make(map[string]*entity.SeatClaim)}
}

func (f *fakeSeatClaimRepo) ClaimSeats(_ context.Context, roomID uuid.UUID, showtimeStart time.Time, seats []entity.SeatRef, claimSetID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var taken []entity.SeatRef
	for _, seat := range seats {
		if _, exists := f.claims[claimKey(roomID, seat.RowLabel, seat.SeatNumber, showtimeStart)]; exists {
			taken = append(taken, seat)
		}
	}
	if len(taken) > 0 {
		return &repository.SeatConflictError{Seats: taken}
	}

	now := time.Now().UTC()
	for _, seat := range seats {
		f.claims[claimKey(roomID, seat.RowLabel, seat.SeatNumber, showtimeStart)] = &entity.SeatClaim{
			RoomID:        roomID,
			RowLabel:      seat.RowLabel,
			SeatNumber:    seat.SeatNumber,
			ShowtimeStart: showtimeStart,
			ClaimSetID:    claimSetID,
			CreatedAt:     now,
		}
	}
	return nil
}

func (f *fakeSeatClaimRepo) ReleaseSet(_ context.Context, claimSetID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, c := range f.claims {
		if c.ClaimSetID == claimSetID {
			delete(f.claims, k)
		}
	}
	return nil
}

func (f *fakeSeatClaimRepo) FindBySchedule(_ context.Context, roomID uuid.UUID, showtimeStart time.Time) ([]*entity.SeatClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.SeatClaim
	for _, c := range f.claims {
		if c.RoomID == roomID && c.ShowtimeStart.Equal(showtimeStart) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeSeatClaimRepo) FindBySet(_ context.Context, claimSetID uuid.UUID) ([]*entity.SeatClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.SeatClaim
	for _, c := range f.claims {
		if c.ClaimSetID == claimSetID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeSeatClaimRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.claims)
}

func reservationMapKey(key entity.ReservationKey) string {
	return fmt.Sprintf("%s|%s|%d|%d", key.DNI, key.RoomID, key.ShowtimeStart.UnixNano(), key.CreatedAt.UnixNano())
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*entity.Reservation
	showtimes    *fakeShowtimeRepo
}

func newFakeReservationRepo(showtimes *fakeShowtimeRepo) *fakeReservationRepo {
	return &fakeReservationRepo{
		reservations: make(map[string]*entity.Reservation),
		showtimes:    showtimes,
	}
}

func (f *fakeReservationRepo) Create(_ context.Context, res *entity.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *res
	f.reservations[reservationMapKey(res.Key())] = &copied
	return nil
}

func (f *fakeReservationRepo) FindByKey(_ context.Context, key entity.ReservationKey) (*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[reservationMapKey(key)]
	if !ok {
		return nil, nil
	}
	copied := *res
	return &copied, nil
}

func (f *fakeReservationRepo) FindByDNI(_ context.Context, dni string) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, res := range f.reservations {
		if res.DNI == dni {
			copied := *res
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) ConfirmCAS(_ context.Context, key entity.ReservationKey, paymentRef string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[reservationMapKey(key)]
	if !ok || res.Status != entity.ReservationStatusPendingHold {
		return false, nil
	}
	res.Status = entity.ReservationStatusConfirmed
	res.HoldDeadline = nil
	res.PaymentRef = &paymentRef
	res.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeReservationRepo) CancelCAS(_ context.Context, key entity.ReservationKey) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[reservationMapKey(key)]
	if !ok {
		return false, nil
	}
	if res.Status != entity.ReservationStatusPendingHold && res.Status != entity.ReservationStatusConfirmed {
		return false, nil
	}
	res.Status = entity.ReservationStatusCancelled
	res.HoldDeadline = nil
	res.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeReservationRepo) AttendCAS(_ context.Context, key entity.ReservationKey) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[reservationMapKey(key)]
	if !ok {
		return false, nil
	}
	if res.Status != entity.ReservationStatusPendingHold && res.Status != entity.ReservationStatusConfirmed {
		return false, nil
	}
	res.Status = entity.ReservationStatusAttended
	res.HoldDeadline = nil
	res.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeReservationRepo) CancelExpiredCAS(_ context.Context, key entity.ReservationKey, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[reservationMapKey(key)]
	if !ok {
		return false, nil
	}
	if res.Status != entity.ReservationStatusPendingHold || res.HoldDeadline == nil || !res.HoldDeadline.Before(now) {
		return false, nil
	}
	res.Status = entity.ReservationStatusCancelled
	res.HoldDeadline = nil
	res.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeReservationRepo) FindExpiredHolds(_ context.Context, now time.Time, limit int) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Reservation
	for _, res := range f.reservations {
		if res.Status == entity.ReservationStatusPendingHold && res.HoldDeadline != nil && res.HoldDeadline.Before(now) {
			copied := *res
			out = append(out, &copied)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) MarkNoShows(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var marked int64
	for _, res := range f.reservations {
		if res.Status != entity.ReservationStatusConfirmed {
			continue
		}
		showtime, _ := f.showtimes.FindByKey(ctx, entity.ShowtimeKey{RoomID: res.RoomID, StartsAt: res.ShowtimeStart})
		if showtime == nil || !showtime.EndsAt().Before(now) {
			continue
		}
		res.Status = entity.ReservationStatusNoShow
		res.UpdatedAt = now
		marked++
	}
	return marked, nil
}

func showtimeMapKey(key entity.ShowtimeKey) string {
	return fmt.Sprintf("%s|%d", key.RoomID, key.StartsAt.UnixNano())
}

type fakeShowtimeRepo struct {
	mu        sync.Mutex
	showtimes map[string]*entity.Showtime
}

func newFakeShowtimeRepo() *fakeShowtimeRepo {
	return &fakeShowtimeRepo{showtimes: make(map[string]*entity.Showtime)}
}

func (f *fakeShowtimeRepo) Create(_ context.Context, showtime *entity.Showtime) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *showtime
	f.showtimes[showtimeMapKey(entity.ShowtimeKey{RoomID: showtime.RoomID, StartsAt: showtime.StartsAt})] = &copied
	return nil
}

func (f *fakeShowtimeRepo) FindByKey(_ context.Context, key entity.ShowtimeKey) (*entity.Showtime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	showtime, ok := f.showtimes[showtimeMapKey(key)]
	if !ok {
		return nil, nil
	}
	copied := *showtime
	return &copied, nil
}

func (f *fakeShowtimeRepo) FindByRoom(_ context.Context, roomID uuid.UUID) ([]*entity.Showtime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Showtime
	for _, showtime := range f.showtimes {
		if showtime.RoomID == roomID {
			copied := *showtime
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeShowtimeRepo) Update(_ context.Context, key entity.ShowtimeKey, updated *entity.Showtime) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.showtimes, showtimeMapKey(key))
	copied := *updated
	f.showtimes[showtimeMapKey(entity.ShowtimeKey{RoomID: updated.RoomID, StartsAt: updated.StartsAt})] = &copied
	return nil
}

func (f *fakeShowtimeRepo) SetVisibility(_ context.Context, key entity.ShowtimeKey, visibility entity.ShowtimeVisibility) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	showtime, ok := f.showtimes[showtimeMapKey(key)]
	if !ok {
		return false, nil
	}
	showtime.Visibility = visibility
	return true, nil
}

func (f *fakeShowtimeRepo) FindOverlapping(_ context.Context, roomID uuid.UUID, start, end time.Time, excluding *entity.ShowtimeKey) (*entity.Showtime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, showtime := range f.showtimes {
		if showtime.RoomID != roomID || showtime.Visibility == entity.ShowtimeVisibilityInactive {
			continue
		}
		if excluding != nil && showtime.RoomID == excluding.RoomID && showtime.StartsAt.Equal(excluding.StartsAt) {
			continue
		}
		if showtime.StartsAt.Before(end) && showtime.EndsAt().After(start) {
			copied := *showtime
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeMovieRepo struct {
	mu     sync.Mutex
	movies map[uuid.UUID]*entity.Movie
}

func newFakeMovieRepo() *fakeMovieRepo {
	return &fakeMovieRepo{movies: make(map[uuid.UUID]*entity.Movie)}
}

func (f *fakeMovieRepo) Create(_ context.Context, movie *entity.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *movie
	f.movies[movie.ID] = &copied
	return nil
}

func (f *fakeMovieRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	movie, ok := f.movies[id]
	if !ok {
		return nil, nil
	}
	copied := *movie
	return &copied, nil
}

func (f *fakeMovieRepo) FindAll(_ context.Context) ([]*entity.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Movie
	for _, movie := range f.movies {
		copied := *movie
		out = append(out, &copied)
	}
	return out, nil
}

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*entity.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[uuid.UUID]*entity.Room)}
}

func (f *fakeRoomRepo) Create(_ context.Context, room *entity.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *room
	f.rooms[room.ID] = &copied
	return nil
}

func (f *fakeRoomRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return nil, nil
	}
	copied := *room
	return &copied, nil
}

func (f *fakeRoomRepo) FindAll(_ context.Context) ([]*entity.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Room
	for _, room := range f.rooms {
		copied := *room
		out = append(out, &copied)
	}
	return out, nil
}

type fakeSeatRepo struct {
	mu    sync.Mutex
	seats map[string]*entity.Seat
}

func newFakeSeatRepo() *fakeSeatRepo {
	return &fakeSeatRepo{seats: make(map[string]*entity.Seat)}
}

func seatMapKey(roomID uuid.UUID, row string, number int) string {
	return fmt.Sprintf("%s|%s|%d", roomID, row, number)
}

func (f *fakeSeatRepo) CreateBatch(_ context.Context, seats []*entity.Seat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, seat := range seats {
		copied := *seat
		f.seats[seatMapKey(seat.RoomID, seat.RowLabel, seat.SeatNumber)] = &copied
	}
	return nil
}

func (f *fakeSeatRepo) FindByRoom(_ context.Context, roomID uuid.UUID) ([]*entity.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Seat
	for _, seat := range f.seats {
		if seat.RoomID == roomID {
			copied := *seat
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeSeatRepo) CountByRefs(_ context.Context, roomID uuid.UUID, refs []entity.SeatRef) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, ref := range refs {
		if _, ok := f.seats[seatMapKey(roomID, ref.RowLabel, ref.SeatNumber)]; ok {
			count++
		}
	}
	return count, nil
}

// fakeCacheStore mirrors the redis store's JSON round trip.
type fakeCacheStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{entries: make(map[string][]byte)}
}

func (f *fakeCacheStore) Get(_ context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCacheStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = data
	return nil
}

func (f *fakeCacheStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}

func (f *fakeCacheStore) Ping(context.Context) error { return nil }
func (f *fakeCacheStore) Close() error               { return nil }

// testEnv bundles the fakes behind a fully wired service layer.
type testEnv struct {
	repo    *repository.Repository
	claims  *fakeSeatClaimRepo
	cache   *fakeCacheStore
	config  *utils.Config
	service *Service
}

func newTestEnv() *testEnv {
	showtimes := newFakeShowtimeRepo()
	claims := newFakeSeatClaimRepo()
	cacheStore := newFakeCacheStore()

	repo := &repository.Repository{
		Movie:       newFakeMovieRepo(),
		Room:        newFakeRoomRepo(),
		Seat:        newFakeSeatRepo(),
		Showtime:    showtimes,
		SeatClaim:   claims,
		Reservation: newFakeReservationRepo(showtimes),
	}

	config := &utils.Config{
		Auth: utils.AuthConfig{
			JWTSecret: "test-jwt-secret",
			QRSecret:  "test-qr-secret",
		},
		Booking: utils.BookingConfig{
			HoldTTL:              5 * time.Minute,
			AvailabilityCacheTTL: 5 * time.Second,
		},
		CheckIn: utils.CheckInConfig{
			GracePeriod: 30 * time.Minute,
		},
		Sweeper: utils.SweeperConfig{
			Interval: time.Second,
		},
	}

	return &testEnv{
		repo:    repo,
		claims:  claims,
		cache:   cacheStore,
		config:  config,
		service: NewService(repo, cacheStore, config, zap.NewNop()),
	}
}

// seedShowtime creates a movie, a room with a 5x10 grid and one public
// showtime, and returns the showtime.
func (e *testEnv) seedShowtime(start time.Time, durationMin int) *entity.Showtime {
	ctx := context.Background()

	movie := &entity.Movie{
		ID:          uuid.New(),
		Title:       "Nueve Reinas",
		DurationMin: durationMin,
		ReleaseDate: start.Add(-30 * 24 * time.Hour),
	}
	_ = e.repo.Movie.Create(ctx, movie)

	room := &entity.Room{ID: uuid.New(), Name: "Sala 1", Rows: 5, SeatsRow: 10}
	_ = e.repo.Room.Create(ctx, room)

	var seats []*entity.Seat
	for row := 0; row < room.Rows; row++ {
		for num := 1; num <= room.SeatsRow; num++ {
			seats = append(seats, &entity.Seat{
				RoomID:     room.ID,
				RowLabel:   string(rune('A' + row)),
				SeatNumber: num,
				Tier:       entity.SeatTierStandard,
			})
		}
	}
	_ = e.repo.Seat.CreateBatch(ctx, seats)

	showtime := &entity.Showtime{
		RoomID:      room.ID,
		StartsAt:    start,
		MovieID:     movie.ID,
		DurationMin: durationMin,
		Price:       10.5,
		Visibility:  entity.ShowtimeVisibilityPublic,
	}
	_ = e.repo.Showtime.Create(ctx, showtime)

	return showtime
}
