package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-reservations/internal/data/entity"
	"cinema-reservations/internal/dto/request"
	"cinema-reservations/internal/dto/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backdateHold rewrites the hold deadline so the sweeper sees it as
// expired without waiting out the TTL.
func backdateHold(t *testing.T, env *testEnv, held *response.ReservationResponse) {
	t.Helper()
	ctx := context.Background()

	key := entity.ReservationKey{
		DNI:           held.DNI,
		RoomID:        uuidMustParse(t, held.RoomID),
		ShowtimeStart: held.ShowtimeStart,
		CreatedAt:     held.ReservedAt,
	}
	res, err := env.repo.Reservation.FindByKey(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, res)

	past := time.Now().UTC().Add(-time.Minute)
	res.HoldDeadline = &past
	require.NoError(t, env.repo.Reservation.Create(ctx, res))
}

func TestSweepReclaimsExpiredHold(t *testing.T) {
	env := newTestEnv()
	showtime := env.seedShowtime(time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC), 120)

	held, err := env.service.Reservation.StartHold(context.Background(), "30123456",
		holdRequest(showtime, request.SeatRequest{Row: "A", Number: 1}))
	require.NoError(t, err)
	backdateHold(t, env, held)

	reclaimed, _ := env.service.Sweeper.Sweep(context.Background())
	assert.Equal(t, 1, reclaimed)
	assert.Zero(t, env.claims.count())

	// The seat is claimable again by someone else.
	_, err = env.service.Reservation.StartHold(context.Background(), "30999999",
		holdRequest(showtime, request.SeatRequest{Row: "A", Number: 1}))
	assert.NoError(t, err)

	reservations, err := env.service.Reservation.ListByCustomer(context.Background(), "30123456")
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, entity.ReservationStatusCancelled, reservations[0].Status)
}

func TestSweepLeavesActiveHoldAlone(t *testing.T) {
	env := newTestEnv()
	showtime := env.seedShowtime(time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC), 120)

	_, err := env.service.Reservation.StartHold(context.Background(), "30123456",
		holdRequest(showtime, request.SeatRequest{Row: "A", Number: 1}))
	require.NoError(t, err)

	reclaimed, _ := env.service.Sweeper.Sweep(context.Background())
	assert.Zero(t, reclaimed)
	assert.Equal(t, 1, env.claims.count())
}

func TestSweepLeavesConfirmedAlone(t *testing.T) {
	env := newTestEnv()
	showtime := env.seedShowtime(time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC), 120)

	held, err := env.service.Reservation.StartHold(context.Background(), "30123456",
		holdRequest(showtime, request.SeatRequest{Row: "A", Number: 1}))
	require.NoError(t, err)
	_, err = env.service.Reservation.Confirm(context.Background(), confirmRequest(held, "pay-123"))
	require.NoError(t, err)

	reclaimed, _ := env.service.Sweeper.Sweep(context.Background())
	assert.Zero(t, reclaimed)
	assert.Equal(t, 1, env.claims.count())
}

func TestSweepLosesRaceToConfirm(t *testing.T) {
	env := newTestEnv()
	showtime := env.seedShowtime(time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC), 120)
	ctx := context.Background()

	held, err := env.service.Reservation.StartHold(ctx, "30123456",
		holdRequest(showtime, request.SeatRequest{Row: "A", Number: 1}))
	require.NoError(t, err)
	backdateHold(t, env, held)

	key := entity.ReservationKey{
		DNI:           held.DNI,
		RoomID:        showtime.RoomID,
		ShowtimeStart: held.ShowtimeStart,
		CreatedAt:     held.ReservedAt,
	}

	// The sweeper scanned the expired row, then a confirm slips in before
	// the per-row cancel runs.
	expired, err := env.repo.Reservation.FindByKey(ctx, key)
	require.NoError(t, err)

	_, err = env.service.Reservation.Confirm(ctx, confirmRequest(held, "pay-123"))
	require.NoError(t, err)

	won, err := env.service.Reservation.CancelExpired(ctx, expired)
	require.NoError(t, err)
	assert.False(t, won)

	// The confirmed reservation keeps its seats.
	assert.Equal(t, 1, env.claims.count())
	current, err := env.repo.Reservation.FindByKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusConfirmed, current.Status)
}

func TestSweepMarksNoShows(t *testing.T) {
	env := newTestEnv()
	// A function that already ended an hour ago.
	start := time.Now().UTC().Add(-3 * time.Hour).Truncate(time.Second)
	showtime := env.seedShowtime(start, 90)

	held, err := env.service.Reservation.StartHold(context.Background(), "30123456",
		holdRequest(showtime, request.SeatRequest{Row: "A", Number: 1}))
	require.NoError(t, err)
	_, err = env.service.Reservation.Confirm(context.Background(), confirmRequest(held, "pay-123"))
	require.NoError(t, err)

	_, noShows := env.service.Sweeper.Sweep(context.Background())
	assert.Equal(t, int64(1), noShows)

	reservations, err := env.service.Reservation.ListByCustomer(context.Background(), "30123456")
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, entity.ReservationStatusNoShow, reservations[0].Status)

	// No-show keeps its claims; the seats were sold.
	assert.Equal(t, 1, env.claims.count())
}

func TestSweeperRunStopsOnContextCancel(t *testing.T) {
	env := newTestEnv()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		env.service.Sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}
