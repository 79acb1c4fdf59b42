package wire

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cinema-reservations/internal/data/repository"
	"cinema-reservations/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// The protected routes answer 401 without a token, which is enough to
// tell a registered path from an unregistered one: chi answers 404
// before any middleware runs on a path it does not know.
func TestRouterRegistersReservationRoutes(t *testing.T) {
	app := Wiring(&repository.Repository{}, nil, &utils.Config{}, zap.NewNop())

	routes := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodPost, "/AsientoReserva", http.StatusUnauthorized},
		{http.MethodGet, "/Reserva/room-1/2026-09-01T22:00:00Z/30123456/2026-09-01T10:00:00Z", http.StatusUnauthorized},
		{http.MethodDelete, "/Reserva/room-1/2026-09-01T22:00:00Z/30123456/2026-09-01T10:00:00Z", http.StatusUnauthorized},
		{http.MethodDelete, "/Reserva/room-1/2026-09-01T22:00:00Z/30123456/2026-09-01T10:00:00Z/Asiento/A/1", http.StatusUnauthorized},
		{http.MethodGet, "/Reservas/30123456", http.StatusUnauthorized},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodDelete, "/Reserva/room-1", http.StatusNotFound},
	}

	for _, route := range routes {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, route.status, rec.Code, "%s %s", route.method, route.path)
	}
}
