package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRTokenRoundTrip(t *testing.T) {
	payload := QRPayload{
		DNI:           "30123456",
		RoomID:        "7f9c24e5-2f7a-4b1e-9d35-6a2b8c4d1e0f",
		ShowtimeStart: time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC),
		ReservedAt:    time.Date(2026, 8, 28, 14, 30, 0, 123456000, time.UTC),
	}

	token, err := SignQRToken("secret", payload)
	require.NoError(t, err)

	decoded, err := ParseQRToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, payload.DNI, decoded.DNI)
	assert.Equal(t, payload.RoomID, decoded.RoomID)
	assert.True(t, decoded.ShowtimeStart.Equal(payload.ShowtimeStart))
	assert.True(t, decoded.ReservedAt.Equal(payload.ReservedAt))
}

func TestQRTokenWrongSecret(t *testing.T) {
	token, err := SignQRToken("secret", QRPayload{
		DNI:           "30123456",
		RoomID:        "7f9c24e5-2f7a-4b1e-9d35-6a2b8c4d1e0f",
		ShowtimeStart: time.Now().UTC(),
		ReservedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = ParseQRToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestQRTokenGarbage(t *testing.T) {
	_, err := ParseQRToken("secret", "definitely-not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestQRTokenMissingClaims(t *testing.T) {
	// Correctly signed but without the reservation key claims.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"dni": "30123456"})
	token, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseQRToken("secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestQRTokenRejectsUnsignedAlgorithm(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"dni": "30123456",
		"sal": "7f9c24e5-2f7a-4b1e-9d35-6a2b8c4d1e0f",
		"fun": time.Now().UTC().Format(time.RFC3339Nano),
		"res": time.Now().UTC().Format(time.RFC3339Nano),
	})
	token, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseQRToken("secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentityTokenRoundTrip(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "30123456",
		"role": "staff",
	})
	token, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	identity, err := ParseIdentityToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "30123456", identity.DNI)
	assert.Equal(t, "staff", identity.Role)
}

func TestIdentityTokenDefaultsToCustomerRole(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "30123456"})
	token, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	identity, err := ParseIdentityToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "customer", identity.Role)
}

func TestIdentityTokenMissingSubject(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "staff"})
	token, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseIdentityToken("secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
