package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// QRPayload is the decoded content of a reservation QR code. The four
// fields together form the reservation's natural key.
type QRPayload struct {
	DNI           string
	RoomID        string
	ShowtimeStart time.Time
	ReservedAt    time.Time
}

// Identity is what the auth provider asserts about the caller. This
// service verifies the signature and trusts the claims; it holds no
// user records of its own.
type Identity struct {
	DNI  string
	Role string
}

// SignQRToken builds the opaque payload embedded in a reservation QR.
// HS256 over the reservation key; the scanner posts the string back
// verbatim so nothing here needs to be human readable.
func SignQRToken(secret string, p QRPayload) (string, error) {
	claims := jwt.MapClaims{
		"dni": p.DNI,
		"sal": p.RoomID,
		"fun": p.ShowtimeStart.UTC().Format(time.RFC3339Nano),
		"res": p.ReservedAt.UTC().Format(time.RFC3339Nano),
		"iat": time.Now().UTC().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign qr token: %w", err)
	}
	return signed, nil
}

// ParseQRToken verifies and decodes a scanned QR payload. Any failure —
// bad signature, wrong algorithm, malformed claims — collapses into
// ErrInvalidToken; the scanner gets no detail beyond that.
func ParseQRToken(secret, token string) (QRPayload, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return QRPayload{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return QRPayload{}, ErrInvalidToken
	}

	dni, _ := claims["dni"].(string)
	roomID, _ := claims["sal"].(string)
	funStr, _ := claims["fun"].(string)
	resStr, _ := claims["res"].(string)
	if dni == "" || roomID == "" || funStr == "" || resStr == "" {
		return QRPayload{}, ErrInvalidToken
	}

	showtimeStart, err := time.Parse(time.RFC3339Nano, funStr)
	if err != nil {
		return QRPayload{}, ErrInvalidToken
	}
	reservedAt, err := time.Parse(time.RFC3339Nano, resStr)
	if err != nil {
		return QRPayload{}, ErrInvalidToken
	}

	return QRPayload{
		DNI:           dni,
		RoomID:        roomID,
		ShowtimeStart: showtimeStart.UTC(),
		ReservedAt:    reservedAt.UTC(),
	}, nil
}

// ParseIdentityToken verifies a bearer token from the auth provider and
// extracts the caller's identity claims.
func ParseIdentityToken(secret, token string) (Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	dni, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if dni == "" {
		return Identity{}, ErrInvalidToken
	}
	if role == "" {
		role = "customer"
	}

	return Identity{DNI: dni, Role: role}, nil
}
