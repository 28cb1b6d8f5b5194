// Package token signs and verifies the opaque values stored in the session
// cookie. A value is base64url(payload) + "." + base64url(HMAC-SHA256).
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalid = errors.New("invalid token")
	ErrExpired = errors.New("token expired")
)

// MaxSessionIDLength bounds the identifier a token may carry.
const MaxSessionIDLength = 128

// payload structure for encoding/decoding
type payload struct {
	SessionID string `json:"s"`
	TS        int64  `json:"t"`
}

// Sign creates a signed token for the given session identifier.
func Sign(sessionID string, secret []byte) (string, error) {
	return signAt(sessionID, secret, time.Now())
}

func signAt(sessionID string, secret []byte, now time.Time) (string, error) {
	if sessionID == "" || len(sessionID) > MaxSessionIDLength {
		return "", ErrInvalid
	}
	data, err := json.Marshal(payload{SessionID: sessionID, TS: now.Unix()})
	if err != nil {
		return "", err
	}

	enc := base64.RawURLEncoding
	return enc.EncodeToString(data) + "." + enc.EncodeToString(mac(data, secret)), nil
}

// Verify checks the token integrity and expiry and returns the session
// identifier it carries. A ttl of zero disables the expiry check.
func Verify(token string, secret []byte, ttl time.Duration) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", ErrInvalid
	}
	enc := base64.RawURLEncoding
	data, err := enc.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalid
	}
	sig, err := enc.DecodeString(parts[1])
	if err != nil {
		return "", ErrInvalid
	}
	if !hmac.Equal(mac(data, secret), sig) {
		return "", ErrInvalid
	}

	var pl payload
	if err := json.Unmarshal(data, &pl); err != nil || pl.SessionID == "" {
		return "", ErrInvalid
	}
	if ttl > 0 && time.Since(time.Unix(pl.TS, 0)) > ttl {
		return "", ErrExpired
	}
	return pl.SessionID, nil
}

func mac(data, secret []byte) []byte {
	m := hmac.New(sha256.New, secret)
	m.Write(data)
	return m.Sum(nil)
}
