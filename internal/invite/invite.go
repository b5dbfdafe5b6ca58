// Package invite implements registration invitations. Two kinds exist:
// server-issued opaque tokens stored in the invites table, and client-encoded
// tokens carried entirely in the URL as base64 JSON.
package invite

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/pitchside/academy-api/internal/models"
)

var (
	ErrExpired   = errors.New("invitation expired")
	ErrMalformed = errors.New("invitation token malformed")
)

// ClientToken is the self-describing invitation embedded in invite links.
// Expires is unix milliseconds; an expired token must never prefill a
// registration form.
type ClientToken struct {
	Email     string      `json:"email"`
	PlayerID  *uint       `json:"playerId,omitempty"`
	Role      models.Role `json:"role,omitempty"`
	AcademyID *uint       `json:"academyId,omitempty"`
	Expires   int64       `json:"expires"`
}

// Encode packs the token for use as a URL parameter.
func Encode(t ClientToken) string {
	b, _ := json.Marshal(t)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode unpacks and validates a client token. Standard base64 is accepted
// too, because older invite emails used btoa-style padding.
func Decode(raw string, now time.Time) (*ClientToken, error) {
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		if b, err = base64.StdEncoding.DecodeString(raw); err != nil {
			return nil, ErrMalformed
		}
	}
	var t ClientToken
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, ErrMalformed
	}
	if t.Email == "" || t.Expires == 0 {
		return nil, ErrMalformed
	}
	if time.UnixMilli(t.Expires).Before(now) {
		return nil, ErrExpired
	}
	return &t, nil
}
