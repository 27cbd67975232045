package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Guard purges expired sessions. It runs once at session start, before any
// authorized call is issued, and is idempotent: sweeping an empty store is
// a no-op.
type Guard struct {
	now func() time.Time
}

// NewGuard builds a guard on the system clock.
func NewGuard() *Guard {
	return &Guard{now: time.Now}
}

// Sweep inspects the stored token's embedded expiry and clears the whole
// session surface when the token is malformed or expired. A store with no
// token is left untouched.
func (g *Guard) Sweep(ctx context.Context, store Store) error {
	token, err := store.Read(ctx, KeyToken)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	if tokenExpired(token, g.now()) {
		return store.Clear(ctx)
	}
	return nil
}

// tokenExpired decodes the middle segment of a header.payload.signature
// token as base64 JSON and reads its exp field (seconds since epoch). Any
// decode failure counts as expired.
func tokenExpired(token string, now time.Time) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return true
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return true
	}

	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return true
	}

	return claims.Exp*1000 <= now.UnixMilli()
}

func decodeSegment(seg string) ([]byte, error) {
	if payload, err := base64.RawURLEncoding.DecodeString(seg); err == nil {
		return payload, nil
	}
	return base64.URLEncoding.DecodeString(seg)
}
