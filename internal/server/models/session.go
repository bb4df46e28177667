package models

import "time"

// Session is the registry entry for an issued refresh token, keyed by the
// token's jti claim. The registry owns liveness: the token string itself is
// just a bearer credential that must agree with this record.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// Active reports whether the session can still be redeemed at the given
// instant. Expiry is always re-checked here; the durable backend's cleanup
// sweep is an optimization, not a correctness requirement.
func (s *Session) Active(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}
