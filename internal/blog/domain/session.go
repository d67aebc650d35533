package domain

import "time"

// Session is the server-side half of a login. The cookie carries a signed
// token naming the session; deleting the row ends the session immediately.
type Session struct {
	ID         string // ULID
	UserID     int64
	Persistent bool // "remember me"
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Expired reports whether the session is no longer usable at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
