package entities

import "time"

// LoginToken is a single-use credential emailed to a member.
type LoginToken struct {
	Token     string    `db:"token"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Valid tells if the token is still usable at the given time.
func (t *LoginToken) Valid(now time.Time) bool {
	return t.ExpiresAt.After(now)
}
