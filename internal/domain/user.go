package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator_kabupaten"
)

type User struct {
	ID        Text   `json:"id"`
	Username  string `json:"username,omitempty"`
	Nama      string `json:"nama"`
	Role      Role   `json:"role"`
	Kabupaten string `json:"kabupaten,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is the server side record behind a session token.
type Session struct {
	ID           string    `json:"id"`
	User         *User     `json:"user"`
	LastActivity time.Time `json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expired reports whether the idle time is past timeout.
func (s *Session) Expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) > timeout
}
