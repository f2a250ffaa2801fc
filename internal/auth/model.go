package auth

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDefault Role = "default"
)

// ParseRole returns the Role named by s, or ErrInvalidRole.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleDefault:
		return r, nil
	}
	return "", ErrInvalidRole
}

// User is a credential record. An empty PasswordHash marks an unclaimed
// record: it carries a role but no one has logged in as it yet.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

func (u *User) Claimed() bool {
	return u.PasswordHash != ""
}

// SessionClaims is the decoded content of a session token.
type SessionClaims struct {
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthContext is the per-request result of session resolution.
type AuthContext struct {
	IsAuthenticated bool
	Username        string
}
