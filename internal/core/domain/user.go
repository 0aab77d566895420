package domain

import "time"

// Role identifies what a user may do once logged in.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTherapist Role = "therapist"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTherapist
}

// User models a login account. Therapist accounts share their ID with the
// paired Therapist record.
type User struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}
