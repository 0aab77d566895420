package domain

// Page is a navigation target used by the role guard.
type Page string

const (
	PageLogin     Page = "index"
	PageAdmin     Page = "admin"
	PageTherapist Page = "therapist"
)

// Session is the principal on whose behalf a service call runs. The zero
// value is the anonymous session.
type Session struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// SessionFor builds the session of a logged-in user.
func SessionFor(u User) Session {
	return Session{UserID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}
}

func (s Session) IsAuthenticated() bool { return s.UserID != "" && s.Role.Valid() }
func (s Session) IsAdmin() bool         { return s.IsAuthenticated() && s.Role == RoleAdmin }
func (s Session) IsTherapist() bool     { return s.IsAuthenticated() && s.Role == RoleTherapist }
