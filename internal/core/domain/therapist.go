package domain

import "time"

// Therapist is the caseload owner. Its ID always equals the ID of the paired
// User with RoleTherapist.
type Therapist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// TherapistSummary is a Therapist plus the number of children assigned to it.
type TherapistSummary struct {
	Therapist
	ClientCount int `json:"clientCount"`
}
