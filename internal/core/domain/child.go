package domain

import (
	"fmt"
	"time"
)

// DateLayout is the storage format of a date of birth.
const DateLayout = "2006-01-02"

// GoalKind selects one of the two goal lists held on a Child.
type GoalKind string

const (
	GoalMilestones GoalKind = "milestones"
	GoalStrategies GoalKind = "strategies"
)

// Valid reports whether k names a known goal list.
func (k GoalKind) Valid() bool {
	return k == GoalMilestones || k == GoalStrategies
}

// Child is a client on a therapist's caseload.
//
// AgeYears is denormalized from DOB and must be recomputed on every write that
// touches DOB.
type Child struct {
	ID          string    `json:"id"`
	TherapistID string    `json:"therapistId"`
	Name        string    `json:"name"`
	DOB         string    `json:"dob"`
	AgeYears    int       `json:"ageYears"`
	Category    string    `json:"category"`
	Concern     string    `json:"concern"`
	Guardian    string    `json:"guardian"`
	Notes       string    `json:"notes"`
	Milestones  []string  `json:"milestones"`
	Strategies  []string  `json:"strategies"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ParseDOB parses a YYYY-MM-DD date of birth.
func ParseDOB(dob string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dob)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: dob must be formatted as YYYY-MM-DD", ErrValidation)
	}
	return t, nil
}

// CheckDOB rejects a date of birth after the calendar day of now.
func CheckDOB(dob, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if dob.After(today) {
		return fmt.Errorf("%w: dob cannot be in the future", ErrValidation)
	}
	return nil
}

// AgeYears returns the whole number of years between dob and now, taking
// month and day into account.
func AgeYears(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// DOBFromYear builds the January 1st date of birth used when only a birth
// year is known.
func DOBFromYear(year int) string {
	return fmt.Sprintf("%04d-01-01", year)
}
