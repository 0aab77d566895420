package handler

import (
	"time"

	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/service"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	UserID    string      `json:"user_id"`
	Role      domain.Role `json:"role"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Dashboard domain.Page `json:"dashboard"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Session sessionResponse `json:"session"`
}

// --- Users ---

type userResponse struct {
	ID        string      `json:"id"`
	Role      domain.Role `json:"role"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	CreatedAt string      `json:"created_at"`
}

// --- Therapists ---

type createTherapistRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type updateTherapistRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type therapistResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CreatedAt   string `json:"created_at"`
	ClientCount *int   `json:"client_count,omitempty"`
}

type passwordResponse struct {
	Password string `json:"password"`
}

// --- Children ---

type createChildRequest struct {
	Name string `json:"name" validate:"required"`
	// DOB wins over BirthYear when both are sent.
	DOB        string   `json:"dob" validate:"required_without=BirthYear"`
	BirthYear  int      `json:"birth_year" validate:"omitempty,gte=1900"`
	Category   string   `json:"category"`
	Concern    string   `json:"concern" validate:"required"`
	Guardian   string   `json:"guardian"`
	Notes      string   `json:"notes"`
	Milestones []string `json:"milestones"`
	Strategies []string `json:"strategies"`
}

type updateChildRequest struct {
	Name       *string   `json:"name"`
	DOB        *string   `json:"dob"`
	Category   *string   `json:"category"`
	Concern    *string   `json:"concern"`
	Guardian   *string   `json:"guardian"`
	Notes      *string   `json:"notes"`
	Milestones *[]string `json:"milestones"`
	Strategies *[]string `json:"strategies"`
}

type childResponse struct {
	ID          string   `json:"id"`
	TherapistID string   `json:"therapist_id"`
	Name        string   `json:"name"`
	DOB         string   `json:"dob"`
	AgeYears    int      `json:"age_years"`
	Category    string   `json:"category"`
	Concern     string   `json:"concern"`
	Guardian    string   `json:"guardian"`
	Notes       string   `json:"notes"`
	Milestones  []string `json:"milestones"`
	Strategies  []string `json:"strategies"`
	UpdatedAt   string   `json:"updated_at"`
}

// --- Chat ---

type postMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type messageResponse struct {
	ID   string        `json:"id"`
	From domain.Sender `json:"from"`
	Text string        `json:"text"`
	TS   string        `json:"ts"`
}

type chatSummaryResponse struct {
	ChildID      string            `json:"child_id"`
	ChildName    string            `json:"child_name"`
	Category     string            `json:"category"`
	MessageCount int               `json:"message_count"`
	LastMessage  messageResponse   `json:"last_message"`
	Recent       []messageResponse `json:"recent"`
	More         bool              `json:"more"`
}

// --- Mappers ---

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func toSessionResponse(s domain.Session) sessionResponse {
	return sessionResponse{
		UserID:    s.UserID,
		Role:      s.Role,
		Name:      s.Name,
		Email:     s.Email,
		Dashboard: service.DashboardFor(s),
	}
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email, CreatedAt: formatTime(u.CreatedAt)}
}

func toTherapistResponse(t domain.Therapist) therapistResponse {
	return therapistResponse{ID: t.ID, Name: t.Name, Email: t.Email, CreatedAt: formatTime(t.CreatedAt)}
}

func toChildResponse(c domain.Child) childResponse {
	return childResponse{
		ID:          c.ID,
		TherapistID: c.TherapistID,
		Name:        c.Name,
		DOB:         c.DOB,
		AgeYears:    c.AgeYears,
		Category:    c.Category,
		Concern:     c.Concern,
		Guardian:    c.Guardian,
		Notes:       c.Notes,
		Milestones:  nonNil(c.Milestones),
		Strategies:  nonNil(c.Strategies),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}

func toMessageResponse(m domain.ChatMessage) messageResponse {
	return messageResponse{ID: m.ID, From: m.From, Text: m.Text, TS: formatTime(m.TS)}
}

func toChatSummaryResponse(s domain.ChatSummary) chatSummaryResponse {
	recent := make([]messageResponse, 0, len(s.Recent))
	for _, m := range s.Recent {
		recent = append(recent, toMessageResponse(m))
	}
	return chatSummaryResponse{
		ChildID:      s.Child.ID,
		ChildName:    s.Child.Name,
		Category:     s.Child.Category,
		MessageCount: s.MessageCount,
		LastMessage:  toMessageResponse(s.LastMessage),
		Recent:       recent,
		More:         s.More,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
