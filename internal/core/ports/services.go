package ports

import (
	"context"

	"github.com/therapyai/caseload/internal/core/domain"
)

// NewUserInput carries the attributes of a new admin account. Therapist
// accounts are created with their Therapist through TherapistService.Add.
type NewUserInput struct {
	Role     domain.Role `validate:"required,oneof=admin"`
	Name     string      `validate:"required"`
	Email    string      `validate:"required,email"`
	Password string      `validate:"required,min=6"`
}

// UserPatch is a shallow merge over an existing user; nil fields are kept.
type UserPatch struct {
	Name     *string `validate:"omitempty,min=1"`
	Email    *string `validate:"omitempty,email"`
	Password *string `validate:"omitempty,min=6"`
}

// UserService manages login accounts.
type UserService interface {
	List(ctx context.Context, sess domain.Session) ([]domain.User, error)
	Get(ctx context.Context, sess domain.Session, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, sess domain.Session, email string) (*domain.User, error)
	Add(ctx context.Context, sess domain.Session, in NewUserInput) (*domain.User, error)
	Update(ctx context.Context, sess domain.Session, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, sess domain.Session, id string) error
}

// NewTherapistInput carries what the admin enters to create a therapist and
// its login account.
type NewTherapistInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// TherapistPatch updates a therapist and its paired user.
type TherapistPatch struct {
	Name  *string `validate:"omitempty,min=1"`
	Email *string `validate:"omitempty,email"`
}

// TherapistService is the admin workspace.
type TherapistService interface {
	List(ctx context.Context, sess domain.Session) ([]domain.TherapistSummary, error)
	Get(ctx context.Context, sess domain.Session, id string) (*domain.Therapist, error)
	Add(ctx context.Context, sess domain.Session, in NewTherapistInput) (*domain.Therapist, error)
	Update(ctx context.Context, sess domain.Session, id string, patch TherapistPatch) (*domain.Therapist, error)
	Delete(ctx context.Context, sess domain.Session, id string) error
	ResetPassword(ctx context.Context, sess domain.Session, id string) (string, error)
}

// NewChildInput carries the attributes of a new client. The owning therapist
// always comes from the session.
type NewChildInput struct {
	Name       string `validate:"required"`
	DOB        string `validate:"required,dob"`
	Category   string
	Concern    string `validate:"required"`
	Guardian   string
	Notes      string
	Milestones []string
	Strategies []string
}

// ChildPatch is a shallow merge over an existing child; nil fields are kept.
type ChildPatch struct {
	Name       *string `validate:"omitempty,min=1"`
	DOB        *string `validate:"omitempty,dob"`
	Category   *string
	Concern    *string `validate:"omitempty,min=1"`
	Guardian   *string
	Notes      *string
	Milestones *[]string
	Strategies *[]string
}

// ChildService is the therapist workspace.
type ChildService interface {
	List(ctx context.Context, sess domain.Session) ([]domain.Child, error)
	ListByTherapist(ctx context.Context, sess domain.Session, therapistID string) ([]domain.Child, error)
	Get(ctx context.Context, sess domain.Session, id string) (*domain.Child, error)
	Add(ctx context.Context, sess domain.Session, in NewChildInput) (*domain.Child, error)
	Update(ctx context.Context, sess domain.Session, id string, patch ChildPatch) (*domain.Child, error)
	Delete(ctx context.Context, sess domain.Session, id string) error
	Regenerate(ctx context.Context, sess domain.Session, id string, kind domain.GoalKind) (*domain.Child, error)
}

// ChatService is the child workspace conversation.
type ChatService interface {
	List(ctx context.Context, sess domain.Session, childID string) ([]domain.ChatMessage, error)
	Append(ctx context.Context, sess domain.Session, childID string, from domain.Sender, text string) (*domain.ChatMessage, error)
	Ask(ctx context.Context, sess domain.Session, childID, text string) (*domain.ChatMessage, error)
	Summaries(ctx context.Context, sess domain.Session) ([]domain.ChatSummary, error)
}

// AuthService manages the persisted current session of this store.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Session, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (domain.Session, error)
}

// ChatPublisher fans appended messages out to live subscribers.
type ChatPublisher interface {
	Publish(childID string, msg domain.ChatMessage)
}

// ReplyRequest asks the assistant to answer a therapist message.
type ReplyRequest struct {
	ChildID string
	Prompt  string
}

// ReplyScheduler queues assistant replies.
type ReplyScheduler interface {
	Enqueue(req ReplyRequest)
}

// Replier produces and stores an assistant reply.
type Replier interface {
	Reply(ctx context.Context, req ReplyRequest) error
}
