package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/ports"
	"github.com/therapyai/caseload/internal/pkg/validation"
)

// UserService manages login accounts. Every operation is admin-only.
type UserService struct {
	tables *Tables
	log    zerolog.Logger
}

func NewUserService(tables *Tables, log zerolog.Logger) *UserService {
	return &UserService{tables: tables, log: log}
}

func (s *UserService) List(ctx context.Context, sess domain.Session) ([]domain.User, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.tables.users(ctx)
}

func (s *UserService) Get(ctx context.Context, sess domain.Session, id string) (*domain.User, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	rows, err := s.tables.users(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfUser(rows, id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	u := rows[i]
	return &u, nil
}

// FindByEmail returns the user holding email. Matching is exact.
func (s *UserService) FindByEmail(ctx context.Context, sess domain.Session, email string) (*domain.User, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	rows, err := s.tables.users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Add creates a user. Email uniqueness is enforced here; the store does not.
func (s *UserService) Add(ctx context.Context, sess domain.Session, in ports.NewUserInput) (*domain.User, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	s.tables.mu.Lock()
	defer s.tables.mu.Unlock()

	rows, err := s.tables.users(ctx)
	if err != nil {
		return nil, err
	}
	if emailTaken(rows, in.Email, "") {
		return nil, domain.ErrUserExists
	}

	user := domain.User{
		ID:        s.tables.newID(),
		Role:      in.Role,
		Name:      in.Name,
		Email:     in.Email,
		Password:  in.Password,
		CreatedAt: s.tables.now(),
	}
	op, err := s.tables.usersOp(append(rows, user))
	if err != nil {
		return nil, err
	}
	if err := s.tables.save(ctx, op); err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, sess domain.Session, id string, patch ports.UserPatch) (*domain.User, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	s.tables.mu.Lock()
	defer s.tables.mu.Unlock()

	rows, err := s.tables.users(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfUser(rows, id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	if patch.Email != nil && emailTaken(rows, *patch.Email, id) {
		return nil, domain.ErrUserExists
	}

	applyUserPatch(&rows[i], patch)
	op, err := s.tables.usersOp(rows)
	if err != nil {
		return nil, err
	}
	ops := []ports.Op{op}

	// A therapist login shares name and email with its Therapist row.
	if rows[i].Role == domain.RoleTherapist && (patch.Name != nil || patch.Email != nil) {
		therapists, err := s.tables.therapists(ctx)
		if err != nil {
			return nil, err
		}
		if j := indexOfTherapist(therapists, id); j >= 0 {
			therapists[j].Name = rows[i].Name
			therapists[j].Email = rows[i].Email
			top, err := s.tables.therapistsOp(therapists)
			if err != nil {
				return nil, err
			}
			ops = append(ops, top)
		}
	}

	if err := s.tables.save(ctx, ops...); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	u := rows[i]
	return &u, nil
}

// Delete removes a user. Deleting an unknown id is a no-op. A therapist
// account that still has its Therapist row must be removed through
// TherapistService.Delete so the pair stays consistent; one without a row is
// removed here.
func (s *UserService) Delete(ctx context.Context, sess domain.Session, id string) error {
	if !sess.IsAdmin() {
		return domain.ErrForbidden
	}

	s.tables.mu.Lock()
	defer s.tables.mu.Unlock()

	rows, err := s.tables.users(ctx)
	if err != nil {
		return err
	}
	i := indexOfUser(rows, id)
	if i < 0 {
		return nil
	}
	if rows[i].Role == domain.RoleTherapist {
		therapists, err := s.tables.therapists(ctx)
		if err != nil {
			return err
		}
		if indexOfTherapist(therapists, id) >= 0 {
			return fmt.Errorf("%w: delete therapist accounts through the therapist workspace", domain.ErrForbidden)
		}
	}

	op, err := s.tables.usersOp(append(rows[:i:i], rows[i+1:]...))
	if err != nil {
		return err
	}
	if err := s.tables.save(ctx, op); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func applyUserPatch(u *domain.User, p ports.UserPatch) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
}
