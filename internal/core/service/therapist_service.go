package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/ports"
	"github.com/therapyai/caseload/internal/pkg/validation"
)

const (
	passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	passwordLength   = 10
)

// TherapistService is the admin workspace. A therapist and its login account
// are always written together in one batch.
type TherapistService struct {
	tables *Tables
	log    zerolog.Logger
}

func NewTherapistService(tables *Tables, log zerolog.Logger) *TherapistService {
	return &TherapistService{tables: tables, log: log}
}

// List returns every therapist with the size of its caseload.
func (s *TherapistService) List(ctx context.Context, sess domain.Session) ([]domain.TherapistSummary, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	therapists, err := s.tables.therapists(ctx)
	if err != nil {
		return nil, err
	}
	children, err := s.tables.children(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(therapists))
	for _, c := range children {
		counts[c.TherapistID]++
	}
	out := make([]domain.TherapistSummary, 0, len(therapists))
	for _, t := range therapists {
		out = append(out, domain.TherapistSummary{Therapist: t, ClientCount: counts[t.ID]})
	}
	return out, nil
}

func (s *TherapistService) Get(ctx context.Context, sess domain.Session, id string) (*domain.Therapist, error) {
	if !sess.IsAdmin() && !(sess.IsTherapist() && sess.UserID == id) {
		return nil, domain.ErrForbidden
	}
	rows, err := s.tables.therapists(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfTherapist(rows, id)
	if i < 0 {
		return nil, domain.ErrTherapistNotFound
	}
	t := rows[i]
	return &t, nil
}

// Add creates a therapist and its paired login account under the same id.
func (s *TherapistService) Add(ctx context.Context, sess domain.Session, in ports.NewTherapistInput) (*domain.Therapist, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	s.tables.mu.Lock()
	defer s.tables.mu.Unlock()

	users, err := s.tables.users(ctx)
	if err != nil {
		return nil, err
	}
	if emailTaken(users, in.Email, "") {
		return nil, domain.ErrUserExists
	}
	therapists, err := s.tables.therapists(ctx)
	if err != nil {
		return nil, err
	}

	now := s.tables.now()
	therapist := domain.Therapist{
		ID:        s.tables.newID(),
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: now,
	}
	user := domain.User{
		ID:        therapist.ID,
		Role:      domain.RoleTherapist,
		Name:      in.Name,
		Email:     in.Email,
		Password:  in.Password,
		CreatedAt: now,
	}

	tOp, err := s.tables.therapistsOp(append(therapists, therapist))
	if err != nil {
		return nil, err
	}
	uOp, err := s.tables.usersOp(append(users, user))
	if err != nil {
		return nil, err
	}
	if err := s.tables.save(ctx, tOp, uOp); err != nil {
		return nil, fmt.Errorf("add therapist: %w", err)
	}

	s.log.Info().Str("therapist_id", therapist.ID).Str("email", therapist.Email).Msg("therapist created")
	return &therapist, nil
}

// Update merges patch into the therapist and mirrors name/email onto the
// paired user. An unknown id leaves both tables untouched.
func (s *TherapistService) Update(ctx context.Context, sess domain.Session, id string, patch ports.TherapistPatch) (*domain.Therapist, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	s.tables.mu.Lock()
	defer s.tables.mu.Unlock()

	therapists, err := s.tables.therapists(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfTherapist(therapists, id)
	if i < 0 {
		return nil, domain.ErrTherapistNotFound
	}
	users, err := s.tables.users(ctx)
	if err != nil {
		return nil, err
	}
	if patch.Email != nil && emailTaken(users, *patch.Email, id) {
		return nil, domain.ErrUserExists
	}

	if patch.Name != nil {
		therapists[i].Name = *patch.Name
	}
	if patch.Email != nil {
		therapists[i].Email = *patch.Email
	}

	ops := make([]ports.Op, 0, 2)
	tOp, err := s.tables.therapistsOp(therapists)
	if err != nil {
		return nil, err
	}
	ops = append(ops, tOp)

	if j := indexOfUser(users, id); j >= 0 {
		applyUserPatch(&users[j], ports.UserPatch{Name: patch.Name, Email: patch.Email})
		uOp, err := s.tables.usersOp(users)
		if err != nil {
			return nil, err
		}
		ops = append(ops, uOp)
	} else {
		s.log.Warn().Str("therapist_id", id).Msg("therapist has no paired user")
	}

	if err := s.tables.save(ctx, ops...); err != nil {
		return nil, fmt.Errorf("update therapist: %w", err)
	}

	t := therapists[i]
	return &t, nil
}

// Delete removes a therapist and its paired user as one aggregate. It refuses
// while children are still assigned so no child is left orphaned. An unknown
// id is a no-op.
func (s *TherapistService) Delete(ctx context.Context, sess domain.Session, id string) error {
	if !sess.IsAdmin() {
		return domain.ErrForbidden
	}

	s.tables.mu.Lock()
	defer s.tables.mu.Unlock()

	therapists, err := s.tables.therapists(ctx)
	if err != nil {
		return err
	}
	i := indexOfTherapist(therapists, id)
	if i < 0 {
		return nil
	}

	children, err := s.tables.children(ctx)
	if err != nil {
		return err
	}
	clients := 0
	for _, c := range children {
		if c.TherapistID == id {
			clients++
		}
	}
	if clients > 0 {
		return fmt.Errorf("%w: %d assigned", domain.ErrTherapistHasClients, clients)
	}

	users, err := s.tables.users(ctx)
	if err != nil {
		return err
	}

	tOp, err := s.tables.therapistsOp(append(therapists[:i:i], therapists[i+1:]...))
	if err != nil {
		return err
	}
	ops := []ports.Op{tOp}
	if j := indexOfUser(users, id); j >= 0 {
		uOp, err := s.tables.usersOp(append(users[:j:j], users[j+1:]...))
		if err != nil {
			return err
		}
		ops = append(ops, uOp)
	}

	if err := s.tables.save(ctx, ops...); err != nil {
		return fmt.Errorf("delete therapist: %w", err)
	}
	s.log.Info().Str("therapist_id", id).Msg("therapist deleted")
	return nil
}

// ResetPassword assigns a freshly generated password to the therapist's
// account and returns it.
func (s *TherapistService) ResetPassword(ctx context.Context, sess domain.Session, id string) (string, error) {
	if !sess.IsAdmin() {
		return "", domain.ErrForbidden
	}

	s.tables.mu.Lock()
	defer s.tables.mu.Unlock()

	users, err := s.tables.users(ctx)
	if err != nil {
		return "", err
	}
	i := indexOfUser(users, id)
	if i < 0 || users[i].Role != domain.RoleTherapist {
		return "", domain.ErrTherapistNotFound
	}

	password, err := generatePassword(passwordLength)
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	users[i].Password = password

	op, err := s.tables.usersOp(users)
	if err != nil {
		return "", err
	}
	if err := s.tables.save(ctx, op); err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}

	s.log.Info().Str("therapist_id", id).Msg("password reset")
	return password, nil
}

func generatePassword(n int) (string, error) {
	limit := big.NewInt(int64(len(passwordAlphabet)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = passwordAlphabet[v.Int64()]
	}
	return string(b), nil
}
