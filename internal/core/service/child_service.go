package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/ports"
	"github.com/therapyai/caseload/internal/pkg/validation"
)

const regeneratePick = 3

// GoalPicker draws suggestions from a goal catalog.
type GoalPicker interface {
	Pick(kind domain.GoalKind, n int) []string
}

// ChildService is the therapist workspace over the children table.
type ChildService struct {
	tables *Tables
	guard  *Guard
	goals  GoalPicker
	log    zerolog.Logger
}

func NewChildService(tables *Tables, guard *Guard, goals GoalPicker, log zerolog.Logger) *ChildService {
	return &ChildService{tables: tables, guard: guard, goals: goals, log: log}
}

// List returns every child for an admin and the caller's own caseload for a
// therapist.
func (s *ChildService) List(ctx context.Context, sess domain.Session) ([]domain.Child, error) {
	switch {
	case sess.IsAdmin():
		return s.tables.children(ctx)
	case sess.IsTherapist():
		return s.byTherapist(ctx, sess.UserID)
	default:
		return nil, domain.ErrForbidden
	}
}

func (s *ChildService) ListByTherapist(ctx context.Context, sess domain.Session, therapistID string) ([]domain.Child, error) {
	if !sess.IsAdmin() && !(sess.IsTherapist() && sess.UserID == therapistID) {
		return nil, domain.ErrForbidden
	}
	return s.byTherapist(ctx, therapistID)
}

func (s *ChildService) byTherapist(ctx context.Context, therapistID string) ([]domain.Child, error) {
	rows, err := s.tables.children(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Child, 0, len(rows))
	for _, c := range rows {
		if c.TherapistID == therapistID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *ChildService) Get(ctx context.Context, sess domain.Session, id string) (*domain.Child, error) {
	child, err := s.tables.findChild(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.guard.owns(sess, child) {
		return nil, domain.ErrForbidden
	}
	return child, nil
}

// Add creates a child on the calling therapist's caseload.
func (s *ChildService) Add(ctx context.Context, sess domain.Session, in ports.NewChildInput) (*domain.Child, error) {
	if !sess.IsTherapist() {
		return nil, domain.ErrForbidden
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	dob, err := domain.ParseDOB(in.DOB)
	if err != nil {
		return nil, err
	}

	s.tables.mu.Lock()
	defer s.tables.mu.Unlock()

	therapists, err := s.tables.therapists(ctx)
	if err != nil {
		return nil, err
	}
	if indexOfTherapist(therapists, sess.UserID) < 0 {
		return nil, domain.ErrTherapistNotFound
	}
	rows, err := s.tables.children(ctx)
	if err != nil {
		return nil, err
	}

	now := s.tables.now()
	if err := domain.CheckDOB(dob, now); err != nil {
		return nil, err
	}
	child := domain.Child{
		ID:          s.tables.newID(),
		TherapistID: sess.UserID,
		Name:        in.Name,
		DOB:         in.DOB,
		AgeYears:    domain.AgeYears(dob, now),
		Category:    in.Category,
		Concern:     in.Concern,
		Guardian:    in.Guardian,
		Notes:       in.Notes,
		Milestones:  nonNil(in.Milestones),
		Strategies:  nonNil(in.Strategies),
		UpdatedAt:   now,
	}

	op, err := s.tables.childrenOp(append(rows, child))
	if err != nil {
		return nil, err
	}
	if err := s.tables.save(ctx, op); err != nil {
		return nil, fmt.Errorf("add child: %w", err)
	}

	s.log.Info().Str("child_id", child.ID).Str("therapist_id", child.TherapistID).Msg("child created")
	return &child, nil
}

// Update merges patch into the child, recomputes the age when the date of
// birth changes and stamps UpdatedAt.
func (s *ChildService) Update(ctx context.Context, sess domain.Session, id string, patch ports.ChildPatch) (*domain.Child, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	s.tables.mu.Lock()
	defer s.tables.mu.Unlock()

	return s.update(ctx, sess, id, func(c *domain.Child, now time.Time) error {
		return applyChildPatch(c, patch, now)
	})
}

// Regenerate replaces the milestones or strategies with fresh suggestions.
func (s *ChildService) Regenerate(ctx context.Context, sess domain.Session, id string, kind domain.GoalKind) (*domain.Child, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown goal kind %q", domain.ErrValidation, kind)
	}
	picked := s.goals.Pick(kind, regeneratePick)

	s.tables.mu.Lock()
	defer s.tables.mu.Unlock()

	return s.update(ctx, sess, id, func(c *domain.Child, _ time.Time) error {
		if kind == domain.GoalMilestones {
			c.Milestones = picked
		} else {
			c.Strategies = picked
		}
		return nil
	})
}

// update runs mutate on the stored child and persists the table. Callers hold
// the tables lock.
func (s *ChildService) update(ctx context.Context, sess domain.Session, id string, mutate func(*domain.Child, time.Time) error) (*domain.Child, error) {
	rows, err := s.tables.children(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfChild(rows, id)
	if i < 0 {
		return nil, domain.ErrChildNotFound
	}
	if !s.guard.owns(sess, &rows[i]) {
		return nil, domain.ErrForbidden
	}

	now := s.tables.now()
	if err := mutate(&rows[i], now); err != nil {
		return nil, err
	}
	rows[i].UpdatedAt = now

	op, err := s.tables.childrenOp(rows)
	if err != nil {
		return nil, err
	}
	if err := s.tables.save(ctx, op); err != nil {
		return nil, fmt.Errorf("update child: %w", err)
	}

	c := rows[i]
	return &c, nil
}

// Delete removes the child and its chat log in one batch. An unknown id is a
// no-op.
func (s *ChildService) Delete(ctx context.Context, sess domain.Session, id string) error {
	s.tables.mu.Lock()
	defer s.tables.mu.Unlock()

	rows, err := s.tables.children(ctx)
	if err != nil {
		return err
	}
	i := indexOfChild(rows, id)
	if i < 0 {
		return nil
	}
	if !s.guard.owns(sess, &rows[i]) {
		return domain.ErrForbidden
	}

	op, err := s.tables.childrenOp(append(rows[:i:i], rows[i+1:]...))
	if err != nil {
		return err
	}
	if err := s.tables.save(ctx, op, ports.DeleteOp(s.tables.chatKey(id))); err != nil {
		return fmt.Errorf("delete child: %w", err)
	}

	s.log.Info().Str("child_id", id).Msg("child deleted with chat history")
	return nil
}

func applyChildPatch(c *domain.Child, p ports.ChildPatch, now time.Time) error {
	if p.DOB != nil {
		dob, err := domain.ParseDOB(*p.DOB)
		if err != nil {
			return err
		}
		if err := domain.CheckDOB(dob, now); err != nil {
			return err
		}
		c.DOB = *p.DOB
		c.AgeYears = domain.AgeYears(dob, now)
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Concern != nil {
		c.Concern = *p.Concern
	}
	if p.Guardian != nil {
		c.Guardian = *p.Guardian
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.Milestones != nil {
		c.Milestones = nonNil(*p.Milestones)
	}
	if p.Strategies != nil {
		c.Strategies = nonNil(*p.Strategies)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
