package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/ports"
)

const day = 24 * time.Hour

// Seeder loads the demo dataset into an empty store.
type Seeder struct {
	tables *Tables
	log    zerolog.Logger
}

func NewSeeder(tables *Tables, log zerolog.Logger) *Seeder {
	return &Seeder{tables: tables, log: log}
}

// SeedIfEmpty writes the demo dataset when the users table is empty and
// reports whether it did. Running it again is a no-op.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (bool, error) {
	s.tables.mu.Lock()
	defer s.tables.mu.Unlock()

	users, err := s.tables.users(ctx)
	if err != nil {
		return false, err
	}
	if len(users) > 0 {
		return false, nil
	}

	s.log.Info().Msg("seeding initial data")
	now := s.tables.now()
	ago := func(d time.Duration) time.Time { return now.Add(-d) }

	users = []domain.User{{
		ID:        s.tables.newID(),
		Role:      domain.RoleAdmin,
		Name:      seedAdmin.name,
		Email:     seedAdmin.email,
		Password:  seedAdmin.password,
		CreatedAt: now,
	}}
	therapists := make([]domain.Therapist, 0, len(seedTherapists))
	for _, st := range seedTherapists {
		u := domain.User{
			ID:        s.tables.newID(),
			Role:      domain.RoleTherapist,
			Name:      st.name,
			Email:     st.email,
			Password:  st.password,
			CreatedAt: ago(st.createdAgo),
		}
		users = append(users, u)
		therapists = append(therapists, domain.Therapist{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt})
	}

	children := make([]domain.Child, 0, len(seedChildren))
	chatOps := make([]ports.Op, 0, len(seedTranscripts))
	for _, sc := range seedChildren {
		dob, err := domain.ParseDOB(sc.dob)
		if err != nil {
			return false, fmt.Errorf("seed child %s: %w", sc.name, err)
		}
		child := domain.Child{
			ID:          s.tables.newID(),
			TherapistID: therapists[sc.therapist].ID,
			Name:        sc.name,
			DOB:         sc.dob,
			AgeYears:    domain.AgeYears(dob, now),
			Category:    sc.category,
			Concern:     sc.concern,
			Guardian:    sc.guardian,
			Notes:       sc.notes,
			Milestones:  append([]string(nil), sc.milestones...),
			Strategies:  append([]string(nil), sc.strategies...),
			UpdatedAt:   ago(sc.updatedAgo),
		}
		children = append(children, child)

		turns, ok := seedTranscripts[sc.name]
		if !ok {
			continue
		}
		msgs := make([]domain.ChatMessage, 0, len(turns))
		for _, turn := range turns {
			msgs = append(msgs, domain.ChatMessage{
				ID:   s.tables.newID(),
				From: turn.from,
				Text: turn.text,
				TS:   ago(turn.daysAgo * day).Add(turn.offset),
			})
		}
		op, err := s.tables.chatsOp(child.ID, msgs)
		if err != nil {
			return false, err
		}
		chatOps = append(chatOps, op)
	}

	uOp, err := s.tables.usersOp(users)
	if err != nil {
		return false, err
	}
	tOp, err := s.tables.therapistsOp(therapists)
	if err != nil {
		return false, err
	}
	cOp, err := s.tables.childrenOp(children)
	if err != nil {
		return false, err
	}
	// Users go last so a failed partial write on a non-atomic backend is
	// retried on the next start.
	ops := append([]ports.Op{tOp, cOp}, chatOps...)
	ops = append(ops, uOp)
	if err := s.tables.save(ctx, ops...); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	s.log.Info().
		Int("users", len(users)).
		Int("children", len(children)).
		Int("transcripts", len(chatOps)).
		Msg("seed data created")
	return true, nil
}
