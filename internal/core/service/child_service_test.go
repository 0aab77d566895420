package service

import (
	"context"
	"errors"
	"testing"

	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/ports"
)

func TestChildService_Add_ComputesAge(t *testing.T) {
	f := newFixture(t)
	sess := f.addTherapist(t, "Sarah", "sarah@example.com")

	c := f.addChild(t, sess, "Emma", "2018-03-15")

	if c.AgeYears != 8 {
		t.Fatalf("expected age 8, got %d", c.AgeYears)
	}
	if c.TherapistID != sess.UserID {
		t.Fatalf("expected therapist %s, got %s", sess.UserID, c.TherapistID)
	}
	if c.Milestones == nil || c.Strategies == nil {
		t.Fatal("goal lists must never be nil")
	}
	if c.UpdatedAt.IsZero() {
		t.Fatal("expected updatedAt to be set")
	}
}

func TestChildService_Add_BirthdayNotYetReached(t *testing.T) {
	f := newFixture(t)
	sess := f.addTherapist(t, "Sarah", "sarah@example.com")

	c := f.addChild(t, sess, "Aiden", "2019-07-22")

	if c.AgeYears != 6 {
		t.Fatalf("expected age 6 before the July birthday, got %d", c.AgeYears)
	}
}

func TestChildService_Add_Rules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.addTherapist(t, "Sarah", "sarah@example.com")

	tests := []struct {
		name string
		sess domain.Session
		in   ports.NewChildInput
		want error
	}{
		{"admin cannot add", adminSession, ports.NewChildInput{Name: "A", DOB: "2018-01-01", Concern: "c"}, domain.ErrForbidden},
		{"anonymous cannot add", domain.Session{}, ports.NewChildInput{Name: "A", DOB: "2018-01-01", Concern: "c"}, domain.ErrForbidden},
		{"missing name", sess, ports.NewChildInput{DOB: "2018-01-01", Concern: "c"}, domain.ErrValidation},
		{"bad dob", sess, ports.NewChildInput{Name: "A", DOB: "15/03/2018", Concern: "c"}, domain.ErrValidation},
		{"future dob", sess, ports.NewChildInput{Name: "A", DOB: "2030-05-01", Concern: "c"}, domain.ErrValidation},
		{"missing concern", sess, ports.NewChildInput{Name: "A", DOB: "2018-01-01"}, domain.ErrValidation},
		{
			"unknown therapist",
			domain.Session{UserID: "ghost", Role: domain.RoleTherapist},
			ports.NewChildInput{Name: "A", DOB: "2018-01-01", Concern: "c"},
			domain.ErrTherapistNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.children.Add(ctx, tt.sess, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	list, _ := f.children.List(ctx, adminSession)
	if len(list) != 0 {
		t.Fatalf("no child should have been written, got %d", len(list))
	}
}

func TestChildService_Update_RecomputesAgeAndStamps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.addTherapist(t, "Sarah", "sarah@example.com")
	c := f.addChild(t, sess, "Emma", "2018-03-15")

	updated, err := f.children.Update(ctx, sess, c.ID, ports.ChildPatch{DOB: strPtr("2020-12-01"), Notes: strPtr("new notes")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.AgeYears != 5 {
		t.Fatalf("expected age 5, got %d", updated.AgeYears)
	}
	if updated.Notes != "new notes" || updated.Name != "Emma" {
		t.Fatalf("unexpected merge result: %+v", updated)
	}
	if !updated.UpdatedAt.After(c.UpdatedAt) {
		t.Fatalf("updatedAt must move forward: %v -> %v", c.UpdatedAt, updated.UpdatedAt)
	}

	got, _ := f.children.Get(ctx, sess, c.ID)
	if got.DOB != "2020-12-01" || got.AgeYears != 5 {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestChildService_Update_BadDOBLeavesChild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.addTherapist(t, "Sarah", "sarah@example.com")
	c := f.addChild(t, sess, "Emma", "2018-03-15")

	if _, err := f.children.Update(ctx, sess, c.ID, ports.ChildPatch{DOB: strPtr("someday")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	got, _ := f.children.Get(ctx, sess, c.ID)
	if got.DOB != "2018-03-15" {
		t.Fatalf("child changed after failed update: %+v", got)
	}
}

func TestChildService_FutureDOB(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.addTherapist(t, "Sarah", "sarah@example.com")

	born := f.addChild(t, sess, "Newborn", "2026-06-10")
	if born.AgeYears != 0 {
		t.Fatalf("expected age 0 for a child born today, got %d", born.AgeYears)
	}

	if _, err := f.children.Update(ctx, sess, born.ID, ports.ChildPatch{DOB: strPtr("2026-06-11")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for tomorrow, got %v", err)
	}
	got, _ := f.children.Get(ctx, sess, born.ID)
	if got.DOB != "2026-06-10" || got.AgeYears != 0 {
		t.Fatalf("child changed after rejected update: %+v", got)
	}
}

func TestChildService_Update_NotFound(t *testing.T) {
	f := newFixture(t)
	sess := f.addTherapist(t, "Sarah", "sarah@example.com")

	_, err := f.children.Update(context.Background(), sess, "missing", ports.ChildPatch{Name: strPtr("x")})
	if err != domain.ErrChildNotFound {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}
}

func TestChildService_CrossTherapistForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.addTherapist(t, "Sarah", "sarah@example.com")
	other := f.addTherapist(t, "Michael", "michael@example.com")
	c := f.addChild(t, owner, "Emma", "2018-03-15")

	if _, err := f.children.Get(ctx, other, c.ID); err != domain.ErrForbidden {
		t.Fatalf("Get: expected ErrForbidden, got %v", err)
	}
	if _, err := f.children.Update(ctx, other, c.ID, ports.ChildPatch{Name: strPtr("x")}); err != domain.ErrForbidden {
		t.Fatalf("Update: expected ErrForbidden, got %v", err)
	}
	if err := f.children.Delete(ctx, other, c.ID); err != domain.ErrForbidden {
		t.Fatalf("Delete: expected ErrForbidden, got %v", err)
	}
	if _, err := f.children.ListByTherapist(ctx, other, owner.UserID); err != domain.ErrForbidden {
		t.Fatalf("ListByTherapist: expected ErrForbidden, got %v", err)
	}

	mine, _ := f.children.List(ctx, other)
	if len(mine) != 0 {
		t.Fatalf("other therapist should see an empty caseload, got %d", len(mine))
	}
	if _, err := f.children.Get(ctx, adminSession, c.ID); err != nil {
		t.Fatalf("admin should read any child: %v", err)
	}
}

func TestChildService_Delete_CascadesChat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.addTherapist(t, "Sarah", "sarah@example.com")
	c := f.addChild(t, sess, "Emma", "2018-03-15")

	if _, err := f.chats.Append(ctx, sess, c.ID, domain.SenderTherapist, "hello"); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	before := f.store.applies

	if err := f.children.Delete(ctx, sess, c.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if f.store.applies != before+1 {
		t.Fatalf("expected one batch, got %d", f.store.applies-before)
	}
	if raw := f.store.raw(f.tables.chatKey(c.ID)); raw != "" {
		t.Fatalf("chat log survived: %s", raw)
	}

	msgs, err := f.chats.List(ctx, adminSession, c.ID)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected empty log, got %d", len(msgs))
	}
}

func TestChildService_Delete_UnknownIsNoop(t *testing.T) {
	f := newFixture(t)
	sess := f.addTherapist(t, "Sarah", "sarah@example.com")
	before := f.store.applies

	if err := f.children.Delete(context.Background(), sess, "missing"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if f.store.applies != before {
		t.Fatal("expected no writes")
	}
}

func TestChildService_Regenerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.addTherapist(t, "Sarah", "sarah@example.com")
	c := f.addChild(t, sess, "Emma", "2018-03-15")

	got, err := f.children.Regenerate(ctx, sess, c.ID, domain.GoalStrategies)
	if err != nil {
		t.Fatalf("Regenerate returned error: %v", err)
	}
	want := []string{"strategies-0", "strategies-1", "strategies-2"}
	if len(got.Strategies) != len(want) {
		t.Fatalf("expected %v, got %v", want, got.Strategies)
	}
	for i := range want {
		if got.Strategies[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got.Strategies)
		}
	}
	if len(got.Milestones) != 0 {
		t.Fatalf("milestones must be untouched, got %v", got.Milestones)
	}

	if _, err := f.children.Regenerate(ctx, sess, c.ID, domain.GoalKind("hobbies")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
