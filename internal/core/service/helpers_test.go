package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub store
// ---------------------------------------------------------------------------

type stubStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	applyErr error // if set, Apply returns this error and writes nothing
	applies  int
}

func newStubStore() *stubStore {
	return &stubStore{data: make(map[string][]byte)}
}

func (s *stubStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *stubStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *stubStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *stubStore) Apply(_ context.Context, ops ...ports.Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyErr != nil {
		return s.applyErr
	}
	s.applies++
	for _, op := range ops {
		if op.Delete {
			delete(s.data, op.Key)
			continue
		}
		s.data[op.Key] = append([]byte(nil), op.Value...)
	}
	return nil
}

func (s *stubStore) Ping(context.Context) error { return nil }
func (s *stubStore) Close() error               { return nil }

func (s *stubStore) raw(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.data[key])
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// stepClock starts at a fixed instant and moves one second per call.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

var fixedStart = time.Date(2026, time.June, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store      *stubStore
	tables     *Tables
	guard      *Guard
	users      *UserService
	therapists *TherapistService
	children   *ChildService
	chats      *ChatService
	auth       *AuthService
	seeder     *Seeder
}

type stubGoals struct{}

func (stubGoals) Pick(kind domain.GoalKind, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%d", kind, i)
	}
	return out
}

type stubWriter struct{}

func (stubWriter) Reply(prompt string, child domain.Child) string {
	return "reply to " + prompt + " for " + child.Name
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &stepClock{cur: fixedStart}
	n := 0
	store := newStubStore()
	tables := NewTables(store, "", WithClock(clock.Now), WithIDs(func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}))
	log := zerolog.Nop()
	guard := NewGuard(tables)
	return &fixture{
		store:      store,
		tables:     tables,
		guard:      guard,
		users:      NewUserService(tables, log),
		therapists: NewTherapistService(tables, log),
		children:   NewChildService(tables, guard, stubGoals{}, log),
		chats:      NewChatService(tables, guard, stubWriter{}, nil, log),
		auth:       NewAuthService(tables, "secret", time.Hour, log),
		seeder:     NewSeeder(tables, log),
	}
}

var adminSession = domain.Session{UserID: "admin-1", Role: domain.RoleAdmin, Name: "Admin"}

// addTherapist creates a therapist as admin and returns its session.
func (f *fixture) addTherapist(t *testing.T, name, email string) domain.Session {
	t.Helper()
	th, err := f.therapists.Add(context.Background(), adminSession, ports.NewTherapistInput{
		Name: name, Email: email, Password: "secret1",
	})
	if err != nil {
		t.Fatalf("add therapist: %v", err)
	}
	return domain.Session{UserID: th.ID, Role: domain.RoleTherapist, Name: th.Name, Email: th.Email}
}

func (f *fixture) addChild(t *testing.T, sess domain.Session, name, dob string) *domain.Child {
	t.Helper()
	c, err := f.children.Add(context.Background(), sess, ports.NewChildInput{
		Name: name, DOB: dob, Concern: "speech delay", Category: "Communication",
	})
	if err != nil {
		t.Fatalf("add child: %v", err)
	}
	return c
}

func strPtr(s string) *string { return &s }
