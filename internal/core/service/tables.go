package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/ports"
)

// DefaultKeyPrefix namespaces every key this module writes.
const DefaultKeyPrefix = "therapy_ai_"

const (
	keyUsers       = "users"
	keyTherapists  = "therapists"
	keyChildren    = "children"
	keyCurrentUser = "current_user"
	keyChatPrefix  = "chats:"
)

// Tables is the record layer shared by all services: it knows the key layout,
// (de)serializes whole tables and serializes read-modify-write cycles within
// this process.
type Tables struct {
	store  ports.Store
	prefix string
	mu     sync.Mutex
	now    func() time.Time
	newID  func() string
}

// TablesOption customises a Tables instance.
type TablesOption func(*Tables)

// WithClock overrides the time source used for timestamps and ages.
func WithClock(now func() time.Time) TablesOption {
	return func(t *Tables) { t.now = now }
}

// WithIDs overrides the identifier generator.
func WithIDs(newID func() string) TablesOption {
	return func(t *Tables) { t.newID = newID }
}

// NewTables binds the record layer to store. An empty prefix uses DefaultKeyPrefix.
func NewTables(store ports.Store, prefix string, opts ...TablesOption) *Tables {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	t := &Tables{store: store, prefix: prefix, now: domain.Now, newID: domain.NewID}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tables) key(name string) string        { return t.prefix + name }
func (t *Tables) chatKey(childID string) string { return t.prefix + keyChatPrefix + childID }

// load decodes the value under key into out. It reports false when the key is absent.
func (t *Tables) load(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := t.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// setOp encodes v as a batch write under key.
func (t *Tables) setOp(key string, v any) (ports.Op, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return ports.Op{}, fmt.Errorf("encode %s: %w", key, err)
	}
	return ports.SetOp(key, raw), nil
}

// save writes the given ops in one batch.
func (t *Tables) save(ctx context.Context, ops ...ports.Op) error {
	if err := t.store.Apply(ctx, ops...); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (t *Tables) users(ctx context.Context) ([]domain.User, error) {
	rows := []domain.User{}
	_, err := t.load(ctx, t.key(keyUsers), &rows)
	return rows, err
}

func (t *Tables) therapists(ctx context.Context) ([]domain.Therapist, error) {
	rows := []domain.Therapist{}
	_, err := t.load(ctx, t.key(keyTherapists), &rows)
	return rows, err
}

func (t *Tables) children(ctx context.Context) ([]domain.Child, error) {
	rows := []domain.Child{}
	_, err := t.load(ctx, t.key(keyChildren), &rows)
	return rows, err
}

func (t *Tables) chats(ctx context.Context, childID string) ([]domain.ChatMessage, error) {
	rows := []domain.ChatMessage{}
	_, err := t.load(ctx, t.chatKey(childID), &rows)
	return rows, err
}

func (t *Tables) usersOp(rows []domain.User) (ports.Op, error) {
	return t.setOp(t.key(keyUsers), rows)
}

func (t *Tables) therapistsOp(rows []domain.Therapist) (ports.Op, error) {
	return t.setOp(t.key(keyTherapists), rows)
}

func (t *Tables) childrenOp(rows []domain.Child) (ports.Op, error) {
	return t.setOp(t.key(keyChildren), rows)
}

func (t *Tables) chatsOp(childID string, rows []domain.ChatMessage) (ports.Op, error) {
	return t.setOp(t.chatKey(childID), rows)
}

// findChild returns the child with id from the current children table.
func (t *Tables) findChild(ctx context.Context, id string) (*domain.Child, error) {
	rows, err := t.children(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			c := rows[i]
			return &c, nil
		}
	}
	return nil, domain.ErrChildNotFound
}

func indexOfUser(rows []domain.User, id string) int {
	for i := range rows {
		if rows[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfTherapist(rows []domain.Therapist, id string) int {
	for i := range rows {
		if rows[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfChild(rows []domain.Child, id string) int {
	for i := range rows {
		if rows[i].ID == id {
			return i
		}
	}
	return -1
}

// emailTaken reports whether a user other than exceptID already uses email.
func emailTaken(rows []domain.User, email, exceptID string) bool {
	for _, u := range rows {
		if u.ID != exceptID && u.Email == email {
			return true
		}
	}
	return false
}
