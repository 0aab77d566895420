package ports

import "context"

// Op is a single write inside an atomic Apply batch. Delete ops ignore Value.
type Op struct {
	Key    string
	Value  []byte
	Delete bool
}

// SetOp builds a write of value under key.
func SetOp(key string, value []byte) Op { return Op{Key: key, Value: value} }

// DeleteOp builds a removal of key.
func DeleteOp(key string) Op { return Op{Key: key, Delete: true} }

// Store is the persistence contract: whole JSON values addressed by key.
// Each entity table and each chat log occupies exactly one key.
type Store interface {
	// Get returns the stored value and true, or nil and false when the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes keys; absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// Apply performs all ops as one batch. Backends that support it make the
	// batch all-or-nothing.
	Apply(ctx context.Context, ops ...Op) error
	Ping(ctx context.Context) error
	Close() error
}
