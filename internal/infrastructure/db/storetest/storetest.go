// Package storetest holds the behaviour every ports.Store backend must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therapyai/caseload/internal/core/ports"
)

// Run exercises a backend. newStore must return an empty store; it is called
// once per subtest.
func Run(t *testing.T, newStore func(t *testing.T) ports.Store) {
	t.Helper()

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		v, ok, err := s.Get(context.Background(), "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("SetGetOverwrite", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "k", []byte(`[1]`)))
		require.NoError(t, s.Set(ctx, "k", []byte(`[1,2]`)))

		v, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `[1,2]`, string(v))
	})

	t.Run("DeleteIgnoresMissing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "a", []byte(`"a"`)))
		require.NoError(t, s.Delete(ctx, "a", "never-set"))

		_, ok, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ApplyBatch", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "chats:1", []byte(`[{"text":"hi"}]`)))
		require.NoError(t, s.Apply(ctx,
			ports.SetOp("children", []byte(`[]`)),
			ports.DeleteOp("chats:1"),
			ports.SetOp("users", []byte(`[{"id":"u1"}]`)),
		))

		v, ok, err := s.Get(ctx, "children")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `[]`, string(v))

		_, ok, err = s.Get(ctx, "chats:1")
		require.NoError(t, err)
		assert.False(t, ok)

		v, ok, err = s.Get(ctx, "users")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `[{"id":"u1"}]`, string(v))
	})

	t.Run("ApplyEmpty", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Apply(context.Background()))
	})

	t.Run("ValueIsCopied", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		buf := []byte(`"abc"`)
		require.NoError(t, s.Set(ctx, "k", buf))
		buf[1] = 'x'

		v, _, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, `"abc"`, string(v))
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}
