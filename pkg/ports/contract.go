package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPositionStoreContract runs a suite of tests to verify that a PositionStore
// implementation adheres to the defined interface contract.
func RunPositionStoreContract(t *testing.T, store PositionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := &Snapshot{
			Agent:     "seq(double, accumulate)",
			Position:  []byte(`[{},7]`),
			Steps:     3,
			UpdatedAt: time.Now().UTC().Truncate(time.Second),
		}

		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.Agent, loaded.Agent)
		assert.JSONEq(t, string(snap.Position), string(loaded.Position))
		assert.Equal(t, 3, loaded.Steps)
		assert.True(t, snap.UpdatedAt.Equal(loaded.UpdatedAt))
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Steps = 99
		loaded.Position[0] = 'x'

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 3, again.Steps)
		assert.Equal(t, byte('['), again.Position[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, &Snapshot{Agent: "id", Position: []byte(`[{}]`)})
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, &Snapshot{Agent: "id", Position: []byte(`[{}]`)}))
		require.NoError(t, store.Save(ctx, id2, &Snapshot{Agent: "id", Position: []byte(`[{}]`)}))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
