package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.AppendMessage(domain.RoleUser, "events in Austin")
		state.SetEntity(domain.EntityCity, domain.City{Name: "Austin", CountryCode: "US"})
		state.SetResults(domain.ResultCandidateItems, []domain.Event{{ID: "e1", Name: "Show"}})

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.SessionID)
		require.Len(t, loaded.Messages, 2)
		assert.Equal(t, "events in Austin", loaded.Messages[1].Content)

		// JSON-backed stores hand back generic maps; the typed accessors must still work.
		city, ok := loaded.City()
		require.True(t, ok)
		assert.Equal(t, "Austin", city.Name)
		require.Len(t, loaded.CandidateEvents(), 1)
	})

	t.Run("Isolation", func(t *testing.T) {
		state := domain.NewState(sessionID)
		require.NoError(t, store.Save(ctx, sessionID, state))

		// Mutating the saved pointer must not leak into the store.
		state.AppendMessage(domain.RoleUser, "not saved")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Len(t, loaded.Messages, 1)

		// Nor may mutating a loaded copy.
		loaded.AppendMessage(domain.RoleUser, "also not saved")
		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Len(t, again.Messages, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1))
		_ = store.Save(ctx, id2, domain.NewState(id2))

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
