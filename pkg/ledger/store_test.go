package ledger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/magsubs/pkg/ledger"
)

func record(user, mag uuid.UUID, active bool) ledger.Subscription {
	return ledger.Subscription{
		ID:          uuid.New(),
		UserID:      user,
		MagazineID:  mag,
		PlanID:      uuid.New(),
		Price:       10,
		RenewalDate: fixedNow,
		IsActive:    active,
		CreatedAt:   fixedNow,
	}
}

func TestMemoryStore_Append(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("one active record per pair", func(t *testing.T) {
		t.Parallel()
		s := ledger.NewMemoryStore()
		user, mag := uuid.New(), uuid.New()

		require.NoError(t, s.Append(ctx, record(user, mag, true)))
		assert.ErrorIs(t, s.Append(ctx, record(user, mag, true)), ledger.ErrActiveSubscriptionExists)
		assert.NoError(t, s.Append(ctx, record(user, mag, false)))
	})

	t.Run("duplicate id", func(t *testing.T) {
		t.Parallel()
		s := ledger.NewMemoryStore()
		r := record(uuid.New(), uuid.New(), false)

		require.NoError(t, s.Append(ctx, r))
		assert.ErrorIs(t, s.Append(ctx, r), ledger.ErrDuplicateSubscriptionID)
	})
}

func TestMemoryStore_Lookups(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := ledger.NewMemoryStore()
	user, mag := uuid.New(), uuid.New()

	old := record(user, mag, false)
	cur := record(user, mag, true)
	other := record(user, uuid.New(), true)
	require.NoError(t, s.Append(ctx, old))
	require.NoError(t, s.Append(ctx, cur))
	require.NoError(t, s.Append(ctx, other))

	got, err := s.Get(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, old, got)

	_, err = s.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ledger.ErrSubscriptionNotFound)

	got, err = s.FindActive(ctx, user, mag)
	require.NoError(t, err)
	assert.Equal(t, cur.ID, got.ID)

	_, err = s.FindActive(ctx, uuid.New(), mag)
	assert.ErrorIs(t, err, ledger.ErrSubscriptionNotFound)

	active, err := s.ListActive(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Subscription{cur, other}, active)

	history, err := s.ListHistory(ctx, user, mag)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Subscription{old, cur}, history)
}

func TestMemoryStore_Deactivate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := ledger.NewMemoryStore()
	r := record(uuid.New(), uuid.New(), true)
	require.NoError(t, s.Append(ctx, r))

	got, err := s.Deactivate(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = s.FindActive(ctx, r.UserID, r.MagazineID)
	assert.ErrorIs(t, err, ledger.ErrSubscriptionNotFound)

	_, err = s.Deactivate(ctx, r.ID)
	assert.ErrorIs(t, err, ledger.ErrSubscriptionInactive)

	_, err = s.Deactivate(ctx, uuid.New())
	assert.ErrorIs(t, err, ledger.ErrSubscriptionNotFound)
}

func TestMemoryStore_Replace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("swaps the active record", func(t *testing.T) {
		t.Parallel()
		s := ledger.NewMemoryStore()
		user, mag := uuid.New(), uuid.New()
		prev := record(user, mag, true)
		next := record(user, mag, true)
		require.NoError(t, s.Append(ctx, prev))

		require.NoError(t, s.Replace(ctx, prev.ID, next))

		got, err := s.FindActive(ctx, user, mag)
		require.NoError(t, err)
		assert.Equal(t, next.ID, got.ID)

		old, err := s.Get(ctx, prev.ID)
		require.NoError(t, err)
		assert.False(t, old.IsActive)

		assert.ErrorIs(t, s.Replace(ctx, prev.ID, record(user, mag, true)), ledger.ErrSubscriptionInactive)
	})

	t.Run("rejects a successor for another pair", func(t *testing.T) {
		t.Parallel()
		s := ledger.NewMemoryStore()
		prev := record(uuid.New(), uuid.New(), true)
		require.NoError(t, s.Append(ctx, prev))

		err := s.Replace(ctx, prev.ID, record(uuid.New(), prev.MagazineID, true))
		assert.ErrorIs(t, err, ledger.ErrConflict)

		got, err := s.Get(ctx, prev.ID)
		require.NoError(t, err)
		assert.True(t, got.IsActive)
	})

	t.Run("rejects a reused id", func(t *testing.T) {
		t.Parallel()
		s := ledger.NewMemoryStore()
		prev := record(uuid.New(), uuid.New(), true)
		require.NoError(t, s.Append(ctx, prev))

		next := record(prev.UserID, prev.MagazineID, true)
		next.ID = prev.ID
		assert.ErrorIs(t, s.Replace(ctx, prev.ID, next), ledger.ErrDuplicateSubscriptionID)

		got, err := s.Get(ctx, prev.ID)
		require.NoError(t, err)
		assert.True(t, got.IsActive)
	})
}
