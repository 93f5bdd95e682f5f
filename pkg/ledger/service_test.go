package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/magsubs/pkg/catalog"
	"github.com/dmitrymomot/magsubs/pkg/ledger"
	"github.com/dmitrymomot/magsubs/pkg/validator"
)

var fixedNow = time.Date(2025, time.March, 10, 15, 4, 5, 0, time.UTC)

type fixture struct {
	cat   catalog.Store
	svc   ledger.Service
	plans map[string]catalog.Plan
	mag   catalog.Magazine
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	cat, err := catalog.New(ctx, catalog.DefaultPlans())
	require.NoError(t, err)

	mag, err := cat.RegisterMagazine(ctx, "Go Weekly", "News about Go", 100)
	require.NoError(t, err)

	plans := map[string]catalog.Plan{}
	for _, p := range cat.ListPlans(ctx) {
		plans[p.Title] = p
	}

	svc := ledger.NewService(cat, ledger.NewMemoryStore(),
		ledger.WithClock(func() time.Time { return fixedNow }))

	return fixture{cat: cat, svc: svc, plans: plans, mag: mag}
}

func midnightPlusDays(days int) time.Time {
	return time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	t.Run("silver plan charges base price", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		user := uuid.New()

		sub, err := f.svc.Create(context.Background(), user, f.mag.ID, f.plans["Silver Plan"].ID)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, sub.ID)
		assert.Equal(t, user, sub.UserID)
		assert.Equal(t, f.mag.ID, sub.MagazineID)
		assert.Equal(t, f.plans["Silver Plan"].ID, sub.PlanID)
		assert.InDelta(t, 100.0, sub.Price, 1e-9)
		assert.Equal(t, midnightPlusDays(30), sub.RenewalDate)
		assert.True(t, sub.IsActive)
		assert.Equal(t, fixedNow, sub.CreatedAt)
	})

	t.Run("discount and renewal follow plan", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		cases := []struct {
			plan  string
			price float64
			days  int
		}{
			{"Gold Plan", 95, 90},
			{"Platinum Plan", 90, 180},
			{"Diamond Plan", 75, 360},
		}
		for _, tc := range cases {
			sub, err := f.svc.Create(context.Background(), uuid.New(), f.mag.ID, f.plans[tc.plan].ID)
			require.NoError(t, err, tc.plan)
			assert.InDelta(t, tc.price, sub.Price, 1e-9, tc.plan)
			assert.Equal(t, midnightPlusDays(tc.days), sub.RenewalDate, tc.plan)
		}
	})

	t.Run("duplicate active subscription is rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		user := uuid.New()

		_, err := f.svc.Create(context.Background(), user, f.mag.ID, f.plans["Silver Plan"].ID)
		require.NoError(t, err)

		_, err = f.svc.Create(context.Background(), user, f.mag.ID, f.plans["Gold Plan"].ID)
		require.ErrorIs(t, err, ledger.ErrActiveSubscriptionExists)
		assert.ErrorIs(t, err, ledger.ErrConflict)

		active, err := f.svc.ListActive(context.Background(), user)
		require.NoError(t, err)
		assert.Len(t, active, 1)
	})

	t.Run("other users and magazines are independent", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		user := uuid.New()
		other, err := f.cat.RegisterMagazine(context.Background(), "Rust Monthly", "", 50)
		require.NoError(t, err)

		_, err = f.svc.Create(context.Background(), user, f.mag.ID, f.plans["Silver Plan"].ID)
		require.NoError(t, err)
		_, err = f.svc.Create(context.Background(), user, other.ID, f.plans["Silver Plan"].ID)
		require.NoError(t, err)
		_, err = f.svc.Create(context.Background(), uuid.New(), f.mag.ID, f.plans["Silver Plan"].ID)
		require.NoError(t, err)
	})

	t.Run("unknown magazine", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), uuid.New(), uuid.New(), f.plans["Silver Plan"].ID)
		require.ErrorIs(t, err, ledger.ErrNotFound)
		assert.ErrorIs(t, err, catalog.ErrMagazineNotFound)
		entity, ok := ledger.NotFoundEntity(err)
		require.True(t, ok)
		assert.Equal(t, ledger.EntityMagazine, entity)
		assert.EqualError(t, err, "magazine not found")
	})

	t.Run("unknown plan", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), uuid.New(), f.mag.ID, uuid.New())
		require.ErrorIs(t, err, ledger.ErrNotFound)
		entity, _ := ledger.NotFoundEntity(err)
		assert.Equal(t, ledger.EntityPlan, entity)
	})

	t.Run("magazine is checked before plan", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), uuid.New(), uuid.New(), uuid.New())
		entity, _ := ledger.NotFoundEntity(err)
		assert.Equal(t, ledger.EntityMagazine, entity)
	})

	t.Run("zero price is rejected", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		free := catalog.Plan{Title: "Free", RenewalPeriod: 1, Tier: 1, Discount: 1}
		cat, err := catalog.New(ctx, catalog.NewInMemSource(free))
		require.NoError(t, err)
		mag, err := cat.RegisterMagazine(ctx, "Zine", "", 10)
		require.NoError(t, err)
		plan := cat.ListPlans(ctx)[0]

		store := ledger.NewMemoryStore()
		svc := ledger.NewService(cat, store)

		_, err = svc.Create(ctx, uuid.New(), mag.ID, plan.ID)
		require.ErrorIs(t, err, ledger.ErrInvalidPrice)
		assert.True(t, validator.IsValidationError(err))
		assert.True(t, validator.ExtractValidationErrors(err).Has("price"))
	})
}

func TestService_Modify(t *testing.T) {
	t.Parallel()

	t.Run("replaces subscription", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()
		user := uuid.New()

		first, err := f.svc.Create(ctx, user, f.mag.ID, f.plans["Silver Plan"].ID)
		require.NoError(t, err)

		next, err := f.svc.Modify(ctx, first.ID, f.plans["Gold Plan"].ID)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, next.ID)
		assert.Equal(t, user, next.UserID)
		assert.Equal(t, f.mag.ID, next.MagazineID)
		assert.Equal(t, f.plans["Gold Plan"].ID, next.PlanID)
		assert.InDelta(t, 95.0, next.Price, 1e-9)
		assert.Equal(t, midnightPlusDays(90), next.RenewalDate)
		assert.True(t, next.IsActive)

		active, err := f.svc.ListActive(ctx, user)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, next.ID, active[0].ID)

		history, err := f.svc.History(ctx, user, f.mag.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, first.ID, history[0].ID)
		assert.False(t, history[0].IsActive)
		assert.Equal(t, next.ID, history[1].ID)
	})

	t.Run("to diamond charges three quarters", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()

		first, err := f.svc.Create(ctx, uuid.New(), f.mag.ID, f.plans["Silver Plan"].ID)
		require.NoError(t, err)

		next, err := f.svc.Modify(ctx, first.ID, f.plans["Diamond Plan"].ID)
		require.NoError(t, err)
		assert.InDelta(t, 75.0, next.Price, 1e-9)
		assert.Equal(t, midnightPlusDays(360), next.RenewalDate)
	})

	t.Run("same plan still replaces", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()

		first, err := f.svc.Create(ctx, uuid.New(), f.mag.ID, f.plans["Gold Plan"].ID)
		require.NoError(t, err)

		next, err := f.svc.Modify(ctx, first.ID, f.plans["Gold Plan"].ID)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, next.ID)
	})

	t.Run("unknown subscription", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Modify(context.Background(), uuid.New(), f.plans["Gold Plan"].ID)
		require.ErrorIs(t, err, ledger.ErrNotFound)
		entity, _ := ledger.NotFoundEntity(err)
		assert.Equal(t, ledger.EntityActiveSubscription, entity)
		assert.EqualError(t, err, "active subscription not found")
	})

	t.Run("inactive subscription", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()

		first, err := f.svc.Create(ctx, uuid.New(), f.mag.ID, f.plans["Silver Plan"].ID)
		require.NoError(t, err)
		_, err = f.svc.Modify(ctx, first.ID, f.plans["Gold Plan"].ID)
		require.NoError(t, err)

		_, err = f.svc.Modify(ctx, first.ID, f.plans["Platinum Plan"].ID)
		require.ErrorIs(t, err, ledger.ErrNotFound)
		entity, _ := ledger.NotFoundEntity(err)
		assert.Equal(t, ledger.EntityActiveSubscription, entity)
	})

	t.Run("unknown plan leaves subscription untouched", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()
		user := uuid.New()

		first, err := f.svc.Create(ctx, user, f.mag.ID, f.plans["Silver Plan"].ID)
		require.NoError(t, err)

		_, err = f.svc.Modify(ctx, first.ID, uuid.New())
		require.ErrorIs(t, err, ledger.ErrNotFound)
		entity, _ := ledger.NotFoundEntity(err)
		assert.Equal(t, ledger.EntityPlan, entity)

		active, err := f.svc.ListActive(ctx, user)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, first, active[0])
	})
}

func TestService_Cancel(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()

	sub, err := f.svc.Create(ctx, user, f.mag.ID, f.plans["Platinum Plan"].ID)
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, cancelled.ID)
	assert.False(t, cancelled.IsActive)
	assert.Equal(t, sub.Price, cancelled.Price)
	assert.Equal(t, sub.RenewalDate, cancelled.RenewalDate)

	active, err := f.svc.ListActive(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = f.svc.Cancel(ctx, sub.ID)
	require.ErrorIs(t, err, ledger.ErrNotFound)
	entity, _ := ledger.NotFoundEntity(err)
	assert.Equal(t, ledger.EntityActiveSubscription, entity)

	_, err = f.svc.Cancel(ctx, uuid.New())
	require.ErrorIs(t, err, ledger.ErrNotFound)

	// The pair is free again after cancellation.
	again, err := f.svc.Create(ctx, user, f.mag.ID, f.plans["Silver Plan"].ID)
	require.NoError(t, err)
	assert.NotEqual(t, sub.ID, again.ID)
}

func TestService_ListActive(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	active, err := f.svc.ListActive(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, active)
	assert.Empty(t, active)

	user := uuid.New()
	var ids []uuid.UUID
	for _, name := range []string{"A", "B", "C"} {
		m, err := f.cat.RegisterMagazine(ctx, name, "", 10)
		require.NoError(t, err)
		s, err := f.svc.Create(ctx, user, m.ID, f.plans["Silver Plan"].ID)
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}
	_, err = f.svc.Create(ctx, uuid.New(), f.mag.ID, f.plans["Silver Plan"].ID)
	require.NoError(t, err)

	active, err = f.svc.ListActive(ctx, user)
	require.NoError(t, err)
	require.Len(t, active, 3)
	for i, s := range active {
		assert.Equal(t, ids[i], s.ID)
		assert.Equal(t, user, s.UserID)
	}
}

func TestService_Concurrency(t *testing.T) {
	t.Parallel()

	t.Run("concurrent creates yield one active record", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()
		user := uuid.New()

		const workers = 32
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.svc.Create(ctx, user, f.mag.ID, f.plans["Silver Plan"].ID)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, ledger.ErrActiveSubscriptionExists):
					conflicts++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, workers-1, conflicts)
	})

	t.Run("concurrent modifies yield one successor", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()
		user := uuid.New()

		sub, err := f.svc.Create(ctx, user, f.mag.ID, f.plans["Silver Plan"].ID)
		require.NoError(t, err)

		const workers = 16
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.svc.Modify(ctx, sub.ID, f.plans["Gold Plan"].ID)
				if err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, ledger.ErrNotFound)
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		active, err := f.svc.ListActive(ctx, user)
		require.NoError(t, err)
		assert.Len(t, active, 1)
	})
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Magazine(ctx context.Context, id uuid.UUID) (catalog.Magazine, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.Magazine), args.Error(1)
}

func (m *mockCatalog) Plan(ctx context.Context, id uuid.UUID) (catalog.Plan, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.Plan), args.Error(1)
}

func TestService_CatalogFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	boom := errors.New("catalog unavailable")
	magID := uuid.New()

	cat := &mockCatalog{}
	cat.On("Magazine", mock.Anything, magID).Return(catalog.Magazine{}, boom).Once()

	svc := ledger.NewService(cat, ledger.NewMemoryStore())
	_, err := svc.Create(ctx, uuid.New(), magID, uuid.New())
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ledger.ErrNotFound)

	cat.AssertExpectations(t)
	cat.AssertNotCalled(t, "Plan", mock.Anything, mock.Anything)
}

func TestService_UsesIDGenerator(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mag := catalog.Magazine{ID: uuid.New(), Name: "M", BasePrice: 20}
	plan := catalog.Plan{ID: uuid.New(), Title: "P", RenewalPeriod: 2, Tier: 1, Discount: 0.5}
	id := uuid.New()

	cat := &mockCatalog{}
	cat.On("Magazine", mock.Anything, mag.ID).Return(mag, nil)
	cat.On("Plan", mock.Anything, plan.ID).Return(plan, nil)

	svc := ledger.NewService(cat, ledger.NewMemoryStore(),
		ledger.WithIDGenerator(func() uuid.UUID { return id }),
		ledger.WithClock(func() time.Time { return fixedNow }),
	)

	sub, err := svc.Create(ctx, uuid.New(), mag.ID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, id, sub.ID)
	assert.InDelta(t, 10.0, sub.Price, 1e-9)
	assert.Equal(t, midnightPlusDays(60), sub.RenewalDate)
	cat.AssertExpectations(t)
}

func TestNewService_PanicsOnNil(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { ledger.NewService(nil, ledger.NewMemoryStore()) })
	assert.Panics(t, func() { ledger.NewService(&mockCatalog{}, nil) })
}
