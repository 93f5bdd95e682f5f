package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/magsubs/pkg/catalog"
	"github.com/dmitrymomot/magsubs/pkg/logger"
)

// Catalog is the read side of the catalog the ledger depends on.
type Catalog interface {
	Magazine(ctx context.Context, id uuid.UUID) (catalog.Magazine, error)
	Plan(ctx context.Context, id uuid.UUID) (catalog.Plan, error)
}

// Service owns subscription records and their lifecycle.
type Service interface {
	// Create opens an active subscription for the pair.
	// Fails with a NotFoundError for an unknown magazine or plan and with
	// ErrActiveSubscriptionExists if the pair already has one.
	Create(ctx context.Context, userID, magazineID, planID uuid.UUID) (Subscription, error)

	// ListActive returns the user's active subscriptions in creation order.
	ListActive(ctx context.Context, userID uuid.UUID) ([]Subscription, error)

	// Modify retires the active subscription and opens its successor on
	// newPlanID at the current magazine price. The predecessor stays in the
	// ledger as an inactive record.
	Modify(ctx context.Context, subscriptionID, newPlanID uuid.UUID) (Subscription, error)

	// Cancel deactivates an active subscription and returns the inactive record.
	Cancel(ctx context.Context, subscriptionID uuid.UUID) (Subscription, error)

	// History returns every record, active or not, for the pair in creation order.
	History(ctx context.Context, userID, magazineID uuid.UUID) ([]Subscription, error)
}

type service struct {
	catalog   Catalog
	store     Store
	lifecycle *lifecycle

	now   func() time.Time
	newID func() uuid.UUID
	log   *slog.Logger
}

// NewService builds the ledger service. Panics if cat or store is nil.
func NewService(cat Catalog, store Store, opts ...ServiceOption) Service {
	if cat == nil {
		panic("ledger: catalog is required")
	}
	if store == nil {
		panic("ledger: store is required")
	}

	s := &service{
		catalog: cat,
		store:   store,
		now:     time.Now,
		newID:   uuid.New,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.lifecycle = newLifecycle()
	s.lifecycle.add(StateActive, StateInactive, EventModify, s.replace)
	s.lifecycle.add(StateActive, StateInactive, EventCancel, s.deactivate)

	return s
}

func (s *service) Create(ctx context.Context, userID, magazineID, planID uuid.UUID) (Subscription, error) {
	mag, err := s.magazine(ctx, magazineID)
	if err != nil {
		return Subscription{}, err
	}
	plan, err := s.plan(ctx, planID)
	if err != nil {
		return Subscription{}, err
	}

	if _, err := s.store.FindActive(ctx, userID, magazineID); err == nil {
		s.log.DebugContext(ctx, "subscription rejected: already active",
			logger.UserID(userID), logger.MagazineID(magazineID))
		return Subscription{}, ErrActiveSubscriptionExists
	} else if !errors.Is(err, ErrSubscriptionNotFound) {
		return Subscription{}, fmt.Errorf("lookup active subscription: %w", err)
	}

	sub, err := s.build(userID, mag, plan)
	if err != nil {
		return Subscription{}, err
	}

	// The store enforces the pair invariant again under its own lock, so a
	// concurrent create that slipped past FindActive still fails here.
	if err := s.store.Append(ctx, sub); err != nil {
		return Subscription{}, err
	}

	s.log.InfoContext(ctx, "subscription created",
		logger.SubscriptionID(sub.ID),
		logger.UserID(userID),
		logger.MagazineID(magazineID),
		logger.PlanID(planID),
		slog.Float64("price", sub.Price),
	)
	return sub, nil
}

func (s *service) ListActive(ctx context.Context, userID uuid.UUID) ([]Subscription, error) {
	return s.store.ListActive(ctx, userID)
}

func (s *service) History(ctx context.Context, userID, magazineID uuid.UUID) ([]Subscription, error) {
	return s.store.ListHistory(ctx, userID, magazineID)
}

func (s *service) Modify(ctx context.Context, subscriptionID, newPlanID uuid.UUID) (Subscription, error) {
	current, err := s.active(ctx, subscriptionID)
	if err != nil {
		return Subscription{}, err
	}
	plan, err := s.plan(ctx, newPlanID)
	if err != nil {
		return Subscription{}, err
	}
	mag, err := s.magazine(ctx, current.MagazineID)
	if err != nil {
		return Subscription{}, err
	}

	successor, err := s.build(current.UserID, mag, plan)
	if err != nil {
		return Subscription{}, err
	}

	if err := s.lifecycle.fire(ctx, &current, EventModify, successor); err != nil {
		return Subscription{}, s.transitionError(ctx, subscriptionID, err)
	}

	s.log.InfoContext(ctx, "subscription modified",
		logger.SubscriptionID(successor.ID),
		slog.String("replaces", subscriptionID.String()),
		logger.UserID(successor.UserID),
		logger.PlanID(newPlanID),
		logger.Transition(string(StateActive), string(current.State())),
	)
	return successor, nil
}

func (s *service) Cancel(ctx context.Context, subscriptionID uuid.UUID) (Subscription, error) {
	current, err := s.active(ctx, subscriptionID)
	if err != nil {
		return Subscription{}, err
	}

	if err := s.lifecycle.fire(ctx, &current, EventCancel, nil); err != nil {
		return Subscription{}, s.transitionError(ctx, subscriptionID, err)
	}

	s.log.InfoContext(ctx, "subscription cancelled",
		logger.SubscriptionID(subscriptionID),
		logger.UserID(current.UserID),
		logger.Transition(string(StateActive), string(current.State())),
	)
	return current, nil
}

func (s *service) replace(ctx context.Context, sub Subscription, data any) error {
	successor, ok := data.(Subscription)
	if !ok {
		return fmt.Errorf("replace: unexpected payload %T", data)
	}
	return s.store.Replace(ctx, sub.ID, successor)
}

func (s *service) deactivate(ctx context.Context, sub Subscription, _ any) error {
	_, err := s.store.Deactivate(ctx, sub.ID)
	return err
}

// build assembles an active record. Nothing is written.
func (s *service) build(userID uuid.UUID, mag catalog.Magazine, plan catalog.Plan) (Subscription, error) {
	price, err := Price(mag, plan)
	if err != nil {
		return Subscription{}, err
	}
	now := s.now()
	return Subscription{
		ID:          s.newID(),
		UserID:      userID,
		MagazineID:  mag.ID,
		PlanID:      plan.ID,
		Price:       price,
		RenewalDate: RenewalDate(now, plan),
		IsActive:    true,
		CreatedAt:   now.UTC(),
	}, nil
}

func (s *service) active(ctx context.Context, id uuid.UUID) (Subscription, error) {
	sub, err := s.store.Get(ctx, id)
	switch {
	case errors.Is(err, ErrSubscriptionNotFound):
		return Subscription{}, notFound(EntityActiveSubscription, err)
	case err != nil:
		return Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	if !s.lifecycle.can(sub, EventCancel) {
		s.log.DebugContext(ctx, "subscription is not active", logger.SubscriptionID(id))
		return Subscription{}, notFound(EntityActiveSubscription, ErrSubscriptionInactive)
	}
	return sub, nil
}

func (s *service) magazine(ctx context.Context, id uuid.UUID) (catalog.Magazine, error) {
	m, err := s.catalog.Magazine(ctx, id)
	if errors.Is(err, catalog.ErrMagazineNotFound) {
		return catalog.Magazine{}, notFound(EntityMagazine, err)
	}
	return m, err
}

func (s *service) plan(ctx context.Context, id uuid.UUID) (catalog.Plan, error) {
	p, err := s.catalog.Plan(ctx, id)
	if errors.Is(err, catalog.ErrPlanNotFound) {
		return catalog.Plan{}, notFound(EntityPlan, err)
	}
	return p, err
}

// transitionError maps a failed transition. A record that went inactive
// between the lookup and the write is reported as missing.
func (s *service) transitionError(ctx context.Context, id uuid.UUID, err error) error {
	var noTransition *ErrNoTransition
	if errors.Is(err, ErrSubscriptionInactive) || errors.Is(err, ErrSubscriptionNotFound) || errors.As(err, &noTransition) {
		s.log.DebugContext(ctx, "subscription transition rejected", logger.SubscriptionID(id), logger.Error(err))
		return notFound(EntityActiveSubscription, err)
	}
	return err
}
