package catalog

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/dmitrymomot/magsubs/pkg/logger"
	"github.com/dmitrymomot/magsubs/pkg/validator"
)

// Store holds the magazine registry and the fixed plan catalog.
// Magazines are append-only; plans never change after construction.
type Store interface {
	RegisterMagazine(ctx context.Context, name, description string, basePrice float64) (Magazine, error)
	ListMagazines(ctx context.Context) []Magazine
	ListPlans(ctx context.Context) []Plan

	Magazine(ctx context.Context, id uuid.UUID) (Magazine, error)
	Plan(ctx context.Context, id uuid.UUID) (Plan, error)
}

// Option configures a Store.
type Option func(*store)

// WithLogger sets the logger used for registry events.
func WithLogger(l *slog.Logger) Option {
	return func(s *store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDGenerator overrides how magazine IDs are minted. Intended for tests.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

type store struct {
	mu        sync.RWMutex
	magazines []Magazine
	magIndex  map[uuid.UUID]int

	plans     []Plan
	planIndex map[uuid.UUID]int

	newID func() uuid.UUID
	log   *slog.Logger
}

// New builds a Store seeded with the plans from src.
// Panics if src is nil; returns an error if the plans fail to load or validate.
func New(ctx context.Context, src PlanSource, opts ...Option) (Store, error) {
	if src == nil {
		panic("catalog: PlanSource is required")
	}

	plans, err := loadPlans(ctx, src)
	if err != nil {
		return nil, err
	}

	s := &store{
		magIndex:  make(map[uuid.UUID]int),
		plans:     plans,
		planIndex: make(map[uuid.UUID]int, len(plans)),
		newID:     uuid.New,
		log:       slog.New(slog.DiscardHandler),
	}
	for i, p := range plans {
		s.planIndex[p.ID] = i
	}

	for _, opt := range opts {
		opt(s)
	}

	s.log = s.log.With(logger.Component("catalog"))
	s.log.DebugContext(ctx, "plan catalog loaded", slog.Int("plans", len(plans)))

	return s, nil
}

// RegisterMagazine validates and appends a magazine. Duplicate names are allowed.
func (s *store) RegisterMagazine(ctx context.Context, name, description string, basePrice float64) (Magazine, error) {
	if err := validator.Apply(
		validator.Positive("base_price", basePrice),
	); err != nil {
		return Magazine{}, errors.Join(ErrInvalidMagazine, err)
	}

	m := Magazine{
		ID:          s.newID(),
		Name:        normalizeText(name),
		Description: normalizeText(description),
		BasePrice:   basePrice,
	}

	s.mu.Lock()
	s.magIndex[m.ID] = len(s.magazines)
	s.magazines = append(s.magazines, m)
	s.mu.Unlock()

	s.log.InfoContext(ctx, "magazine registered",
		logger.MagazineID(m.ID),
		slog.Float64("base_price", m.BasePrice),
	)
	return m, nil
}

// ListMagazines returns a snapshot in registration order.
func (s *store) ListMagazines(_ context.Context) []Magazine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Magazine, len(s.magazines))
	copy(out, s.magazines)
	return out
}

// ListPlans returns a snapshot in seed order.
func (s *store) ListPlans(_ context.Context) []Plan {
	return slices.Clone(s.plans)
}

func (s *store) Magazine(_ context.Context, id uuid.UUID) (Magazine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.magIndex[id]
	if !ok {
		return Magazine{}, ErrMagazineNotFound
	}
	return s.magazines[i], nil
}

func (s *store) Plan(_ context.Context, id uuid.UUID) (Plan, error) {
	i, ok := s.planIndex[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return s.plans[i], nil
}

func validatePlan(p Plan) error {
	return validator.Apply(
		validator.Rule{
			Check: func() bool { return p.ID != uuid.Nil },
			Error: validator.ValidationError{Field: "id", Message: "must not be empty", TranslationKey: "validation.required"},
		},
		validator.Required("title", p.Title),
		validator.Positive("renewal_period", p.RenewalPeriod),
		validator.Between("discount", p.Discount, 0.0, 1.0),
	)
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
