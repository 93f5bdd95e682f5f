package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// PlanSource loads the plan catalog. Order of the returned slice is the
// order in which ListPlans reports plans.
type PlanSource interface {
	Load(ctx context.Context) ([]Plan, error)
}

//go:embed plans.yaml
var defaultPlansYAML []byte

type planDocument struct {
	Plans []Plan `yaml:"plans"`
}

type yamlSource struct {
	read func() ([]byte, error)
}

// DefaultPlans returns the built-in source with the Silver, Gold, Platinum
// and Diamond plans.
func DefaultPlans() PlanSource {
	return &yamlSource{read: func() ([]byte, error) { return defaultPlansYAML, nil }}
}

// NewYAMLFileSource reads plans from a YAML file with the same layout as the
// embedded default. The file is read on every Load.
func NewYAMLFileSource(path string) PlanSource {
	return &yamlSource{read: func() ([]byte, error) { return os.ReadFile(path) }}
}

// Load decodes the document and assigns a fresh ID to every plan.
func (s *yamlSource) Load(ctx context.Context) ([]Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("read plans: %w", err)
	}

	var doc planDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}

	for i := range doc.Plans {
		doc.Plans[i].ID = uuid.New()
	}
	return doc.Plans, nil
}

type inMemSource struct {
	plans []Plan
}

// NewInMemSource returns a source serving a copy of plans.
// Plans with a zero ID get one assigned. Panics if no plans are given.
func NewInMemSource(plans ...Plan) PlanSource {
	if len(plans) < 1 {
		panic("catalog: at least one plan is required")
	}
	cp := slices.Clone(plans)
	for i := range cp {
		if cp[i].ID == uuid.Nil {
			cp[i].ID = uuid.New()
		}
	}
	return &inMemSource{plans: cp}
}

func (s *inMemSource) Load(ctx context.Context) ([]Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.plans), nil
}

// loadPlans runs src and checks the result. Duplicate IDs are a configuration
// error because plans are addressed by ID.
func loadPlans(ctx context.Context, src PlanSource) ([]Plan, error) {
	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}
	if len(plans) == 0 {
		return nil, ErrNoPlans
	}

	seen := make(map[uuid.UUID]struct{}, len(plans))
	for _, p := range plans {
		if err := validatePlan(p); err != nil {
			return nil, errors.Join(ErrInvalidPlanConfiguration, fmt.Errorf("plan %q", p.Title), err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, errors.Join(ErrInvalidPlanConfiguration, fmt.Errorf("duplicate plan id %s", p.ID))
		}
		seen[p.ID] = struct{}{}
	}
	return plans, nil
}
