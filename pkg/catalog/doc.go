// Package catalog is the read-mostly registry of magazines and renewal plans.
//
// Magazines are registered at runtime and never updated or removed. Plans are
// fixed at construction time from a PlanSource; DefaultPlans provides the four
// built-in tiers (Silver, Gold, Platinum, Diamond) from an embedded YAML
// document, and NewYAMLFileSource lets deployments supply their own.
//
//	store, err := catalog.New(ctx, catalog.DefaultPlans(), catalog.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	mag, err := store.RegisterMagazine(ctx, "Tech Weekly", "Gadgets and code", 10.0)
//
// RegisterMagazine rejects a non-positive base price with an error that wraps
// both ErrInvalidMagazine and validator.ValidationErrors. Lookups by ID return
// ErrMagazineNotFound or ErrPlanNotFound.
//
// A Store is safe for concurrent use.
package catalog
