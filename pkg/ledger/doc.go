// Package ledger records magazine subscriptions.
//
// The ledger is append-only. A subscription is never edited in place: a plan
// change retires the current record and appends a successor, and a
// cancellation flips the record to inactive. At most one active record exists
// per (user, magazine) pair; the Store enforces this under its own lock so
// concurrent requests cannot produce two.
//
// Prices are the magazine's base price less the plan discount, taken at the
// moment a record is written. Renewal dates are the start of the current UTC
// day plus the plan's renewal period in 30-day months.
//
// Basic usage:
//
//	cat, err := catalog.New(ctx, catalog.DefaultPlans())
//	if err != nil {
//		return err
//	}
//	svc := ledger.NewService(cat, ledger.NewMemoryStore(), ledger.WithLogger(log))
//
//	sub, err := svc.Create(ctx, userID, magazineID, planID)
//	if err != nil {
//		if errors.Is(err, ledger.ErrActiveSubscriptionExists) {
//			// already subscribed
//		}
//		return err
//	}
//
// Lookup failures are reported as *NotFoundError, which matches ErrNotFound
// and names the entity that did not resolve.
package ledger
