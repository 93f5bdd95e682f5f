package ledger

import (
	"errors"
	"fmt"
)

// Kinds of failure callers branch on. Match with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

var (
	ErrActiveSubscriptionExists = fmt.Errorf("%w: active subscription exists", ErrConflict)
	ErrInvalidPrice             = errors.New("subscription price must be greater than zero")

	// Store-level errors.
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrSubscriptionInactive    = errors.New("subscription is not active")
	ErrDuplicateSubscriptionID = errors.New("duplicate subscription id")
)

// Entities reported by NotFoundError.
const (
	EntityMagazine           = "magazine"
	EntityPlan               = "plan"
	EntityActiveSubscription = "active subscription"
)

// NotFoundError reports which referenced entity did not resolve.
// It matches ErrNotFound and unwraps to the underlying cause, if any.
type NotFoundError struct {
	Entity string
	Err    error
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func notFound(entity string, cause error) error {
	return &NotFoundError{Entity: entity, Err: cause}
}

// NotFoundEntity returns the entity named by a NotFoundError in err's chain.
func NotFoundEntity(err error) (string, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Entity, true
	}
	return "", false
}

// ErrNoTransition is returned by the lifecycle when the subscription's current
// state has no transition for the event.
type ErrNoTransition struct {
	State State
	Event Event
}

func (e *ErrNoTransition) Error() string {
	return fmt.Sprintf("no transition from state %q for event %q", e.State, e.Event)
}
