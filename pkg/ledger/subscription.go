package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/magsubs/pkg/catalog"
	"github.com/dmitrymomot/magsubs/pkg/validator"
)

// DaysPerMonth is the fixed month length used for renewal dates.
const DaysPerMonth = 30

// Subscription is one ledger record. Records are append-only; the only
// mutation ever applied is IsActive going from true to false, once.
type Subscription struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	MagazineID  uuid.UUID
	PlanID      uuid.UUID
	Price       float64
	RenewalDate time.Time // midnight UTC
	IsActive    bool
	CreatedAt   time.Time
}

// State reports the lifecycle state derived from IsActive.
func (s Subscription) State() State {
	if s.IsActive {
		return StateActive
	}
	return StateInactive
}

// Price is base price less the plan discount. A zero result (100% discount)
// is rejected with a validation error.
func Price(m catalog.Magazine, p catalog.Plan) (float64, error) {
	price := p.DiscountedPrice(m.BasePrice)
	if err := validator.Apply(validator.Positive("price", price)); err != nil {
		return 0, errors.Join(ErrInvalidPrice, err)
	}
	return price, nil
}

// RenewalDate is the start of now's UTC day plus RenewalPeriod*30 days.
func RenewalDate(now time.Time, p catalog.Plan) time.Time {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, p.RenewalPeriod*DaysPerMonth)
}
