package catalog

import (
	"github.com/google/uuid"
)

// Magazine is a publication users can subscribe to.
// Magazines are immutable once registered.
type Magazine struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BasePrice   float64   `json:"base_price"`
}

// Plan is a renewal plan. RenewalPeriod is in months, Discount is a fraction
// in [0, 1] applied to a magazine's base price.
type Plan struct {
	ID            uuid.UUID `json:"id" yaml:"-"`
	Title         string    `json:"title" yaml:"title"`
	Description   string    `json:"description" yaml:"description"`
	RenewalPeriod int       `json:"renewal_period" yaml:"renewal_period"`
	Tier          int       `json:"tier" yaml:"tier"`
	Discount      float64   `json:"discount" yaml:"discount"`
}

// DiscountedPrice applies the plan discount to basePrice.
func (p Plan) DiscountedPrice(basePrice float64) float64 {
	return basePrice * (1 - p.Discount)
}
