package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/magsubs/pkg/ledger"
)

// DateLayout is the wire format of renewal dates.
const DateLayout = time.DateOnly

// MagazineRequest is the body of POST /magazines/. An "id" field, if sent,
// is ignored; the server assigns IDs.
type MagazineRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BasePrice   *float64 `json:"base_price"`
}

type SubscriptionResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	MagazineID  uuid.UUID `json:"magazine_id"`
	PlanID      uuid.UUID `json:"plan_id"`
	Price       float64   `json:"price"`
	RenewalDate string    `json:"renewal_date"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func newSubscriptionResponse(s ledger.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		MagazineID:  s.MagazineID,
		PlanID:      s.PlanID,
		Price:       s.Price,
		RenewalDate: s.RenewalDate.Format(DateLayout),
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
	}
}

func newSubscriptionList(subs []ledger.Subscription) []SubscriptionResponse {
	out := make([]SubscriptionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, newSubscriptionResponse(s))
	}
	return out
}
