package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/magsubs/pkg/catalog"
	"github.com/dmitrymomot/magsubs/pkg/ledger"
	"github.com/dmitrymomot/magsubs/pkg/validator"
)

const maxBodyBytes = 1 << 20

type handlers struct {
	catalog catalog.Store
	ledger  ledger.Service
	log     *slog.Logger
}

func (h *handlers) createMagazine(w http.ResponseWriter, r *http.Request) {
	var req MagazineRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.fail(w, r, errors.Join(ErrMalformedBody, err))
		return
	}

	if err := validator.Apply(validator.Rule{
		Check: func() bool { return req.BasePrice != nil },
		Error: validator.ValidationError{
			Field:          "base_price",
			Message:        "field is required",
			TranslationKey: "validation.required",
			Params:         map[string]any{"field": "base_price"},
		},
	}); err != nil {
		h.fail(w, r, err)
		return
	}

	m, err := h.catalog.RegisterMagazine(r.Context(), req.Name, req.Description, *req.BasePrice)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, m)
}

func (h *handlers) listMagazines(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.catalog.ListMagazines(r.Context()))
}

func (h *handlers) listPlans(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.catalog.ListPlans(r.Context()))
}

func (h *handlers) createSubscription(w http.ResponseWriter, r *http.Request) {
	var userID, magazineID, planID uuid.UUID
	q := r.URL.Query()
	if err := parseIDs(
		idParam{"user_id", q.Get("user_id"), &userID},
		idParam{"magazine_id", q.Get("magazine_id"), &magazineID},
		idParam{"plan_id", q.Get("plan_id"), &planID},
	); err != nil {
		h.fail(w, r, err)
		return
	}

	sub, err := h.ledger.Create(r.Context(), userID, magazineID, planID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, newSubscriptionResponse(sub))
}

func (h *handlers) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	var userID uuid.UUID
	if err := parseIDs(idParam{"user_id", r.URL.Query().Get("user_id"), &userID}); err != nil {
		h.fail(w, r, err)
		return
	}

	subs, err := h.ledger.ListActive(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, newSubscriptionList(subs))
}

func (h *handlers) subscriptionHistory(w http.ResponseWriter, r *http.Request) {
	var userID, magazineID uuid.UUID
	q := r.URL.Query()
	if err := parseIDs(
		idParam{"user_id", q.Get("user_id"), &userID},
		idParam{"magazine_id", q.Get("magazine_id"), &magazineID},
	); err != nil {
		h.fail(w, r, err)
		return
	}

	subs, err := h.ledger.History(r.Context(), userID, magazineID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, newSubscriptionList(subs))
}

func (h *handlers) modifySubscription(w http.ResponseWriter, r *http.Request) {
	var subscriptionID, planID uuid.UUID
	if err := parseIDs(
		idParam{"subscription_id", chi.URLParam(r, "subscriptionID"), &subscriptionID},
		idParam{"plan_id", r.URL.Query().Get("plan_id"), &planID},
	); err != nil {
		h.fail(w, r, err)
		return
	}

	sub, err := h.ledger.Modify(r.Context(), subscriptionID, planID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, newSubscriptionResponse(sub))
}

func (h *handlers) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	var subscriptionID uuid.UUID
	if err := parseIDs(idParam{"subscription_id", chi.URLParam(r, "subscriptionID"), &subscriptionID}); err != nil {
		h.fail(w, r, err)
		return
	}

	sub, err := h.ledger.Cancel(r.Context(), subscriptionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, newSubscriptionResponse(sub))
}

type idParam struct {
	name string
	raw  string
	dst  *uuid.UUID
}

// parseIDs validates every param before assigning any, so one response
// reports all malformed IDs.
func parseIDs(params ...idParam) error {
	rules := make([]validator.Rule, 0, len(params))
	for _, p := range params {
		rules = append(rules, validator.ValidUUID(p.name, p.raw))
	}
	if err := validator.Apply(rules...); err != nil {
		return err
	}
	for _, p := range params {
		*p.dst = uuid.MustParse(p.raw)
	}
	return nil
}
