package logger

import (
	"log/slog"

	"github.com/google/uuid"
)

// Error records err under "error". Returns an empty Attr for nil, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting component under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// RequestID records the request identifier under "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func UserID(id uuid.UUID) slog.Attr {
	return idAttr("user_id", id)
}

func MagazineID(id uuid.UUID) slog.Attr {
	return idAttr("magazine_id", id)
}

func PlanID(id uuid.UUID) slog.Attr {
	return idAttr("plan_id", id)
}

func SubscriptionID(id uuid.UUID) slog.Attr {
	return idAttr("subscription_id", id)
}

// Transition records a lifecycle move as "from->to" under "transition".
func Transition(from, to string) slog.Attr {
	return slog.String("transition", from+"->"+to)
}

func idAttr(key string, id uuid.UUID) slog.Attr {
	if id == uuid.Nil {
		return slog.Attr{}
	}
	return slog.String(key, id.String())
}
