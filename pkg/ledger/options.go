package ledger

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ServiceOption configures a Service.
type ServiceOption func(*service)

// WithClock overrides the time source used for renewal dates and CreatedAt.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how subscription IDs are minted.
func WithIDGenerator(fn func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *service) {
		if l != nil {
			s.log = l
		}
	}
}
