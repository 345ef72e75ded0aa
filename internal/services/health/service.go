package health

import (
	"context"
	"time"
)

// Pinger checks connectivity to the backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function such as (*sql.DB).PingContext to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Status is the /health payload.
type Status struct {
	OK    bool   `json:"ok"`
	Store string `json:"store"`
	Error string `json:"error,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	Store   string
	Pinger  Pinger
	Timeout time.Duration
}

// NewService constructs a health service for the named store. A nil pinger
// (the in-memory store) is always healthy.
func NewService(store string, pinger Pinger) *Service {
	return &Service{Store: store, Pinger: pinger, Timeout: 2 * time.Second}
}

// Status pings the store and reports the result.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Store: s.Store}
	if s.Pinger == nil {
		return st
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	if err := s.Pinger.Ping(ctx); err != nil {
		st.OK = false
		st.Error = err.Error()
	}
	return st
}
