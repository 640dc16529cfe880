package health

import (
	"context"
	"database/sql"
	"time"
)

// Status is the health payload.
type Status struct {
	OK           bool   `json:"ok"`
	SessionStore string `json:"sessionStore"`
	AdjustPolicy string `json:"adjustPolicy"`
}

// Service encapsulates health-related checks.
type Service struct {
	// DB is the session database; nil when sessions are kept in memory.
	DB           *sql.DB
	AdjustPolicy string
	PingTimeout  time.Duration
}

// NewService constructs a new health service.
func NewService(db *sql.DB, adjustPolicy string) *Service {
	return &Service{DB: db, AdjustPolicy: adjustPolicy, PingTimeout: 2 * time.Second}
}

// Status reports whether the session store is reachable.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, SessionStore: "memory", AdjustPolicy: s.AdjustPolicy}
	if s.DB == nil {
		return st
	}
	st.SessionStore = "sqlite"
	timeout := s.PingTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		st.OK = false
		st.SessionStore = "unavailable"
	}
	return st
}
