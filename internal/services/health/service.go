package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports whether the API and its database are reachable.
type Service struct {
	DB           Pinger
	CompilerMode string
}

// NewService constructs a health service. db may be nil when the API runs on
// in-memory repositories.
func NewService(db Pinger, compilerMode string) *Service {
	return &Service{DB: db, CompilerMode: compilerMode}
}

// Report is the health payload.
type Report struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Compiler string `json:"compiler,omitempty"`
}

// Status pings the database. The API stays ok when running in memory.
func (s *Service) Status(ctx context.Context) Report {
	r := Report{OK: true, Database: "memory", Compiler: s.CompilerMode}
	if s.DB == nil {
		return r
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		r.OK = false
		r.Database = "down"
		return r
	}
	r.Database = "up"
	return r
}
