package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-builder/internal/latex/tmpl"
	"resume-builder/internal/shared/telemetry"
)

// Service manages profiles and supplies template contexts.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

// Upsert validates input and replaces the caller's profile.
func (s *Service) Upsert(ctx context.Context, userID string, in Input) (Profile, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	now := s.now()
	p, err := in.ToProfile(now)
	if err != nil {
		return Profile{}, false, err
	}
	p.UserID = userID
	p.CreatedAt = now
	p.UpdatedAt = now

	created, err := s.Repo.Upsert(ctx, p)
	if err != nil {
		return Profile{}, false, fmt.Errorf("upsert profile: %w", err)
	}
	if !created {
		if stored, err := s.Repo.GetByUser(ctx, userID); err == nil {
			p.CreatedAt = stored.CreatedAt
		}
	}
	return p, created, nil
}

// Get returns the caller's profile.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	return s.Repo.GetByUser(ctx, strings.TrimSpace(userID))
}

// TemplateContext is the fallible side-lookup used before rendering a
// templated document. Absence and lookup failures both report ok=false;
// failures are logged.
func (s *Service) TemplateContext(ctx context.Context, userID string) (tmpl.Context, bool) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			telemetry.Error("profile.lookup_failed", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		return tmpl.Context{}, false
	}
	return p.TemplateContext(), true
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
