package resumes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service saves resume sources ahead of compilation.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

// Save creates a resume, or updates the caller's existing one when id is
// set. An id that does not resolve to one of the caller's resumes yields
// ErrNotFound and nothing is written.
func (s *Service) Save(ctx context.Context, userID, id, title, content string) (Resume, error) {
	userID = strings.TrimSpace(userID)
	id = strings.TrimSpace(id)
	if userID == "" {
		return Resume{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return Resume{}, fmt.Errorf("%w: title and code are required", ErrInvalidInput)
	}
	now := s.now()

	if id != "" {
		existing, err := s.Repo.GetByID(ctx, userID, id)
		if err != nil {
			return Resume{}, err
		}
		existing.Title = title
		existing.Content = content
		existing.UpdatedAt = now
		if err := s.Repo.Update(ctx, existing); err != nil {
			return Resume{}, fmt.Errorf("update resume: %w", err)
		}
		return existing, nil
	}

	resume := Resume{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, fmt.Errorf("create resume: %w", err)
	}
	return resume, nil
}

// Get returns the caller's resume.
func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	return s.Repo.GetByID(ctx, strings.TrimSpace(userID), strings.TrimSpace(id))
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
