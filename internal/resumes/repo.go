package resumes

import "context"

// Repo defines persistence operations for resumes. Lookups are always scoped
// to the owner; a record owned by another user is reported as ErrNotFound.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, userID, resumeID string) (Resume, error)
	Update(ctx context.Context, resume Resume) error
}
