package profiles

import "context"

// Repo persists one profile per user.
type Repo interface {
	// Upsert replaces the user's profile, including every nested list, and
	// reports whether it was newly created.
	Upsert(ctx context.Context, profile Profile) (created bool, err error)
	GetByUser(ctx context.Context, userID string) (Profile, error)
}
