package resumes

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, title, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.Title,
		resume.Content,
		resume.CreatedAt,
		resume.UpdatedAt,
	)
	return err
}

// GetByID returns the caller's resume.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	// Ids are UUID columns; anything else cannot exist.
	if _, err := uuid.Parse(resumeID); err != nil {
		return Resume{}, ErrNotFound
	}
	const query = `
SELECT id, user_id, title, content, created_at, updated_at
FROM resumes
WHERE id = $1 AND user_id = $2
LIMIT 1`
	var resume Resume
	err := r.DB.QueryRowContext(ctx, query, resumeID, userID).Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&resume.Content,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// Update replaces title and content of the caller's resume.
func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	if _, err := uuid.Parse(resume.ID); err != nil {
		return ErrNotFound
	}
	const query = `
UPDATE resumes
SET title = $3, content = $4, updated_at = $5
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.Title,
		resume.Content,
		resume.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
