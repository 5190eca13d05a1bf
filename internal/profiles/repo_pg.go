package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Nested lists live in JSONB columns
// so an upsert replaces them atomically.
type PGRepo struct {
	DB *sql.DB
}

// Upsert inserts or replaces the user's profile.
func (r *PGRepo) Upsert(ctx context.Context, p Profile) (bool, error) {
	skills, projects, experiences, educations, err := encodeLists(p)
	if err != nil {
		return false, err
	}
	const query = `
INSERT INTO profiles (
    user_id, name, email, phone, linkedin, github, website, summary, job_role,
    skills, projects, experiences, educations, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (user_id) DO UPDATE SET
    name = EXCLUDED.name,
    email = EXCLUDED.email,
    phone = EXCLUDED.phone,
    linkedin = EXCLUDED.linkedin,
    github = EXCLUDED.github,
    website = EXCLUDED.website,
    summary = EXCLUDED.summary,
    job_role = EXCLUDED.job_role,
    skills = EXCLUDED.skills,
    projects = EXCLUDED.projects,
    experiences = EXCLUDED.experiences,
    educations = EXCLUDED.educations,
    updated_at = EXCLUDED.updated_at
RETURNING (xmax = 0) AS inserted`
	var inserted bool
	err = r.DB.QueryRowContext(ctx, query,
		p.UserID,
		p.Name,
		p.Email,
		p.Phone,
		p.LinkedIn,
		p.GitHub,
		p.Website,
		p.Summary,
		p.JobRole,
		skills,
		projects,
		experiences,
		educations,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&inserted)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// GetByUser returns the user's profile.
func (r *PGRepo) GetByUser(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT user_id, name, email, phone, linkedin, github, website, summary, job_role,
       skills, projects, experiences, educations, created_at, updated_at
FROM profiles
WHERE user_id = $1`
	var p Profile
	var skills, projects, experiences, educations []byte
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.LinkedIn,
		&p.GitHub,
		&p.Website,
		&p.Summary,
		&p.JobRole,
		&skills,
		&projects,
		&experiences,
		&educations,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	if err := decodeList(skills, &p.Skills, "skills"); err != nil {
		return Profile{}, err
	}
	if err := decodeList(projects, &p.Projects, "projects"); err != nil {
		return Profile{}, err
	}
	if err := decodeList(experiences, &p.Experiences, "experiences"); err != nil {
		return Profile{}, err
	}
	if err := decodeList(educations, &p.Educations, "educations"); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func encodeLists(p Profile) (skills, projects, experiences, educations []byte, err error) {
	if skills, err = encodeList(p.Skills, "skills"); err != nil {
		return
	}
	if projects, err = encodeList(p.Projects, "projects"); err != nil {
		return
	}
	if experiences, err = encodeList(p.Experiences, "experiences"); err != nil {
		return
	}
	educations, err = encodeList(p.Educations, "educations")
	return
}

func encodeList[T any](items []T, name string) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return data, nil
}

func decodeList[T any](data []byte, dst *[]T, name string) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
