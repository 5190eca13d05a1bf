package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpsertReportsInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	now := time.Now().UTC()
	p := Profile{UserID: "user-1", Name: "Ada", Skills: []Skill{{Name: "Go"}}, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("INSERT INTO profiles").
		WithArgs(
			"user-1", "Ada", "", "", "", "", "", "", "",
			[]byte(`[{"name":"Go"}]`),
			[]byte(`[]`),
			[]byte(`[]`),
			[]byte(`[]`),
			now, now,
		).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))

	created, err := repo.Upsert(context.Background(), p)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByUserDecodesLists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	now := time.Now().UTC()
	cols := []string{"user_id", "name", "email", "phone", "linkedin", "github", "website", "summary", "job_role",
		"skills", "projects", "experiences", "educations", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT (.+) FROM profiles").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"user-1", "Ada", "ada@example.com", "", "", "", "", "", "",
			[]byte(`[{"name":"Go"}]`),
			[]byte(`[{"title":"Engine","description":"d"}]`),
			[]byte(`[{"role":"Analyst","company":"B","startDate":"2020-01-01T00:00:00Z"}]`),
			[]byte(`[]`),
			now, now,
		))
	mock.ExpectQuery("SELECT (.+) FROM profiles").
		WithArgs("user-2").
		WillReturnError(sql.ErrNoRows)

	p, err := repo.GetByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(p.Skills) != 1 || p.Projects[0].Title != "Engine" || p.Experiences[0].EndDate != nil {
		t.Fatalf("unexpected profile %+v", p)
	}
	if _, err := repo.GetByUser(context.Background(), "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
