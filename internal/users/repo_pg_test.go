package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var pgUserColumns = []string{"user_id", "filled_form", "profile_image", "created_at", "updated_at"}

func TestPGRepoUpsertReportsInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("u1", false, nil).
		WillReturnRows(sqlmock.NewRows(append(pgUserColumns, "inserted")).
			AddRow("u1", false, nil, now, now, true))

	user, created, err := repo.Upsert(context.Background(), UpsertInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created {
		t.Fatalf("expected created")
	}
	if user.UserID != "u1" || user.FilledForm || user.ProfileImage != "" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpsertReportsUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	created := time.Now().UTC().Add(-time.Hour)
	now := time.Now().UTC()

	mock.ExpectQuery(`ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs("u1", true, "img").
		WillReturnRows(sqlmock.NewRows(append(pgUserColumns, "inserted")).
			AddRow("u1", true, "img", created, now, false))

	user, wasCreated, err := repo.Upsert(context.Background(), UpsertInput{UserID: "u1", FilledForm: true, ProfileImage: "img"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if wasCreated {
		t.Fatalf("expected update")
	}
	if !user.FilledForm || user.ProfileImage != "img" || !user.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("nonexistent").
		WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListOrdersByCreation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery("ORDER BY created_at ASC").
		WillReturnRows(sqlmock.NewRows(pgUserColumns).
			AddRow("a", true, nil, now.Add(-time.Minute), now).
			AddRow("b", false, "img", now, now))

	repo := &PGRepo{DB: db}
	out, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 || out[0].UserID != "a" || out[1].ProfileImage != "img" {
		t.Fatalf("unexpected users: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListEmptyIsNotNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows(pgUserColumns))

	repo := &PGRepo{DB: db}
	out, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}
