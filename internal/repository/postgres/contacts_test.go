package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/arklim/contacts-service/internal/core/domain"
	"github.com/arklim/contacts-service/internal/repository"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *ContactRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock, NewContactRepository(mock)
}

func sampleContact() domain.Contact {
	dob, _ := time.Parse(domain.DOBFormat, "01/01/1990")
	return domain.Contact{
		UserName:     "alicee",
		Name:         "Alice",
		Email:        "alice@x.com",
		Type:         domain.ContactTypeFriend,
		DOB:          dob,
		Phone:        "+123456789",
		PasswordHash: "argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestContactRepository_PersistAssignsID(t *testing.T) {
	mock, repo := newMockRepo(t)
	contact := sampleContact()

	mock.ExpectExec(`INSERT INTO contacts`).
		WithArgs(
			pgxmock.AnyArg(),
			contact.UserName,
			contact.Name,
			contact.Email,
			contact.Type,
			contact.DOB,
			contact.Phone,
			contact.PasswordHash,
			contact.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	stored, err := repo.Persist(context.Background(), contact)
	if err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected assigned id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContactRepository_PersistUniqueViolation(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO contacts`).
		WithArgs(
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err := repo.Persist(context.Background(), sampleContact())
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestContactRepository_PersistRejectsPresetID(t *testing.T) {
	_, repo := newMockRepo(t)

	contact := sampleContact()
	contact.ID = "preset"

	if _, err := repo.Persist(context.Background(), contact); err == nil {
		t.Fatal("expected error for preset id")
	}
}

func TestContactRepository_GetNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`SELECT .*FROM contacts`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(contactColumns))

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContactRepository_GetScansRow(t *testing.T) {
	mock, repo := newMockRepo(t)
	contact := sampleContact()

	rows := pgxmock.NewRows(contactColumns).AddRow(
		"id-1",
		contact.UserName,
		contact.Name,
		contact.Email,
		contact.Type,
		contact.DOB,
		contact.Phone,
		contact.PasswordHash,
		contact.CreatedAt,
	)

	mock.ExpectQuery(`SELECT .*FROM contacts`).WithArgs("id-1").WillReturnRows(rows)

	fetched, err := repo.Get(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if fetched.UserName != contact.UserName || fetched.Email != contact.Email {
		t.Fatalf("unexpected contact: %+v", fetched)
	}
}

func TestContactRepository_MergeUnknownID(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec(`UPDATE contacts`).
		WithArgs(
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	contact := sampleContact()
	contact.ID = "unknown"

	_, err := repo.Merge(context.Background(), contact)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContactRepository_RemoveIgnoresMissingRow(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM contacts`).
		WithArgs("gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Remove(context.Background(), "gone"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
}
