package redisdoc

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"

	"github.com/arklim/contacts-service/internal/core/domain"
	"github.com/arklim/contacts-service/internal/repository"
)

func newTestRepo(t *testing.T) (*ContactRepository, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := red.NewClient(&red.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return NewContactRepository(client, "contacts"), server
}

func newContact(userName, email string) domain.Contact {
	dob, _ := time.Parse(domain.DOBFormat, "01/01/1990")
	return domain.Contact{
		UserName:     userName,
		Name:         "Alice",
		Email:        email,
		Type:         domain.ContactTypeFriend,
		DOB:          dob,
		Phone:        "+123456789",
		PasswordHash: "argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestPersistAndGetRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	stored, err := repo.Persist(ctx, newContact("alicee", "alice@x.com"))
	if err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected assigned id")
	}

	fetched, err := repo.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if fetched.UserName != "alicee" || fetched.Email != "alice@x.com" {
		t.Fatalf("unexpected contact: %+v", fetched)
	}
	if !fetched.DOB.Equal(stored.DOB) {
		t.Fatalf("dob changed across round trip: %v vs %v", fetched.DOB, stored.DOB)
	}
}

func TestPersistDuplicateUserNameConflicts(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Persist(ctx, newContact("alicee", "alice@x.com")); err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}

	_, err := repo.Persist(ctx, newContact("alicee", "other@x.com"))
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestPersistDuplicateEmailReleasesUserNameClaim(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Persist(ctx, newContact("alicee", "alice@x.com")); err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}

	_, err := repo.Persist(ctx, newContact("bobbyy", "alice@x.com"))
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// The username claim from the failed persist must not linger.
	if _, err := repo.Persist(ctx, newContact("bobbyy", "bob@x.com")); err != nil {
		t.Fatalf("expected username to be free again, got %v", err)
	}
}

func TestGetByUserNameAndEmail(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	stored, err := repo.Persist(ctx, newContact("alicee", "alice@x.com"))
	if err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}

	byName, err := repo.GetByUserName(ctx, "alicee")
	if err != nil {
		t.Fatalf("GetByUserName returned error: %v", err)
	}
	if byName.ID != stored.ID {
		t.Fatalf("expected id %s, got %s", stored.ID, byName.ID)
	}

	byEmail, err := repo.GetByEmail(ctx, "ALICE@x.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if byEmail.ID != stored.ID {
		t.Fatalf("expected id %s, got %s", stored.ID, byEmail.ID)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@x.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindKeepsInsertionOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	names := []string{"alicee", "bobbyy", "carlaa"}
	for _, name := range names {
		if _, err := repo.Persist(ctx, newContact(name, name+"@x.com")); err != nil {
			t.Fatalf("Persist returned error: %v", err)
		}
	}

	contacts, err := repo.Find(ctx)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if len(contacts) != len(names) {
		t.Fatalf("expected %d contacts, got %d", len(names), len(contacts))
	}
	for i, name := range names {
		if contacts[i].UserName != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, contacts[i].UserName)
		}
	}
}

func TestMergeMovesIndexKeys(t *testing.T) {
	repo, server := newTestRepo(t)
	ctx := context.Background()

	stored, err := repo.Persist(ctx, newContact("alicee", "alice@x.com"))
	if err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}

	updated := *stored
	updated.UserName = "alicia"

	if _, err := repo.Merge(ctx, updated); err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}

	if server.Exists("contacts:username:alicee") {
		t.Fatal("old username index key should be gone")
	}

	byName, err := repo.GetByUserName(ctx, "alicia")
	if err != nil {
		t.Fatalf("GetByUserName returned error: %v", err)
	}
	if byName.ID != stored.ID {
		t.Fatalf("expected id %s, got %s", stored.ID, byName.ID)
	}
}

func TestMergeMixedConflictLeavesIndexesIntact(t *testing.T) {
	repo, server := newTestRepo(t)
	ctx := context.Background()

	alice, err := repo.Persist(ctx, newContact("alicee", "alice@x.com"))
	if err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}
	if _, err := repo.Persist(ctx, newContact("bobbyy", "bob@x.com")); err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}

	// The renamed userName is free, but the email belongs to bob. The
	// rejected merge must release the fresh username claim and keep the
	// old index entry resolvable.
	updated := *alice
	updated.UserName = "renamed"
	updated.Email = "bob@x.com"
	if _, err := repo.Merge(ctx, updated); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	fetched, err := repo.GetByUserName(ctx, "alicee")
	if err != nil {
		t.Fatalf("GetByUserName after failed merge returned error: %v", err)
	}
	if fetched.ID != alice.ID || fetched.Email != "alice@x.com" {
		t.Fatalf("unexpected contact after failed merge: %+v", fetched)
	}

	if server.Exists("contacts:username:renamed") {
		t.Fatal("expected username claim from failed merge to be released")
	}
	if _, err := repo.GetByUserName(ctx, "renamed"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for never-applied userName, got %v", err)
	}
}

func TestMergeUnknownIDReturnsNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	contact := newContact("alicee", "alice@x.com")
	contact.ID = "missing"

	if _, err := repo.Merge(context.Background(), contact); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveIsIdempotentAndCleansIndexes(t *testing.T) {
	repo, server := newTestRepo(t)
	ctx := context.Background()

	stored, err := repo.Persist(ctx, newContact("alicee", "alice@x.com"))
	if err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}

	if err := repo.Remove(ctx, stored.ID); err != nil {
		t.Fatalf("first Remove returned error: %v", err)
	}
	if err := repo.Remove(ctx, stored.ID); err != nil {
		t.Fatalf("second Remove returned error: %v", err)
	}

	if server.Exists("contacts:username:alicee") || server.Exists("contacts:email:alice@x.com") {
		t.Fatal("index keys should be removed")
	}

	if _, err := repo.Get(ctx, stored.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}

	contacts, err := repo.Find(ctx)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if len(contacts) != 0 {
		t.Fatalf("expected empty listing, got %d", len(contacts))
	}
}
