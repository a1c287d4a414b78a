package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/medspa/internal/favorites"
	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
	"github.com/google/go-cmp/cmp"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestKVRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Load Missing", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t))

		data, ok, err := repo.Load(ctx, "nope")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || data != nil {
			t.Error("expected missing key")
		}
	})

	t.Run("Save And Load", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t))

		if err := repo.Save(ctx, "favorites", []byte(`[{"id":"m1"}]`)); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		data, ok, err := repo.Load(ctx, "favorites")
		if err != nil || !ok {
			t.Fatalf("expected key, got ok=%v err=%v", ok, err)
		}
		if string(data) != `[{"id":"m1"}]` {
			t.Errorf("unexpected value %s", data)
		}
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t))

		if err := repo.Save(ctx, "k", []byte("one")); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if err := repo.Save(ctx, "k", []byte("two")); err != nil {
			t.Fatalf("failed to overwrite: %v", err)
		}

		data, _, _ := repo.Load(ctx, "k")
		if string(data) != "two" {
			t.Errorf("expected overwritten value, got %s", data)
		}
	})

	t.Run("Delete And Keys", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t))
		for _, k := range []string{"favorites:b", "favorites:a", "other"} {
			if err := repo.Save(ctx, k, []byte("[]")); err != nil {
				t.Fatalf("failed to save %s: %v", k, err)
			}
		}

		keys, err := repo.Keys(ctx, "favorites:")
		if err != nil {
			t.Fatalf("failed to list keys: %v", err)
		}
		if diff := cmp.Diff([]string{"favorites:a", "favorites:b"}, keys); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}

		if err := repo.Delete(ctx, "favorites:a"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if err := repo.Delete(ctx, "favorites:a"); err != nil {
			t.Errorf("deleting a missing key should not fail: %v", err)
		}
		if _, ok, _ := repo.Load(ctx, "favorites:a"); ok {
			t.Error("expected key to be deleted")
		}
	})

	t.Run("Backs A Favorites Store", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t))
		key := favorites.OwnerKey("u1")

		store := favorites.NewStore(repo, key, nil)
		store.Initialize(ctx)
		if _, err := store.Add(ctx, models.Favorite{ID: "m1", Name: "Spa A"}); err != nil {
			t.Fatalf("failed to add: %v", err)
		}

		reloaded := favorites.NewStore(repo, key, nil)
		reloaded.Initialize(ctx)
		if !reloaded.Contains("m1") {
			t.Error("expected favorite to survive reload from sqlite")
		}
	})
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := &models.Session{UserID: "u1", AccessToken: "at"}

		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		if session.ID == "" {
			t.Error("session ID should be set after creation")
		}
		if session.CreatedAt.IsZero() {
			t.Error("session CreatedAt should be set after creation")
		}
	})

	t.Run("Create Validation", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		for name, s := range map[string]*models.Session{
			"missing user":  {AccessToken: "at"},
			"missing token": {UserID: "u1"},
		} {
			t.Run(name, func(t *testing.T) {
				if err := repo.Create(ctx, s); !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
		session := &models.Session{UserID: "u1", AccessToken: "at", RefreshToken: "rt", ExpiresAt: expires}
		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		got, err := repo.Get(ctx, session.ID)
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if got.UserID != "u1" || got.AccessToken != "at" || got.RefreshToken != "rt" {
			t.Errorf("unexpected session %+v", got)
		}
		if !got.ExpiresAt.Equal(expires) {
			t.Errorf("expected expiry %v, got %v", expires, got.ExpiresAt)
		}
	})

	t.Run("Get NotFound", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		if _, err := repo.Get(ctx, "nonexistent"); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Get Expired", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := &models.Session{UserID: "u1", AccessToken: "at", ExpiresAt: time.Now().Add(-time.Hour)}
		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		if _, err := repo.Get(ctx, session.ID); !errors.Is(err, shared.ErrSessionExpired) {
			t.Errorf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		session := &models.Session{UserID: "u1", AccessToken: "at"}
		if err := repo.Create(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if err := repo.Delete(ctx, session.ID); err != nil {
			t.Fatalf("failed to delete session: %v", err)
		}
		if err := repo.Delete(ctx, session.ID); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound on second delete, got %v", err)
		}
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		for _, s := range []*models.Session{
			{UserID: "u1", AccessToken: "a", ExpiresAt: time.Now().Add(-time.Hour)},
			{UserID: "u2", AccessToken: "b", ExpiresAt: time.Now().Add(time.Hour)},
			{UserID: "u3", AccessToken: "c"},
		} {
			if err := repo.Create(ctx, s); err != nil {
				t.Fatalf("failed to create session: %v", err)
			}
		}

		n, err := repo.DeleteExpired(ctx, time.Now())
		if err != nil {
			t.Fatalf("failed to delete expired: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 expired session removed, got %d", n)
		}
	})
}
