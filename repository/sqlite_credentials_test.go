package repository

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/akinalp/durak/database"
	"github.com/akinalp/durak/models"
	"github.com/akinalp/durak/pkg"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		t.Fatalf("failed to open embedded migrations: %v", err)
	}

	db, err := database.New(filepath.Join(t.TempDir(), "state.db"), migrations)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteCredentialRepo_TokenRoundtrip(t *testing.T) {
	ctx := context.Background()

	t.Run("plaintext when no passphrase", func(t *testing.T) {
		repo := NewSQLiteCredentialRepo(newTestDB(t).Conn, "")

		if err := repo.SaveToken(ctx, "tok-abc"); err != nil {
			t.Fatalf("SaveToken returned error: %v", err)
		}
		got, err := repo.LoadToken(ctx)
		if err != nil {
			t.Fatalf("LoadToken returned error: %v", err)
		}
		if got != "tok-abc" {
			t.Errorf("expected tok-abc, got %q", got)
		}
	})

	t.Run("encrypted at rest with passphrase", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewSQLiteCredentialRepo(db.Conn, "hunter2-hunter2")

		if err := repo.SaveToken(ctx, "tok-secret"); err != nil {
			t.Fatalf("SaveToken returned error: %v", err)
		}

		// Disk'teki satır düz metin token içermemeli.
		var stored string
		if err := db.Conn.QueryRow(`SELECT token FROM credentials WHERE id = 1`).Scan(&stored); err != nil {
			t.Fatalf("failed to read raw row: %v", err)
		}
		if stored == "tok-secret" {
			t.Fatal("token must not be stored in plaintext when a passphrase is set")
		}

		got, err := repo.LoadToken(ctx)
		if err != nil {
			t.Fatalf("LoadToken returned error: %v", err)
		}
		if got != "tok-secret" {
			t.Errorf("expected tok-secret, got %q", got)
		}
	})

	t.Run("save overwrites previous token", func(t *testing.T) {
		repo := NewSQLiteCredentialRepo(newTestDB(t).Conn, "")

		if err := repo.SaveToken(ctx, "first"); err != nil {
			t.Fatalf("SaveToken returned error: %v", err)
		}
		if err := repo.SaveToken(ctx, "second"); err != nil {
			t.Fatalf("SaveToken returned error: %v", err)
		}

		got, err := repo.LoadToken(ctx)
		if err != nil {
			t.Fatalf("LoadToken returned error: %v", err)
		}
		if got != "second" {
			t.Errorf("expected second, got %q", got)
		}
	})

	t.Run("missing token returns ErrNotFound", func(t *testing.T) {
		repo := NewSQLiteCredentialRepo(newTestDB(t).Conn, "")

		if _, err := repo.LoadToken(ctx); !errors.Is(err, pkg.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("encrypted token without passphrase fails loudly", func(t *testing.T) {
		db := newTestDB(t)

		writer := NewSQLiteCredentialRepo(db.Conn, "passphrase")
		if err := writer.SaveToken(ctx, "tok"); err != nil {
			t.Fatalf("SaveToken returned error: %v", err)
		}

		reader := NewSQLiteCredentialRepo(db.Conn, "")
		if _, err := reader.LoadToken(ctx); err == nil {
			t.Fatal("expected error when reading encrypted token without passphrase")
		}
	})
}

func TestSQLiteCredentialRepo_UserRoundtrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteCredentialRepo(newTestDB(t).Conn, "")

	user := &models.User{
		ID:        42,
		Email:     "ayse@example.com",
		FirstName: "Ayşe",
		LastName:  "Yılmaz",
		Role:      models.RolePassenger,
	}

	if err := repo.SaveUser(ctx, user); err != nil {
		t.Fatalf("SaveUser returned error: %v", err)
	}

	got, err := repo.LoadUser(ctx)
	if err != nil {
		t.Fatalf("LoadUser returned error: %v", err)
	}
	if *got != *user {
		t.Errorf("expected %+v, got %+v", user, got)
	}
}

func TestSQLiteCredentialRepo_Clear(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteCredentialRepo(newTestDB(t).Conn, "")

	if err := repo.SaveToken(ctx, "tok"); err != nil {
		t.Fatalf("SaveToken returned error: %v", err)
	}
	if err := repo.SaveUser(ctx, &models.User{ID: 1}); err != nil {
		t.Fatalf("SaveUser returned error: %v", err)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	if _, err := repo.LoadToken(ctx); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected token to be gone, got %v", err)
	}
	if _, err := repo.LoadUser(ctx); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected identity to be gone, got %v", err)
	}
}
