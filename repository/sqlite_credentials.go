package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akinalp/durak/database"
	"github.com/akinalp/durak/models"
	"github.com/akinalp/durak/pkg"
	"github.com/akinalp/durak/pkg/crypto"
)

// sqliteCredentialRepo, CredentialRepository'nin SQLite implementasyonu.
//
// Tek kullanıcılık client olduğu için credentials ve identity
// tablolarında en fazla bir satır bulunur (id = 1).
//
// passphrase boş değilse token disk'e AES-256-GCM ile şifrelenmiş
// yazılır; anahtar her kayıtta üretilen taze salt ile scrypt'ten
// türetilir ve salt satırla birlikte saklanır.
type sqliteCredentialRepo struct {
	conn       *sql.DB
	passphrase string
}

// NewSQLiteCredentialRepo, constructor.
// passphrase boş geçilirse token düz metin saklanır; paylaşılan
// makinelerde STATE_PASSPHRASE set edilmesi önerilir.
func NewSQLiteCredentialRepo(conn *sql.DB, passphrase string) CredentialRepository {
	return &sqliteCredentialRepo{conn: conn, passphrase: passphrase}
}

func (r *sqliteCredentialRepo) SaveToken(ctx context.Context, token string) error {
	stored := token
	encrypted := 0
	var salt []byte

	if r.passphrase != "" {
		var err error
		salt, err = crypto.NewSalt()
		if err != nil {
			return err
		}
		key, err := crypto.DeriveKey(r.passphrase, salt)
		if err != nil {
			return err
		}
		stored, err = crypto.Encrypt(token, key)
		if err != nil {
			return fmt.Errorf("failed to encrypt token: %w", err)
		}
		encrypted = 1
	}

	// UPSERT — satır varsa üzerine yaz, yoksa oluştur.
	_, err := r.conn.ExecContext(ctx, `
		INSERT INTO credentials (id, token, encrypted, kdf_salt, saved_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			encrypted = excluded.encrypted,
			kdf_salt = excluded.kdf_salt,
			saved_at = excluded.saved_at`,
		stored, encrypted, salt,
	)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (r *sqliteCredentialRepo) LoadToken(ctx context.Context) (string, error) {
	var (
		stored    string
		encrypted int
		salt      []byte
	)

	err := r.conn.QueryRowContext(ctx,
		`SELECT token, encrypted, kdf_salt FROM credentials WHERE id = 1`,
	).Scan(&stored, &encrypted, &salt)

	if errors.Is(err, sql.ErrNoRows) {
		return "", pkg.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}

	if encrypted == 0 {
		return stored, nil
	}

	if r.passphrase == "" {
		return "", fmt.Errorf("stored token is encrypted but no passphrase is configured")
	}
	key, err := crypto.DeriveKey(r.passphrase, salt)
	if err != nil {
		return "", err
	}
	token, err := crypto.Decrypt(stored, key)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt stored token: %w", err)
	}
	return token, nil
}

func (r *sqliteCredentialRepo) DeleteToken(ctx context.Context) error {
	if _, err := r.conn.ExecContext(ctx, `DELETE FROM credentials WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (r *sqliteCredentialRepo) SaveUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}

	_, err = r.conn.ExecContext(ctx, `
		INSERT INTO identity (id, user_json, saved_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			user_json = excluded.user_json,
			saved_at = excluded.saved_at`,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save identity: %w", err)
	}
	return nil
}

func (r *sqliteCredentialRepo) LoadUser(ctx context.Context) (*models.User, error) {
	var data string

	err := r.conn.QueryRowContext(ctx,
		`SELECT user_json FROM identity WHERE id = 1`,
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}

	user := &models.User{}
	if err := json.Unmarshal([]byte(data), user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal identity: %w", err)
	}
	return user, nil
}

func (r *sqliteCredentialRepo) DeleteUser(ctx context.Context) error {
	if _, err := r.conn.ExecContext(ctx, `DELETE FROM identity WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}

func (r *sqliteCredentialRepo) Clear(ctx context.Context) error {
	return database.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM credentials WHERE id = 1`); err != nil {
			return fmt.Errorf("failed to clear token: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM identity WHERE id = 1`); err != nil {
			return fmt.Errorf("failed to clear identity: %w", err)
		}
		return nil
	})
}
