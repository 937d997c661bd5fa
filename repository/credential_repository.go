// Package repository, persist edilen client durumuna erişim katmanıdır.
//
// Repository Pattern: üst katmanlar (services) concrete SQLite koduna
// değil, buradaki interface'lere bağımlıdır. Testlerde in-memory
// implementasyon kullanılır, production'da SQLite.
package repository

import (
	"context"

	"github.com/akinalp/durak/models"
)

// CredentialRepository, persist edilen token ve kimlik bilgisi için
// interface. Browser'daki localStorage "token" / "user" key'lerinin
// karşılığıdır.
//
// Yazma yetkisi yalnızca SessionService'e aittir; diğer bileşenler
// sadece SessionService üzerinden snapshot okur.
type CredentialRepository interface {
	SaveToken(ctx context.Context, token string) error
	// LoadToken, kayıtlı token'ı döner; kayıt yoksa pkg.ErrNotFound.
	LoadToken(ctx context.Context) (string, error)
	DeleteToken(ctx context.Context) error

	SaveUser(ctx context.Context, user *models.User) error
	// LoadUser, kayıtlı kimliği döner; kayıt yoksa pkg.ErrNotFound.
	LoadUser(ctx context.Context) (*models.User, error)
	DeleteUser(ctx context.Context) error

	// Clear, token ve kimliği atomik olarak birlikte siler.
	// Logout ve expiry yolunda kullanılır — yarım silinmiş durum,
	// "token var ama kimlik yok" gibi tutarsızlıklar üretir.
	Clear(ctx context.Context) error
}
