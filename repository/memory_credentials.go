package repository

import (
	"context"
	"sync"

	"github.com/akinalp/durak/models"
	"github.com/akinalp/durak/pkg"
)

// MemoryCredentialRepo, CredentialRepository'nin in-memory
// implementasyonu. Testlerde ve --ephemeral kipte (diske hiçbir şey
// yazmadan çalıştırma) kullanılır.
type MemoryCredentialRepo struct {
	mu    sync.RWMutex
	token string
	user  *models.User
}

// NewMemoryCredentialRepo, constructor.
func NewMemoryCredentialRepo() *MemoryCredentialRepo {
	return &MemoryCredentialRepo{}
}

func (r *MemoryCredentialRepo) SaveToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = token
	return nil
}

func (r *MemoryCredentialRepo) LoadToken(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.token == "" {
		return "", pkg.ErrNotFound
	}
	return r.token, nil
}

func (r *MemoryCredentialRepo) DeleteToken(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = ""
	return nil
}

func (r *MemoryCredentialRepo) SaveUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	r.user = &u
	return nil
}

func (r *MemoryCredentialRepo) LoadUser(_ context.Context) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.user == nil {
		return nil, pkg.ErrNotFound
	}
	u := *r.user
	return &u, nil
}

func (r *MemoryCredentialRepo) DeleteUser(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = nil
	return nil
}

func (r *MemoryCredentialRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = ""
	r.user = nil
	return nil
}
