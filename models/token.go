package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims, JWT token'ın içindeki veriler (payload).
//
// Client token'ı DOĞRULAMAZ — imza anahtarı backend'dedir.
// Sadece payload'ı çözer: kimlik alanlarını ve expiry'yi okumak için.
// Token'ın gerçekten geçerli olup olmadığına her zaman backend karar verir;
// client'taki çözümleme yalnızca "yeniden login gerekli mi" sorusuna yanıt verir.
type TokenClaims struct {
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	jwt.RegisteredClaims
}

// DecodeToken, bearer token'ın payload'ını imza doğrulaması YAPMADAN çözer.
// Bozuk veya payload'ı eksik token'lar için hata döner.
func DecodeToken(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parser := jwt.NewParser()

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("token carries no expiry")
	}

	return claims, nil
}

// Expired, token'ın verilen ana göre süresinin dolup dolmadığını döner.
func (c *TokenClaims) Expired(now time.Time) bool {
	return c.ExpiresAt == nil || !now.Before(c.ExpiresAt.Time)
}

// User, claim'lerdeki kimlik alanlarından bir User oluşturur.
// Ayrıca persist edilmiş kimlik yoksa startup'ta fallback olarak kullanılır —
// token'ın taşımadığı alanlar boş kalır.
func (c *TokenClaims) User() (*User, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim %q: %w", c.Subject, err)
	}

	return &User{
		ID:        id,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Role:      c.Role,
	}, nil
}
