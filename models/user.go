// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model nedir?
// Backend API'sinden gelen/giden verilerin Go karşılığıdır.
// `json:"email"` gibi tag'ler, struct field'larının JSON'a nasıl
// serialize/deserialize edileceğini belirler.
package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// UserRole, kullanıcının platform üzerindeki rolünü temsil eder.
// Go'da enum yoktur, bunun yerine typed constant'lar kullanılır.
type UserRole string

// İzin verilen UserRole değerleri.
// Self-service kayıtlar her zaman RolePassenger ile açılır —
// diğer roller backend tarafında atanır.
const (
	RolePassenger UserRole = "PASSENGER"
	RoleDriver    UserRole = "DRIVER"
	RoleAdmin     UserRole = "ADMIN"
)

// User, oturum açmış kullanıcının kimliğini temsil eder.
// Token'dan veya login yanıtından türetilir — backend'in user
// mikroservisindeki kaydın denormalize edilmiş halidir.
type User struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Role      UserRole `json:"role"`
}

// FullName, görüntülenecek tam ismi döner.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// LoginRequest, giriş yaparken backend'e gönderilen veri.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate, LoginRequest'in geçerli olup olmadığını kontrol eder.
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// LoginResponse, başarılı login sonrası backend'den dönen veri.
// Token ile birlikte kimlik alanları da düz (flat) gelir.
type LoginResponse struct {
	Token     string   `json:"token"`
	UserID    int64    `json:"userId"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
}

// User, login yanıtındaki kimlik alanlarından bir User oluşturur.
func (r *LoginResponse) User() *User {
	return &User{
		ID:        r.UserID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      r.Role,
	}
}

// RegisterRequest, kayıt olurken backend'e gönderilen veri.
// Role alanı client tarafında her zaman RolePassenger'a zorlanır —
// kayıt ve login birbirinden bağımsızdır, kayıt oturum açmaz.
type RegisterRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Role      UserRole `json:"role"`
}

// Validate, RegisterRequest'in geçerli olup olmadığını kontrol eder.
// Validation kuralları:
//   - Email: boş olamaz, '@' içermeli (asıl doğrulama backend'de)
//   - Password: minimum 8 karakter
//   - FirstName/LastName: boş olamaz, max 64 karakter
func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}

	if utf8.RuneCountInString(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	if r.FirstName == "" || r.LastName == "" {
		return fmt.Errorf("first and last name are required")
	}
	if utf8.RuneCountInString(r.FirstName) > 64 || utf8.RuneCountInString(r.LastName) > 64 {
		return fmt.Errorf("name fields must be at most 64 characters")
	}

	return nil
}

// UpdateProfileRequest, profil düzenleme için kısmi kimlik alanları.
// Pointer field'lar "gönderilmedi" ile "boş gönderildi" ayrımını sağlar.
// Token'a asla dokunmaz — sadece kimlik alanları güncellenir.
type UpdateProfileRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}
