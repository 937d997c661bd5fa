package models

import (
	"strings"
	"testing"
)

func TestLoginRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     LoginRequest
		wantErr bool
	}{
		{"valid", LoginRequest{Email: "a@b.com", Password: "secret"}, false},
		{"trims email whitespace", LoginRequest{Email: "  a@b.com  ", Password: "secret"}, false},
		{"missing email", LoginRequest{Password: "secret"}, true},
		{"missing password", LoginRequest{Email: "a@b.com"}, true},
		{"whitespace-only email", LoginRequest{Email: "   ", Password: "secret"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{
			Email:     "yolcu@example.com",
			Password:  "password123",
			FirstName: "Deniz",
			LastName:  "Kaya",
		}
	}

	t.Run("valid request", func(t *testing.T) {
		req := valid()
		if err := req.Validate(); err != nil {
			t.Fatalf("Validate() returned error: %v", err)
		}
	})

	t.Run("email must contain @", func(t *testing.T) {
		req := valid()
		req.Email = "not-an-email"
		if err := req.Validate(); err == nil {
			t.Fatal("expected error for email without @")
		}
	})

	t.Run("password must be at least 8 characters", func(t *testing.T) {
		req := valid()
		req.Password = "1234567"
		if err := req.Validate(); err == nil {
			t.Fatal("expected error for short password")
		}
	})

	t.Run("8 runes of multibyte characters pass", func(t *testing.T) {
		req := valid()
		req.Password = "şifreler" // 8 rune, >8 byte
		if err := req.Validate(); err != nil {
			t.Fatalf("Validate() returned error: %v", err)
		}
	})

	t.Run("names are required", func(t *testing.T) {
		req := valid()
		req.FirstName = "  "
		if err := req.Validate(); err == nil {
			t.Fatal("expected error for blank first name")
		}
	})

	t.Run("names are capped at 64 characters", func(t *testing.T) {
		req := valid()
		req.LastName = strings.Repeat("x", 65)
		if err := req.Validate(); err == nil {
			t.Fatal("expected error for oversized last name")
		}
	})
}

func TestUser_FullName(t *testing.T) {
	u := &User{FirstName: "Deniz", LastName: "Kaya"}
	if got := u.FullName(); got != "Deniz Kaya" {
		t.Errorf("expected \"Deniz Kaya\", got %q", got)
	}

	u = &User{FirstName: "Deniz"}
	if got := u.FullName(); got != "Deniz" {
		t.Errorf("expected \"Deniz\", got %q", got)
	}
}
