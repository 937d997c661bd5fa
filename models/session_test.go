package models

import (
	"testing"
	"time"
)

func TestSession_Authenticated(t *testing.T) {
	var s Session
	if s.Authenticated() {
		t.Error("zero session should not be authenticated")
	}

	s = Session{Token: "tok"}
	if s.Authenticated() {
		t.Error("session without identity should not be authenticated")
	}

	s = Session{User: &User{ID: 1}, Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	if !s.Authenticated() {
		t.Error("session with identity and token should be authenticated")
	}
}

func TestSession_Clone(t *testing.T) {
	original := Session{
		User:      &User{ID: 1, Email: "a@b.com", FirstName: "A"},
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	clone := original.Clone()
	clone.User.FirstName = "changed"

	if original.User.FirstName != "A" {
		t.Error("mutating the clone must not affect the original")
	}
}
