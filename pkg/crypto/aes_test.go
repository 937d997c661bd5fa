package crypto

import (
	"bytes"
	"testing"
)

func TestEncryptDecrypt(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt returned error: %v", err)
	}
	key, err := DeriveKey("correct horse battery staple", salt)
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}

	t.Run("roundtrip preserves plaintext", func(t *testing.T) {
		const plaintext = "eyJhbGciOiJIUzI1NiJ9.payload.sig"

		ciphertext, err := Encrypt(plaintext, key)
		if err != nil {
			t.Fatalf("Encrypt returned error: %v", err)
		}
		if ciphertext == plaintext {
			t.Fatal("ciphertext must differ from plaintext")
		}

		got, err := Decrypt(ciphertext, key)
		if err != nil {
			t.Fatalf("Decrypt returned error: %v", err)
		}
		if got != plaintext {
			t.Errorf("expected %q, got %q", plaintext, got)
		}
	})

	t.Run("wrong key fails to decrypt", func(t *testing.T) {
		ciphertext, err := Encrypt("secret", key)
		if err != nil {
			t.Fatalf("Encrypt returned error: %v", err)
		}

		wrongKey, err := DeriveKey("wrong passphrase", salt)
		if err != nil {
			t.Fatalf("DeriveKey returned error: %v", err)
		}
		if _, err := Decrypt(ciphertext, wrongKey); err == nil {
			t.Fatal("expected decryption with wrong key to fail")
		}
	})

	t.Run("tampered ciphertext fails to decrypt", func(t *testing.T) {
		if _, err := Decrypt("bm90LXZhbGlkLWNpcGhlcnRleHQ", key); err == nil {
			t.Fatal("expected decryption of garbage to fail")
		}
	})
}

func TestDeriveKey(t *testing.T) {
	salt1, _ := NewSalt()
	salt2, _ := NewSalt()
	if bytes.Equal(salt1, salt2) {
		t.Fatal("two fresh salts should not match")
	}

	k1, err := DeriveKey("passphrase", salt1)
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	k2, err := DeriveKey("passphrase", salt2)
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}

	if bytes.Equal(k1, k2) {
		t.Error("same passphrase with different salts must derive different keys")
	}

	k1Again, err := DeriveKey("passphrase", salt1)
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	if !bytes.Equal(k1, k1Again) {
		t.Error("key derivation must be deterministic for the same salt")
	}
}
