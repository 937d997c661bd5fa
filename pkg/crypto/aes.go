// Package crypto — AES-256-GCM şifreleme/çözümleme fonksiyonları.
//
// Diskte saklanan bearer token gibi hassas verileri şifrelenmiş tutmak
// için kullanılır. Anahtar, kullanıcının passphrase'inden scrypt ile
// türetilir — passphrase değişirse eski kayıtlar çözülemez, yeniden
// login gerekir.
//
// AES-256-GCM:
// - AES-256: 256-bit anahtar ile symmetric encryption
// - GCM: hem gizlilik hem bütünlük sağlar (authenticated encryption)
// - Nonce: her şifreleme için rastgele 12 byte — aynı key ile bile
//   her ciphertext farklı olur
//
// Kullanım:
//
//	key, _ := crypto.DeriveKey("passphrase", salt)
//	encrypted, _ := crypto.Encrypt("secret", key)
//	decrypted, _ := crypto.Decrypt(encrypted, key)
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// scrypt parametreleri — interaktif kullanım için önerilen değerler.
// N düşürülürse türetme hızlanır ama brute-force da kolaylaşır.
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	keyLen       = 32 // AES-256
	nonceLenGCM  = 12
	saltLenBytes = 16
)

// NewSalt, rastgele bir KDF salt'ı üretir.
// Salt gizli değildir — şifreli veriyle birlikte saklanabilir.
func NewSalt() ([]byte, error) {
	salt := make([]byte, saltLenBytes)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey, passphrase'den 32-byte AES-256 anahtarı türetir (scrypt).
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase must not be empty")
	}
	if len(salt) != saltLenBytes {
		return nil, fmt.Errorf("salt must be exactly %d bytes, got %d", saltLenBytes, len(salt))
	}

	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// Encrypt, plaintext'i AES-256-GCM ile şifreler.
// Çıktı: base64(nonce || ciphertext).
func Encrypt(plaintext string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, nonceLenGCM)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt, Encrypt'in çıktısını çözer.
// Yanlış anahtar veya bozulmuş veri → hata (GCM authentication fail).
func Decrypt(encoded string, key []byte) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid base64 ciphertext: %w", err)
	}
	if len(data) < nonceLenGCM {
		return "", fmt.Errorf("ciphertext too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce, ciphertext := data[:nonceLenGCM], data[nonceLenGCM:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}
