package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/bazi/pkg/domain"
	"github.com/aretw0/bazi/pkg/ports"
)

// envelopePrefix marks an encrypted input_birth.
const envelopePrefix = "enc:v1:"

// ErrKeySize is returned for keys that are not 32 bytes.
var ErrKeySize = errors.New("encryption key must be 32 bytes (AES-256)")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

// Validate checks every key length.
func (c EncryptionConfig) Validate() error {
	if len(c.ActiveKey) != 32 {
		return ErrKeySize
	}
	for i, k := range c.FallbackKeys {
		if len(k) != 32 {
			return fmt.Errorf("fallback key %d: %w", i, ErrKeySize)
		}
	}
	return nil
}

type encryptionMiddleware struct {
	next   ports.ReadingRecorder
	config EncryptionConfig
}

// sealed is the plaintext of an envelope.
type sealed struct {
	Birth  string `json:"b"`
	Gender string `json:"g"`
}

// NewEncryptionMiddleware creates a middleware that encrypts the caller-supplied
// fields of each record using AES-GCM. The stored record keeps its chart and
// analysis; input_birth holds the envelope and gender is cleared.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return func(next ports.ReadingRecorder) ports.ReadingRecorder {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}, nil
}

func (m *encryptionMiddleware) Record(ctx context.Context, rec *domain.ReadingRecord) error {
	// 1. Serialize the sensitive fields
	plainText, err := json.Marshal(sealed{Birth: rec.Reading.InputBirth, Gender: rec.Gender})
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	// 2. Encrypt
	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt record: %w", err)
	}

	// 3. Create envelope
	envelope := *rec
	envelope.Reading.InputBirth = envelopePrefix + base64.StdEncoding.EncodeToString(ciphertext)
	envelope.Gender = ""

	return m.next.Record(ctx, &envelope)
}

func (m *encryptionMiddleware) Get(ctx context.Context, id string) (*domain.ReadingRecord, error) {
	rec, err := m.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.open(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (m *encryptionMiddleware) Recent(ctx context.Context, limit int) ([]domain.ReadingRecord, error) {
	records, err := m.next.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if err := m.open(&records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// open decrypts rec in place.
func (m *encryptionMiddleware) open(rec *domain.ReadingRecord) error {
	encryptedStr, ok := strings.CutPrefix(rec.Reading.InputBirth, envelopePrefix)
	if !ok {
		// Fail secure: with encryption configured every record must be sealed.
		return fmt.Errorf("record %s is missing encrypted data envelope", rec.ID)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encryptedStr)
	if err != nil {
		return fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	// Try Active, then Fallback
	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return fmt.Errorf("failed to decrypt record %s: %w", rec.ID, err)
	}

	var s sealed
	if err := json.Unmarshal(plainText, &s); err != nil {
		return fmt.Errorf("failed to unmarshal decrypted record: %w", err)
	}
	rec.Reading.InputBirth = s.Birth
	rec.Gender = s.Gender
	return nil
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}

// ParseKey decodes a base64 (standard or URL alphabet) or 64-char hex key.
func ParseKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		if k, err := enc.DecodeString(s); err == nil && len(k) == 32 {
			return k, nil
		}
	}
	if len(s) == 64 {
		if k, err := hex.DecodeString(s); err == nil {
			return k, nil
		}
	}
	return nil, ErrKeySize
}
