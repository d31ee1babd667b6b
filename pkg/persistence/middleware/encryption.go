package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rejoice-framework/menuflow/pkg/domain"
	"github.com/rejoice-framework/menuflow/pkg/ports"
)

const envelopeKey = "__encrypted__"

// EncryptionConfig holds the keys for at-rest session encryption.
type EncryptionConfig struct {
	// ActiveKey encrypts new data. Must be 32 bytes (AES-256).
	ActiveKey []byte

	// FallbackKeys are old keys tried when decryption with the active one
	// fails, enabling zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionStore struct {
	next   ports.SessionStore
	config EncryptionConfig
}

// NewEncryption builds a middleware that stores sessions as AES-GCM
// envelopes. The timestamps stay in the clear so first-contact expiry still
// works without decrypting; everything else, including which menu the
// subscriber is on, is hidden from the backend.
func NewEncryption(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &encryptionStore{next: next, config: config}
	}
}

func (m *encryptionStore) Save(ctx context.Context, msisdn string, state *domain.SessionState) error {
	plain, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	ciphertext, err := encrypt(plain, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("encrypting session: %w", err)
	}

	envelope := domain.NewSessionState(state.UpdatedAt)
	envelope.CreatedAt = state.CreatedAt
	envelope.UpdatedAt = state.UpdatedAt
	envelope.Developer = map[string]any{
		envelopeKey: base64.StdEncoding.EncodeToString(ciphertext),
	}
	return m.next.Save(ctx, msisdn, envelope)
}

func (m *encryptionStore) Load(ctx context.Context, msisdn string) (*domain.SessionState, error) {
	envelope, err := m.next.Load(ctx, msisdn)
	if err != nil {
		return nil, err
	}

	encoded, ok := envelope.Developer[envelopeKey].(string)
	if !ok {
		// Fail closed: with encryption configured, a plaintext document in
		// the backend is never trusted.
		return nil, errors.New("session is missing its encrypted envelope")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}

	plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("decrypting session: %w", err)
	}

	var state domain.SessionState
	if err := json.Unmarshal(plain, &state); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &state, nil
}

func (m *encryptionStore) Delete(ctx context.Context, msisdn string) error {
	return m.next.Delete(ctx, msisdn)
}

func (m *encryptionStore) Exists(ctx context.Context, msisdn string) (bool, error) {
	return m.next.Exists(ctx, msisdn)
}

func encrypt(plaintext, key []byte) ([]byte, error) {
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

func decryptWithRotation(ciphertext, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
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

func decrypt(ciphertext, key []byte) ([]byte, error) {
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
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
