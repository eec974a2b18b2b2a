package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/format/codec"
	"github.com/aretw0/journey/pkg/ports"
)

// EnvelopeTag is the step tag holding the sealed exploration.
const EnvelopeTag = "__encrypted__"

// KeySize is the AES-256 key length.
const KeySize = 32

// ErrNotEncrypted is returned when a stored exploration is not an envelope.
var ErrNotEncrypted = errors.New("exploration is missing encrypted data envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot open a
	// stored envelope, so keys can be rotated without downtime.
	FallbackKeys [][]byte
}

// Validate checks every key length.
func (c EncryptionConfig) Validate() error {
	if len(c.ActiveKey) != KeySize {
		return fmt.Errorf("active key must be %d bytes, got %d", KeySize, len(c.ActiveKey))
	}
	for i, k := range c.FallbackKeys {
		if len(k) != KeySize {
			return fmt.Errorf("fallback key %d must be %d bytes, got %d", i, KeySize, len(k))
		}
	}
	return nil
}

type encryptionMiddleware struct {
	next   ports.ExplorationStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals explorations with
// AES-GCM. The inner store only ever sees a one-step envelope whose
// EnvelopeTag holds the ciphertext. It panics on an invalid config.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if err := config.Validate(); err != nil {
		panic(err)
	}
	return func(next ports.ExplorationStore) ports.ExplorationStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, sessionID string, x *exploration.Exploration) error {
	plainText, err := codec.Marshal(x)
	if err != nil {
		return fmt.Errorf("failed to encode exploration: %w", err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt exploration: %w", err)
	}

	envelope := exploration.NewSituation()
	envelope.Tags[EnvelopeTag] = base64.StdEncoding.EncodeToString(ciphertext)

	return m.next.Save(ctx, sessionID, exploration.Restore([]*exploration.Situation{envelope}))
}

func (m *encryptionMiddleware) Load(ctx context.Context, sessionID string) (*exploration.Exploration, error) {
	envelope, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if envelope.Len() != 1 {
		return nil, ErrNotEncrypted
	}
	step, err := envelope.Current()
	if err != nil {
		return nil, err
	}
	encoded, ok := step.Tags[EnvelopeTag].(string)
	if !ok {
		return nil, ErrNotEncrypted
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt exploration: %w", err)
	}

	x, err := codec.DecodeExploration(plainText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode decrypted exploration: %w", err)
	}
	return x, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
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
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
