package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/format/codec"
	"github.com/aretw0/journey/pkg/persistence/middleware"
	"github.com/aretw0/journey/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func secretExploration(t *testing.T) *exploration.Exploration {
	t.Helper()
	x := exploration.New()
	require.NoError(t, x.Start(context.Background(), "Vault", exploration.StartOptions{}))
	require.NoError(t, x.TagStep("combination", "31-4-15"))
	return x
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunExplorationStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)

	require.NoError(t, secure.Save(ctx, "s1", secretExploration(t)))

	envelope, err := underlying.Load(ctx, "s1")
	require.NoError(t, err)
	raw, err := codec.Marshal(envelope)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "31-4-15")
	assert.NotContains(t, string(raw), "Vault")
	step, err := envelope.Current()
	require.NoError(t, err)
	assert.Contains(t, step.Tags, middleware.EnvelopeTag)

	loaded, err := secure.Load(ctx, "s1")
	require.NoError(t, err)
	step, err = loaded.Current()
	require.NoError(t, err)
	assert.Equal(t, "Vault", step.Position)
	assert.Equal(t, "31-4-15", step.Tags["combination"])
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, secureOld.Save(ctx, "rotation", secretExploration(t)))

	secureNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := secureNew.Load(ctx, "rotation")
	require.NoError(t, err, "fallback key should open the envelope")
	require.NoError(t, loaded.TagStep("combination", "rotated"))
	require.NoError(t, secureNew.Save(ctx, "rotation", loaded))

	_, err = secureOld.Load(ctx, "rotation")
	assert.Error(t, err, "old key alone cannot open data sealed with the new key")
}

func TestEncryptionMiddleware_RejectsPlainData(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(ctx, "plain", secretExploration(t)))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "plain")
	assert.ErrorIs(t, err, middleware.ErrNotEncrypted)

	_, err = secure.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEncryptionConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  middleware.EncryptionConfig
		wantErr bool
	}{
		{"valid", middleware.EncryptionConfig{ActiveKey: make([]byte, 32)}, false},
		{"short active key", middleware.EncryptionConfig{ActiveKey: []byte("short-key")}, true},
		{"short fallback", middleware.EncryptionConfig{ActiveKey: make([]byte, 32), FallbackKeys: [][]byte{{1}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	key := generateKey(t)
	store := middleware.Chain(underlying, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))

	require.NoError(t, store.Save(ctx, "c", secretExploration(t)))
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids)

	require.NoError(t, store.Delete(ctx, "c"))
	_, err = underlying.Load(ctx, "c")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
