// File: encryption/envelope_test.go
package encryption

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-ledger/models"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	cs := NewCryptoService()
	key, err := cs.GenerateKeyPair()
	require.NoError(t, err)

	for _, size := range []int{0, 1, 12, 33, 1024, 4096} {
		plaintext := make([]byte, size)
		_, err := rand.Read(plaintext)
		require.NoError(t, err)

		envelope, err := cs.Encrypt(plaintext, &key.PublicKey)
		require.NoError(t, err)

		decrypted, err := cs.Decrypt(envelope, key)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(plaintext, decrypted), "round trip failed for %d bytes", size)
	}
}

func TestEnvelopeFormat(t *testing.T) {
	cs := NewCryptoService()
	key, err := cs.GenerateKeyPair()
	require.NoError(t, err)

	envelope, err := cs.Encrypt([]byte("ballot"), &key.PublicKey)
	require.NoError(t, err)

	assert.Len(t, envelope.Nonce, 12)
	// Uncompressed P-256 point: 0x04 prefix plus two 32-byte coordinates.
	assert.Len(t, envelope.EphemeralPublicKey, 65)
	assert.Equal(t, byte(4), envelope.EphemeralPublicKey[0])
	// GCM appends a 16-byte authentication tag.
	assert.Len(t, envelope.Ciphertext, len("ballot")+16)
}

func TestEncryptIsNondeterministic(t *testing.T) {
	cs := NewCryptoService()
	key, err := cs.GenerateKeyPair()
	require.NoError(t, err)

	plaintext := []byte(`{"candidate":"A"}`)

	first, err := cs.Encrypt(plaintext, &key.PublicKey)
	require.NoError(t, err)
	second, err := cs.Encrypt(plaintext, &key.PublicKey)
	require.NoError(t, err)

	assert.NotEqual(t, first.Ciphertext, second.Ciphertext)
	assert.NotEqual(t, first.Nonce, second.Nonce)
	assert.NotEqual(t, first.EphemeralPublicKey, second.EphemeralPublicKey)
}

func TestDecryptRejectsTampering(t *testing.T) {
	cs := NewCryptoService()
	key, err := cs.GenerateKeyPair()
	require.NoError(t, err)

	plaintext := []byte(`{"candidate":"A"}`)

	flipBit := func(field func(e *models.EncryptedEnvelope) []byte) models.EncryptedEnvelope {
		envelope, err := cs.Encrypt(plaintext, &key.PublicKey)
		require.NoError(t, err)
		field(&envelope)[0] ^= 0x01
		return envelope
	}

	cases := map[string]models.EncryptedEnvelope{
		"ciphertext":    flipBit(func(e *models.EncryptedEnvelope) []byte { return e.Ciphertext }),
		"nonce":         flipBit(func(e *models.EncryptedEnvelope) []byte { return e.Nonce }),
		"ephemeral key": flipBit(func(e *models.EncryptedEnvelope) []byte { return e.EphemeralPublicKey }),
	}

	for name, envelope := range cases {
		decrypted, err := cs.Decrypt(envelope, key)
		require.ErrorIs(t, err, ErrDecryptionFailed, "tampered %s must not decrypt", name)
		assert.Nil(t, decrypted)
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	cs := NewCryptoService()
	key, err := cs.GenerateKeyPair()
	require.NoError(t, err)
	otherKey, err := cs.GenerateKeyPair()
	require.NoError(t, err)

	envelope, err := cs.Encrypt([]byte("ballot"), &key.PublicKey)
	require.NoError(t, err)

	_, err = cs.Decrypt(envelope, otherKey)
	require.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptMalformedEnvelope(t *testing.T) {
	cs := NewCryptoService()
	key, err := cs.GenerateKeyPair()
	require.NoError(t, err)

	cases := map[string]models.EncryptedEnvelope{
		"empty":              {},
		"garbage point":      {Ciphertext: []byte{1}, Nonce: make([]byte, 12), EphemeralPublicKey: []byte{1, 2, 3}},
		"short nonce":        mustEncryptWith(t, cs, key, func(e *models.EncryptedEnvelope) { e.Nonce = e.Nonce[:8] }),
		"truncated envelope": mustEncryptWith(t, cs, key, func(e *models.EncryptedEnvelope) { e.Ciphertext = e.Ciphertext[:4] }),
	}

	for name, envelope := range cases {
		_, err := cs.Decrypt(envelope, key)
		require.ErrorIs(t, err, ErrDecryptionFailed, "malformed envelope (%s) must not decrypt", name)
	}
}

func mustEncryptWith(t *testing.T, cs *CryptoService, key *ecdsa.PrivateKey, mutate func(e *models.EncryptedEnvelope)) models.EncryptedEnvelope {
	t.Helper()

	envelope, err := cs.Encrypt([]byte("ballot"), &key.PublicKey)
	require.NoError(t, err)
	mutate(&envelope)
	return envelope
}
