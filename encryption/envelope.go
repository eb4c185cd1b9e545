// File: encryption/envelope.go
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"

	"voting-ledger/models"
)

var (
	// ErrEncryptionFailed signals a key-exchange or AEAD setup failure. The
	// vote was not recorded; the caller may retry.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed signals a tampered, corrupted or wrong-key
	// envelope. It is the only integrity signal the scheme carries: there is
	// no per-voter signature, by design, to preserve anonymity.
	ErrDecryptionFailed = errors.New("decryption failed")
)

const (
	// kdfContext binds derived keys to this scheme so a shared secret reused
	// elsewhere cannot yield the same AES key.
	kdfContext = "voting-ledger/envelope/v1"

	keySize   = 32 // AES-256
	nonceSize = 12 // standard GCM nonce
)

// CryptoService implements envelope encryption for single votes: a fresh
// ephemeral P-256 key per envelope, ECDH against the tally authority's public
// key, HKDF-SHA-256 key derivation and AES-256-GCM.
//
// Compromising one envelope's ephemeral key exposes only that envelope; the
// long-term private key is the single point that can decrypt every vote.
// That centralized tallying trust model is a deliberate design choice.
type CryptoService struct {
	curve elliptic.Curve
}

func NewCryptoService() *CryptoService {
	return &CryptoService{curve: elliptic.P256()}
}

// GenerateKeyPair generates the tally authority's long-lived P-256 key pair.
// The public key is handed to encryptors; the private key never touches the
// chain.
func (cs *CryptoService) GenerateKeyPair() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(cs.curve, rand.Reader)
}

// Encrypt seals a plaintext into a self-contained envelope decryptable only
// with the tally private key. Each call consumes fresh randomness for the
// ephemeral key and the nonce, so encrypting the same plaintext twice yields
// unrelated envelopes.
func (cs *CryptoService) Encrypt(plaintext []byte, publicKey *ecdsa.PublicKey) (models.EncryptedEnvelope, error) {
	ephemeralKey, err := ecdsa.GenerateKey(cs.curve, rand.Reader)
	if err != nil {
		return models.EncryptedEnvelope{}, fmt.Errorf("%w: ephemeral key generation: %v", ErrEncryptionFailed, err)
	}

	gcm, err := cs.deriveAEAD(publicKey.X, publicKey.Y, ephemeralKey.D)
	if err != nil {
		return models.EncryptedEnvelope{}, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return models.EncryptedEnvelope{}, fmt.Errorf("%w: nonce generation: %v", ErrEncryptionFailed, err)
	}

	return models.EncryptedEnvelope{
		Ciphertext:         gcm.Seal(nil, nonce, plaintext, nil),
		Nonce:              nonce,
		EphemeralPublicKey: elliptic.Marshal(cs.curve, ephemeralKey.PublicKey.X, ephemeralKey.PublicKey.Y),
	}, nil
}

// Decrypt re-derives the shared secret from the envelope's ephemeral public
// key and the tally private key, then opens the ciphertext. Every failure
// mode, from a malformed curve point to a failed authentication tag, reports
// ErrDecryptionFailed; a tampered envelope never yields a plaintext.
func (cs *CryptoService) Decrypt(envelope models.EncryptedEnvelope, privateKey *ecdsa.PrivateKey) ([]byte, error) {
	x, y := elliptic.Unmarshal(cs.curve, envelope.EphemeralPublicKey)
	if x == nil {
		return nil, fmt.Errorf("%w: malformed ephemeral public key", ErrDecryptionFailed)
	}

	gcm, err := cs.deriveAEAD(x, y, privateKey.D)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	if len(envelope.Nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("%w: invalid nonce length %d", ErrDecryptionFailed, len(envelope.Nonce))
	}

	plaintext, err := gcm.Open(nil, envelope.Nonce, envelope.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", ErrDecryptionFailed)
	}

	return plaintext, nil
}

// deriveAEAD performs the ECDH exchange and derives the AES-256-GCM cipher
// from the shared secret via HKDF-SHA-256 under the scheme's context label.
func (cs *CryptoService) deriveAEAD(x, y, scalar *big.Int) (cipher.AEAD, error) {
	sharedX, _ := cs.curve.ScalarMult(x, y, scalar.Bytes())
	secret := sharedX.FillBytes(make([]byte, keySize))

	key := make([]byte, keySize)
	kdf := hkdf.New(sha256.New, secret, nil, []byte(kdfContext))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("key derivation: %v", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher setup: %v", err)
	}

	return cipher.NewGCM(block)
}
