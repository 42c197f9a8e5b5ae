package seal

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/mail-sentry/internal/core"
)

const (
	encryptionAlgorithm = "AES-256-GCM"
	signatureAlgorithm  = "RSA-2048-SHA256"
	rsaKeyBits          = 2048
)

// Provider implements envelope encryption and message signing for the
// secure-compose flow. Each Encrypt call uses a fresh random key; the key is
// returned alongside the ciphertext so the caller owns key distribution.
// Signing uses a single RSA keypair generated at construction.
type Provider struct {
	signingKey *rsa.PrivateKey
	publicPEM  string
	logger     *zap.Logger
}

// NewProvider generates the signing keypair. This takes a moment and is
// done once at startup.
func NewProvider(logger *zap.Logger) (*Provider, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	publicPEM := string(pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: der,
	}))

	logger.Info("Signing keypair generated", zap.Int("bits", rsaKeyBits))

	return &Provider{
		signingKey: key,
		publicPEM:  publicPEM,
		logger:     logger,
	}, nil
}

// Encrypt seals the plaintext under a fresh random 256-bit key with
// AES-256-GCM. Ciphertext, nonce and key are base64 encoded.
func (p *Provider) Encrypt(plaintext string) (*core.EncryptionResult, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to build cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to build GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	return &core.EncryptionResult{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
		IV:         base64.StdEncoding.EncodeToString(nonce),
		Key:        base64.StdEncoding.EncodeToString(key),
		Algorithm:  encryptionAlgorithm,
	}, nil
}

// Sign produces an RSA PKCS#1 v1.5 signature over the SHA-256 digest of the
// message, together with the PEM-encoded verification key.
func (p *Provider) Sign(message string) (*core.SignatureResult, error) {
	digest := sha256.Sum256([]byte(message))

	sig, err := rsa.SignPKCS1v15(rand.Reader, p.signingKey, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	return &core.SignatureResult{
		Signature: base64.StdEncoding.EncodeToString(sig),
		Algorithm: signatureAlgorithm,
		PublicKey: p.publicPEM,
	}, nil
}

// Fingerprint returns the SHA-256 fingerprint of the verification key as
// colon-separated uppercase hex pairs.
func (p *Provider) Fingerprint() string {
	sum := sha256.Sum256([]byte(p.publicPEM))
	parts := make([]string, len(sum))
	for i, b := range sum {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, ":")
}
