package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-payout-attest/core"
)

// SignatureGenerator produces the time-bound X-Cf-Signature header value.
// Implementations must never cache a produced signature: the embedded
// timestamp binds it to a narrow validity window.
type SignatureGenerator interface {
	Sign(identifier string) (string, error)
}

type GeneratorConfig struct {
	PrivateKeyPEM string
	Now           func() time.Time
}

// Generator encrypts "identifier.unixSeconds" with RSA-OAEP(SHA-1) under the
// public half of the configured key and base64-encodes the ciphertext.
type Generator struct {
	publicKey *rsa.PublicKey
	now       func() time.Time
}

func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	publicKey, err := parseRSAPublicKey(cfg.PrivateKeyPEM)
	if err != nil {
		return nil, err
	}
	return &Generator{
		publicKey: publicKey,
		now:       now,
	}, nil
}

func (g *Generator) Sign(identifier string) (string, error) {
	if g == nil || g.publicKey == nil {
		return "", &core.CryptoError{Message: "signature key is not configured"}
	}
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", &core.CryptoError{Message: "signature identifier is required"}
	}

	plaintext := identifier + "." + strconv.FormatInt(g.now().Unix(), 10)
	ciphertext, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, g.publicKey, []byte(plaintext), nil)
	if err != nil {
		return "", &core.CryptoError{Message: "encrypt signature payload", Cause: err}
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// parseRSAPublicKey accepts PKCS#8 or PKCS#1 private keys and PKIX or PKCS#1
// public keys; private keys contribute their public half.
func parseRSAPublicKey(material string) (*rsa.PublicKey, error) {
	trimmed := strings.TrimSpace(material)
	if trimmed == "" {
		return nil, &core.CryptoError{Message: "key material is required"}
	}
	block, _ := pem.Decode([]byte(trimmed))
	if block == nil {
		return nil, &core.CryptoError{Message: "key material is not valid PEM"}
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, &core.CryptoError{Message: fmt.Sprintf("unsupported private key type %T", key)}
		}
		return &rsaKey.PublicKey, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return &key.PublicKey, nil
	}
	if key, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, &core.CryptoError{Message: fmt.Sprintf("unsupported public key type %T", key)}
		}
		return rsaKey, nil
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}

	return nil, &core.CryptoError{Message: "key material is not an RSA key"}
}

var _ SignatureGenerator = (*Generator)(nil)
