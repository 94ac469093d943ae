package gateway

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"kalshi-alpha/pkg/types"
)

// Request signing headers. The signed payload is the concatenation
// timestamp || METHOD || path, where path carries no query string.
const (
	headerAccessKey       = "X-ACCESS-KEY"
	headerAccessSignature = "X-ACCESS-SIGNATURE"
	headerAccessTimestamp = "X-ACCESS-TIMESTAMP"
)

// Signer produces per-request Ed25519 authentication headers. The key
// material is read-only after construction and safe for concurrent use.
type Signer struct {
	keyID string
	key   ed25519.PrivateKey
}

// NewSigner loads an Ed25519 private key from a base64 blob (PEM or raw
// 32-byte seed) or from a PEM file path. Exactly one source must be set;
// the path wins when both are.
func NewSigner(keyID, keyB64, keyPath string) (*Signer, error) {
	if keyID == "" {
		return nil, &types.ConfigError{Field: "access key", Message: "required for signing"}
	}

	var (
		key ed25519.PrivateKey
		err error
	)

	switch {
	case keyPath != "":
		pemData, readErr := os.ReadFile(keyPath)
		if readErr != nil {
			return nil, &types.ConfigError{
				Field:   "private key path",
				Message: fmt.Sprintf("read %s: %v", keyPath, readErr),
			}
		}
		key, err = parsePEMKey(pemData)
	case keyB64 != "":
		decoded, decErr := base64.StdEncoding.DecodeString(strings.TrimSpace(keyB64))
		if decErr != nil {
			return nil, &types.ConfigError{Field: "private key", Message: "invalid base64"}
		}
		key, err = parsePEMKey(decoded)
		if err != nil && len(decoded) >= ed25519.SeedSize {
			// Fall back to a raw 32-byte seed.
			key = ed25519.NewKeyFromSeed(decoded[:ed25519.SeedSize])
			err = nil
		}
	default:
		return nil, &types.ConfigError{Field: "private key", Message: "no key material provided"}
	}

	if err != nil {
		return nil, &types.ConfigError{Field: "private key", Message: err.Error()}
	}

	return &Signer{keyID: keyID, key: key}, nil
}

func parsePEMKey(data []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse PKCS8 key: %w", err)
	}

	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("expected Ed25519 key, got %T", parsed)
	}

	return key, nil
}

// Headers returns fresh authentication headers for one request. Signatures
// are generated per call and never reused.
func (s *Signer) Headers(method, path string) map[string]string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return map[string]string{
		headerAccessKey:       s.keyID,
		headerAccessSignature: s.sign(timestamp, method, path),
		headerAccessTimestamp: timestamp,
	}
}

// sign computes the base64 Ed25519 signature over timestamp||METHOD||path.
// Ed25519 is deterministic: a fixed payload always yields the same bytes.
func (s *Signer) sign(timestamp, method, path string) string {
	payload := timestamp + strings.ToUpper(method) + path
	sig := ed25519.Sign(s.key, []byte(payload))
	return base64.StdEncoding.EncodeToString(sig)
}
