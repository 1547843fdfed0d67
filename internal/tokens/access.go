// Package tokens implements the access/refresh token subsystem: HMAC-SHA256
// signed access tokens with an AES-GCM encrypted subject, and opaque
// SHA-256-indexed refresh token handles.
package tokens

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	rscrypto "github.com/red-safe/platform/internal/crypto"
)

const issuer = "RED-Safe"

const accessTokenTTL = 10 * time.Minute

// subjectAAD binds the encrypted subject to this token's purpose so a
// ciphertext produced elsewhere can never be replayed into the sub claim.
var subjectAAD = []byte("RED-Safe:access-token-subject")

// Claims is the access token's JWT payload. Subject carries the encrypted
// user id, never the plaintext one.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager issues and decodes access tokens. The signing key and the AES key
// used to encrypt the subject both live in the injected SecretStore.
type Manager struct {
	secrets *rscrypto.SecretStore
}

func NewManager(secrets *rscrypto.SecretStore) *Manager {
	return &Manager{secrets: secrets}
}

// IssueAccessToken signs a new access token for userID, valid for 10 minutes.
func (m *Manager) IssueAccessToken(userID string) (string, error) {
	encSub, err := m.encryptSubject(userID)
	if err != nil {
		return "", fmt.Errorf("tokens: encrypt subject: %w", err)
	}

	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   encSub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secrets.SigningKey())
}

// DecodeStatus mirrors UserAuthService.DecodeAccessToken's wire result codes.
type DecodeStatus int

const (
	DecodeOK DecodeStatus = iota
	DecodeExpired
	DecodeInvalid
	DecodeBadSignature
	DecodeMalformed
	DecodeInternal
)

// DecodeAccessToken validates tokenString and, on success, returns the
// decrypted user id. Errors are classified per spec.md §4.4 so the gRPC
// layer can map them to the wire's stable integer codes without inspecting
// jwt/v5 error internals itself.
func (m *Manager) DecodeAccessToken(tokenString string) (userID string, status DecodeStatus) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secrets.SigningKey(), nil
	}, jwt.WithIssuer(issuer), jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", DecodeExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", DecodeBadSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", DecodeMalformed
		default:
			return "", DecodeInvalid
		}
	}
	if !token.Valid {
		return "", DecodeInvalid
	}

	plain, err := m.decryptSubject(claims.Subject)
	if err != nil {
		return "", DecodeInternal
	}
	return plain, DecodeOK
}

// encryptSubject packs len(nonce)||nonce||len(tag)||tag||ciphertext (lengths
// as 4-byte big-endian) into one base64 string so it fits the JWT subject
// claim as plain text.
func (m *Manager) encryptSubject(userID string) (string, error) {
	nonce, ciphertext, tag, err := rscrypto.EncryptGCM(m.secrets.AESKey(), []byte(userID), subjectAAD)
	if err != nil {
		return "", err
	}
	packed := make([]byte, 0, len(nonce)+len(ciphertext)+len(tag)+8)
	packed = appendUint32(packed, uint32(len(nonce)))
	packed = append(packed, nonce...)
	packed = appendUint32(packed, uint32(len(tag)))
	packed = append(packed, tag...)
	packed = append(packed, ciphertext...)
	return base64.RawURLEncoding.EncodeToString(packed), nil
}

func (m *Manager) decryptSubject(encoded string) (string, error) {
	packed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	nonce, tag, ciphertext, err := unpackSubject(packed)
	if err != nil {
		return "", err
	}
	plain, err := rscrypto.DecryptGCM(m.secrets.AESKey(), nonce, ciphertext, tag, subjectAAD)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func appendUint32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func readUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func unpackSubject(packed []byte) (nonce, tag, ciphertext []byte, err error) {
	if len(packed) < 4 {
		return nil, nil, nil, errors.New("tokens: truncated subject")
	}
	nonceLen := readUint32(packed)
	packed = packed[4:]
	if uint32(len(packed)) < nonceLen+4 {
		return nil, nil, nil, errors.New("tokens: truncated subject")
	}
	nonce = packed[:nonceLen]
	packed = packed[nonceLen:]
	tagLen := readUint32(packed)
	packed = packed[4:]
	if uint32(len(packed)) < tagLen {
		return nil, nil, nil, errors.New("tokens: truncated subject")
	}
	tag = packed[:tagLen]
	ciphertext = packed[tagLen:]
	return nonce, tag, ciphertext, nil
}
