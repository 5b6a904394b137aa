package cookiesession

// Package cookiesession provides the encrypted, signed cookie-backed session
// store and the independently scoped UI preference store.

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"

	apperrors "github.com/seclens/dashgate/internal/errors"
)

const nonceLen = 24

// Codec seals and opens cookie payloads with authenticated encryption
// (XSalsa20-Poly1305 via nacl/secretbox). Tampered or corrupted values fail
// to open; they are indistinguishable from garbage to the caller.
type Codec struct {
	key [32]byte
}

// NewCodec derives a sealing key from the cookie password. The purpose label
// separates key material between stores sharing one password, so a value
// sealed for one store never opens in another.
func NewCodec(password, purpose string) *Codec {
	c := &Codec{}
	c.key = sha256.Sum256([]byte(purpose + "\x00" + password))
	return c
}

// Seal encodes v as JSON, encrypts it, and returns a cookie-safe string.
func (c *Codec) Seal(v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	var nonce [nonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, &c.key)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a sealed cookie value into v. Any failure (bad encoding,
// truncated value, failed authentication) is a session_decode error.
func (c *Codec) Open(value string, v any) error {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSessionDecode, "decode cookie value")
	}
	if len(raw) <= nonceLen {
		return apperrors.SessionDecode("cookie value too short")
	}

	var nonce [nonceLen]byte
	copy(nonce[:], raw[:nonceLen])

	plaintext, ok := secretbox.Open(nil, raw[nonceLen:], &nonce, &c.key)
	if !ok {
		return apperrors.SessionDecode("cookie failed authentication")
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSessionDecode, "unmarshal payload")
	}
	return nil
}
