package credentials

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/mkalvans/buttervault/internal/cryptox"
)

// envelopePrefix marks the text form of an encrypted vault body.
const envelopePrefix = "bcup1"

var (
	// ErrInvalidEnvelope reports text content that is not a well-formed
	// bcup1 envelope.
	ErrInvalidEnvelope = errors.New("invalid content envelope")
)

// EncryptText seals a serialized vault body into the canonical text envelope
//
//	bcup1$<b64 salt>$<b64 nonce>$<b64 ciphertext>
//
// which is what gets written whole to the backing store.
func (c *Credentials) EncryptText(plaintext string) (string, error) {
	sealed, err := cryptox.SealBuffer([]byte(plaintext), c.password)
	if err != nil {
		return "", err
	}

	salt := sealed[:cryptox.SaltSize]
	rest := sealed[cryptox.SaltSize:]
	nonce := rest[:cryptox.NonceSize]
	ciphertext := rest[cryptox.NonceSize:]

	enc := base64.StdEncoding
	return fmt.Sprintf("%s$%s$%s$%s",
		envelopePrefix,
		enc.EncodeToString(salt),
		enc.EncodeToString(nonce),
		enc.EncodeToString(ciphertext),
	), nil
}

// DecryptText opens a bcup1 envelope back into the serialized vault body.
func (c *Credentials) DecryptText(content string) (string, error) {
	parts := strings.Split(content, "$")
	if len(parts) != 4 || parts[0] != envelopePrefix {
		return "", ErrInvalidEnvelope
	}

	enc := base64.StdEncoding
	salt, err := enc.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: bad salt: %v", ErrInvalidEnvelope, err)
	}
	nonce, err := enc.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: bad nonce: %v", ErrInvalidEnvelope, err)
	}
	ciphertext, err := enc.DecodeString(parts[3])
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext: %v", ErrInvalidEnvelope, err)
	}

	sealed := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	sealed = append(sealed, salt...)
	sealed = append(sealed, nonce...)
	sealed = append(sealed, ciphertext...)

	plaintext, err := cryptox.OpenBuffer(sealed, c.password)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
