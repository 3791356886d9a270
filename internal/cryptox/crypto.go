// Package cryptox implements the symmetric primitives the datasource family
// relies on: argon2id key derivation from a master password and AES-256-GCM
// sealing of raw byte buffers.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/mkalvans/buttervault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length of the random salt prepended to every sealed buffer.
	SaltSize = 16

	// KeySize is the derived AES key length (AES-256).
	KeySize = 32

	// NonceSize is the GCM nonce length stored after the salt.
	NonceSize = 12
)

// ErrCiphertextTooShort reports a sealed buffer shorter than its mandatory
// salt and nonce header.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// DeriveKey derives a 32-byte AES key from a password and salt using argon2id.
//
// The same password and salt always produce the same key, so a buffer sealed
// with its embedded salt can be opened with the password alone.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// SealBuffer encrypts plaintext under a key derived from password and a fresh
// random salt. The result is salt || nonce || ciphertext, a self-contained
// buffer that OpenBuffer can decrypt with the password alone.
func SealBuffer(plaintext, password []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(SaltSize)
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(NonceSize)
	sealed := make([]byte, 0, SaltSize+NonceSize+len(plaintext)+aesgcm.Overhead())
	sealed = append(sealed, salt...)
	sealed = append(sealed, nonce...)
	sealed = aesgcm.Seal(sealed, nonce, plaintext, nil)

	return sealed, nil
}

// OpenBuffer decrypts a buffer produced by SealBuffer using the password the
// buffer was sealed with. A wrong password or tampered buffer fails the GCM
// authentication check.
func OpenBuffer(sealed, password []byte) ([]byte, error) {
	if len(sealed) < SaltSize+NonceSize {
		return nil, ErrCiphertextTooShort
	}

	salt := sealed[:SaltSize]
	nonce := sealed[SaltSize : SaltSize+NonceSize]
	ciphertext := sealed[SaltSize+NonceSize:]

	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return aesgcm.Open(nil, nonce, ciphertext, nil)
}
