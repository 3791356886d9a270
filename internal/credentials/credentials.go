// Package credentials implements the opaque credentials handle the datasource
// family binds to: a datasource configuration record plus symmetric
// encrypt/decrypt capability derived from a master password.
package credentials

import (
	"github.com/google/uuid"

	"github.com/mkalvans/buttervault/internal/common"
	"github.com/mkalvans/buttervault/internal/cryptox"
)

// Config is the decrypted configuration record a handle resolves to.
//
// Path is the persistence location of the vault body: a file path for the
// file datasource, an object key for the s3 datasource, a vault name for the
// postgres datasource. The remaining fields configure the backends that need
// them and are ignored by the others.
type Config struct {
	Type        string `json:"type"`
	Path        string `json:"path"`
	S3Bucket    string `json:"s3_bucket,omitempty"`
	S3Region    string `json:"s3_region,omitempty"`
	S3Endpoint  string `json:"s3_endpoint,omitempty"`
	S3AccessKey string `json:"s3_access_key,omitempty"`
	S3SecretKey string `json:"s3_secret_key,omitempty"`
	DatabaseDSN string `json:"database_dsn,omitempty"`
}

// Credentials binds a datasource configuration to key material. A datasource
// instance is constructed against exactly one handle and is not re-bindable.
//
// The handle never exposes the password; callers go through EncryptBuffer,
// DecryptBuffer, EncryptText and DecryptText.
type Credentials struct {
	id       string
	config   Config
	password []byte
}

// New creates a handle from a configuration record and a master password.
// The password slice is copied; the caller may wipe its own copy.
func New(cfg Config, masterPassword []byte) *Credentials {
	pw := make([]byte, len(masterPassword))
	copy(pw, masterPassword)

	return &Credentials{
		id:       uuid.NewString(),
		config:   cfg,
		password: pw,
	}
}

// ID returns the opaque identifier of this handle.
func (c *Credentials) ID() string {
	return c.id
}

// Config resolves the handle to its configuration record.
func (c *Credentials) Config() Config {
	return c.config
}

// EncryptBuffer seals a raw byte buffer under this handle's key material.
// The output embeds its own salt and nonce, so DecryptBuffer needs nothing
// beyond the handle itself.
func (c *Credentials) EncryptBuffer(b []byte) ([]byte, error) {
	return cryptox.SealBuffer(b, c.password)
}

// DecryptBuffer opens a buffer previously sealed by EncryptBuffer.
func (c *Credentials) DecryptBuffer(b []byte) ([]byte, error) {
	return cryptox.OpenBuffer(b, c.password)
}

// Wipe zeroes the stored password. The handle is unusable afterwards.
func (c *Credentials) Wipe() {
	common.WipeByteArray(c.password)
	c.password = nil
}
