// Package datasource defines the pluggable vault storage backend contract:
// loading and saving encrypted vault bodies, the per-vault attachment
// lifecycle, and the static registry generic callers use to construct a
// backend by type name.
package datasource

import (
	"context"

	"github.com/mkalvans/buttervault/internal/credentials"
	"github.com/mkalvans/buttervault/internal/vault"
)

// Datasource is a storage backend for one vault. An instance is bound to a
// single credentials handle at construction.
//
// Backends provide no internal locking: callers overlap Load and Save at
// their own risk and serialize single-vault writers themselves. Attachment
// operations on distinct attachment IDs are always safe to issue
// concurrently.
type Datasource interface {
	// Load reads, decrypts and deserializes the vault body. When content is
	// already cached (set directly or read by a prior Load), the backing
	// store is not touched again.
	Load(ctx context.Context, creds *credentials.Credentials) (vault.History, error)

	// Save serializes and encrypts history, then writes it whole to the
	// backing store, replacing prior content. If encoding fails nothing is
	// written.
	Save(ctx context.Context, h vault.History, creds *credentials.Credentials) error

	// GetAttachment returns an attachment's bytes. With a nil creds the raw
	// (still-encrypted) bytes are returned untouched.
	GetAttachment(ctx context.Context, vaultID, attachmentID string, creds *credentials.Credentials) ([]byte, error)

	// GetAttachmentDetails describes an attachment from a stat of the
	// underlying file; content is neither read nor decrypted.
	GetAttachmentDetails(ctx context.Context, vaultID, attachmentID string) (*AttachmentDetails, error)

	// PutAttachment writes an attachment, replacing any existing one. With a
	// nil creds the buffer is treated as already encrypted and written as-is.
	PutAttachment(ctx context.Context, vaultID, attachmentID string, data []byte, creds *credentials.Credentials) error

	// RemoveAttachment deletes an attachment. Removing a nonexistent
	// attachment reports a not-found fault, not a no-op.
	RemoveAttachment(ctx context.Context, vaultID, attachmentID string) error

	// SupportsAttachments reports whether this backend stores attachments.
	SupportsAttachments() bool

	// SupportsRemoteBypass reports whether previously-cached content can be
	// served without re-reading the backing store.
	SupportsRemoteBypass() bool
}
