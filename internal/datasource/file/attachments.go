package file

import (
	"context"
	"fmt"

	"github.com/mkalvans/buttervault/internal/common"
	"github.com/mkalvans/buttervault/internal/credentials"
	"github.com/mkalvans/buttervault/internal/datasource"
)

// ensureAttachmentsDir guarantees the vault's attachment directory exists
// before any attachment operation touches it. Creating an existing directory
// is not an error.
func (d *Datasource) ensureAttachmentsDir(vaultID string) (string, error) {
	dir := datasource.AttachmentsDir(d.baseDir, vaultID)
	if err := d.fs.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create attachments dir: %w: %v", common.ErrorStorage, err)
	}
	return dir, nil
}

// GetAttachment reads the attachment file and, when creds is non-nil,
// decrypts it. With nil creds the stored bytes come back untouched, which
// lets callers move pre-encrypted blobs around without double handling.
func (d *Datasource) GetAttachment(ctx context.Context, vaultID, attachmentID string, creds *credentials.Credentials) ([]byte, error) {
	if _, err := d.ensureAttachmentsDir(vaultID); err != nil {
		return nil, err
	}

	path := datasource.AttachmentPath(d.baseDir, vaultID, attachmentID)
	data, err := d.fs.ReadFile(path)
	if err != nil {
		return nil, mapStorageErr("failed to read attachment", err)
	}

	if creds == nil {
		return data, nil
	}

	plain, err := creds.DecryptBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt attachment: %w: %v", common.ErrorDecode, err)
	}
	return plain, nil
}

// GetAttachmentDetails stats the attachment file and derives a descriptor
// from it. The content is never read or decrypted, so Size reflects the
// stored (possibly encrypted) byte count.
func (d *Datasource) GetAttachmentDetails(ctx context.Context, vaultID, attachmentID string) (*datasource.AttachmentDetails, error) {
	if _, err := d.ensureAttachmentsDir(vaultID); err != nil {
		return nil, err
	}

	path := datasource.AttachmentPath(d.baseDir, vaultID, attachmentID)
	fi, err := d.fs.Stat(path)
	if err != nil {
		return nil, mapStorageErr("failed to stat attachment", err)
	}

	return &datasource.AttachmentDetails{
		ID:       attachmentID,
		VaultID:  vaultID,
		Name:     datasource.AttachmentFileName(attachmentID),
		Filename: path,
		Size:     fi.Size(),
	}, nil
}

// PutAttachment writes the attachment file, replacing any existing one.
// When creds is non-nil the buffer is encrypted first; encryption failure
// surfaces before any write. With nil creds the buffer is written as-is.
func (d *Datasource) PutAttachment(ctx context.Context, vaultID, attachmentID string, data []byte, creds *credentials.Credentials) error {
	if _, err := d.ensureAttachmentsDir(vaultID); err != nil {
		return err
	}

	payload := data
	if creds != nil {
		sealed, err := creds.EncryptBuffer(data)
		if err != nil {
			return fmt.Errorf("failed to encrypt attachment: %w: %v", common.ErrorEncode, err)
		}
		payload = sealed
	}

	path := datasource.AttachmentPath(d.baseDir, vaultID, attachmentID)
	d.log.Debug(ctx, "writing attachment", "path", path, "bytes", len(payload))
	if err := d.fs.WriteFile(path, payload, filePerm); err != nil {
		return fmt.Errorf("failed to write attachment: %w: %v", common.ErrorStorage, err)
	}
	return nil
}

// RemoveAttachment deletes the attachment file. Removing a nonexistent
// attachment is a not-found fault, not a no-op.
func (d *Datasource) RemoveAttachment(ctx context.Context, vaultID, attachmentID string) error {
	if _, err := d.ensureAttachmentsDir(vaultID); err != nil {
		return err
	}

	path := datasource.AttachmentPath(d.baseDir, vaultID, attachmentID)
	if err := d.fs.Remove(path); err != nil {
		return mapStorageErr("failed to remove attachment", err)
	}
	return nil
}
