package datasource

import "path/filepath"

// AttachmentExt is the fixed file extension every member of the datasource
// family uses for stored attachments.
const AttachmentExt = "bcatt"

// AttachmentsDirName is the hidden directory, next to the vault file, that
// holds per-vault attachment subdirectories.
const AttachmentsDirName = ".buttercup"

// AttachmentsDir returns the canonical attachment directory for a vault:
// <baseDir>/.buttercup/<vaultID>.
//
// Vault and attachment IDs are taken as opaque strings; callers supply
// path-safe identifiers.
func AttachmentsDir(baseDir, vaultID string) string {
	return filepath.Join(baseDir, AttachmentsDirName, vaultID)
}

// AttachmentFileName returns the canonical file name for an attachment:
// <attachmentID>.<AttachmentExt>.
func AttachmentFileName(attachmentID string) string {
	return attachmentID + "." + AttachmentExt
}

// AttachmentPath returns the full canonical path of an attachment file.
func AttachmentPath(baseDir, vaultID, attachmentID string) string {
	return filepath.Join(AttachmentsDir(baseDir, vaultID), AttachmentFileName(attachmentID))
}
