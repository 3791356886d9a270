// Package memory implements the in-process member of the datasource family.
// It keeps the encrypted vault body and attachments in maps, which makes it
// the natural backend for tests and for callers staging content before it
// reaches durable storage.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mkalvans/buttervault/internal/common"
	"github.com/mkalvans/buttervault/internal/credentials"
	"github.com/mkalvans/buttervault/internal/datasource"
	"github.com/mkalvans/buttervault/internal/datasource/textsource"
	"github.com/mkalvans/buttervault/internal/vault"
)

func init() {
	datasource.Register("memory", func(creds *credentials.Credentials) (datasource.Datasource, error) {
		return New(creds), nil
	})
}

// Datasource stores everything in process memory. Unlike the file backend it
// guards its maps with a mutex, since there is no filesystem underneath to
// arbitrate concurrent attachment writes.
type Datasource struct {
	text *textsource.TextDatasource

	mu          sync.Mutex
	content     string
	hasContent  bool
	attachments map[string]map[string][]byte
}

func New(creds *credentials.Credentials) *Datasource {
	return &Datasource{
		text:        textsource.New(),
		attachments: make(map[string]map[string][]byte),
	}
}

// SetContent injects encrypted vault content, the bypass entry point.
func (d *Datasource) SetContent(content string) {
	d.text.SetContent(content)
}

func (d *Datasource) Load(ctx context.Context, creds *credentials.Credentials) (vault.History, error) {
	if !d.text.HasContent() {
		d.mu.Lock()
		content, ok := d.content, d.hasContent
		d.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("failed to read vault body: %w", common.ErrorNotFound)
		}
		d.text.CacheRead(content)
	}
	return d.text.Decode(creds)
}

func (d *Datasource) Save(ctx context.Context, h vault.History, creds *credentials.Credentials) error {
	content, err := d.text.Encode(h, creds)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.content = content
	d.hasContent = true
	d.mu.Unlock()
	return nil
}

func (d *Datasource) GetAttachment(ctx context.Context, vaultID, attachmentID string, creds *credentials.Credentials) ([]byte, error) {
	d.mu.Lock()
	data, ok := d.attachments[vaultID][attachmentID]
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("failed to read attachment: %w", common.ErrorNotFound)
	}

	out := make([]byte, len(data))
	copy(out, data)

	if creds == nil {
		return out, nil
	}
	plain, err := creds.DecryptBuffer(out)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt attachment: %w: %v", common.ErrorDecode, err)
	}
	return plain, nil
}

func (d *Datasource) GetAttachmentDetails(ctx context.Context, vaultID, attachmentID string) (*datasource.AttachmentDetails, error) {
	d.mu.Lock()
	data, ok := d.attachments[vaultID][attachmentID]
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("failed to stat attachment: %w", common.ErrorNotFound)
	}

	name := datasource.AttachmentFileName(attachmentID)
	return &datasource.AttachmentDetails{
		ID:       attachmentID,
		VaultID:  vaultID,
		Name:     name,
		Filename: name,
		Size:     int64(len(data)),
	}, nil
}

func (d *Datasource) PutAttachment(ctx context.Context, vaultID, attachmentID string, data []byte, creds *credentials.Credentials) error {
	payload := data
	if creds != nil {
		sealed, err := creds.EncryptBuffer(data)
		if err != nil {
			return fmt.Errorf("failed to encrypt attachment: %w: %v", common.ErrorEncode, err)
		}
		payload = sealed
	}

	stored := make([]byte, len(payload))
	copy(stored, payload)

	d.mu.Lock()
	if d.attachments[vaultID] == nil {
		d.attachments[vaultID] = make(map[string][]byte)
	}
	d.attachments[vaultID][attachmentID] = stored
	d.mu.Unlock()
	return nil
}

func (d *Datasource) RemoveAttachment(ctx context.Context, vaultID, attachmentID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.attachments[vaultID][attachmentID]; !ok {
		return fmt.Errorf("failed to remove attachment: %w", common.ErrorNotFound)
	}
	delete(d.attachments[vaultID], attachmentID)
	return nil
}

func (d *Datasource) SupportsAttachments() bool  { return true }
func (d *Datasource) SupportsRemoteBypass() bool { return true }

var _ datasource.Datasource = (*Datasource)(nil)
