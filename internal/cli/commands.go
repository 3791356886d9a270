package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mkalvans/buttervault/internal/common"
	"github.com/mkalvans/buttervault/internal/vault"
)

const vaultIDPrefix = "vault "

// open loads the vault from the datasource. A missing vault body starts a
// new history whose first entry pins the vault ID used for attachments.
func (a *App) open(ctx context.Context) error {
	h, err := a.ds.Load(ctx, a.creds)
	if errors.Is(err, common.ErrorNotFound) {
		id := uuid.NewString()
		a.history = vault.History{vaultIDPrefix + id}
		a.vaultID = id
		a.opened = true
		fmt.Fprintln(a.out, "No vault found, starting a new one:", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}

	a.history = h
	a.vaultID = vaultIDFromHistory(h)
	a.opened = true
	fmt.Fprintf(a.out, "Vault opened: %d entries\n", len(h))
	return nil
}

func vaultIDFromHistory(h vault.History) string {
	if len(h) > 0 && strings.HasPrefix(h[0], vaultIDPrefix) {
		return strings.TrimPrefix(h[0], vaultIDPrefix)
	}
	return "primary"
}

func (a *App) save(ctx context.Context) error {
	if err := a.ds.Save(ctx, a.history, a.creds); err != nil {
		return fmt.Errorf("failed to save vault: %w", err)
	}
	fmt.Fprintln(a.out, "Saved.")
	return nil
}

func (a *App) list(ctx context.Context) error {
	if len(a.history) == 0 {
		fmt.Fprintln(a.out, "(empty)")
		return nil
	}
	for i, entry := range a.history {
		fmt.Fprintf(a.out, "%4d  %s\n", i, entry)
	}
	return nil
}

func (a *App) add(ctx context.Context) error {
	text, err := GetSimpleText(a.reader, "Entry text", a.out)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	a.history = a.history.Push(fmt.Sprintf("entry %s %s", id, text))
	fmt.Fprintln(a.out, "Added entry", id)
	return nil
}

// attach encrypts a local file into the vault's attachment store.
func (a *App) attach(ctx context.Context) error {
	path, err := GetSimpleText(a.reader, "File to attach", a.out)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	id := uuid.NewString()
	if err := a.ds.PutAttachment(ctx, a.vaultID, id, data, a.creds); err != nil {
		return err
	}

	a.history = a.history.Push(fmt.Sprintf("attachment %s %s", id, path))
	fmt.Fprintln(a.out, "Attached as", id)
	return nil
}

// fetch decrypts an attachment back to a local file.
func (a *App) fetch(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Attachment ID", a.out)
	if err != nil {
		return err
	}
	dest, err := GetSimpleText(a.reader, "Write to", a.out)
	if err != nil {
		return err
	}

	data, err := a.ds.GetAttachment(ctx, a.vaultID, id, a.creds)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o660); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	fmt.Fprintf(a.out, "Wrote %d bytes to %s\n", len(data), dest)
	return nil
}

func (a *App) detach(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Attachment ID", a.out)
	if err != nil {
		return err
	}
	if err := a.ds.RemoveAttachment(ctx, a.vaultID, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Removed", id)
	return nil
}

func (a *App) info(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Attachment ID", a.out)
	if err != nil {
		return err
	}
	details, err := a.ds.GetAttachmentDetails(ctx, a.vaultID, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "id=%s vault=%s name=%s size=%d\n",
		details.ID, details.VaultID, details.Name, details.Size)
	return nil
}
