// Package postgres implements the relational member of the datasource
// family: the encrypted vault body lives in a vaults row, attachments in a
// vault_attachments table keyed by (vault_id, attachment_id).
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mkalvans/buttervault/internal/common"
	"github.com/mkalvans/buttervault/internal/credentials"
	"github.com/mkalvans/buttervault/internal/datasource"
	"github.com/mkalvans/buttervault/internal/datasource/postgres/migrations"
	"github.com/mkalvans/buttervault/internal/datasource/textsource"
	"github.com/mkalvans/buttervault/internal/logging"
	"github.com/mkalvans/buttervault/internal/vault"
)

func init() {
	datasource.Register("postgres", func(creds *credentials.Credentials) (datasource.Datasource, error) {
		return New(creds)
	})
}

// Datasource persists one vault, identified by name, to PostgreSQL.
type Datasource struct {
	text *textsource.TextDatasource
	db   *sql.DB
	log  logging.Logger

	name string
}

type Option func(*Datasource)

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(d *Datasource) { d.log = l }
}

// New opens the database from the handle's DSN, runs migrations, and binds
// to the vault name the handle's path resolves to.
func New(creds *credentials.Credentials, opts ...Option) (*Datasource, error) {
	cfg := creds.Config()
	if cfg.DatabaseDSN == "" {
		return nil, errors.New("postgres datasource requires a database DSN")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return NewWithDB(db, cfg.Path, opts...)
}

// NewWithDB builds a datasource over an existing connection. Tests use it
// with a mock; New uses it after opening and migrating.
func NewWithDB(db *sql.DB, name string, opts ...Option) (*Datasource, error) {
	if name == "" {
		return nil, errors.New("postgres datasource requires a vault name")
	}

	d := &Datasource{
		text: textsource.New(),
		db:   db,
		log:  logging.NewNopLogger(),
		name: name,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close releases the underlying connection pool.
func (d *Datasource) Close() error {
	return d.db.Close()
}

// SetContent injects encrypted vault content, the bypass entry point.
func (d *Datasource) SetContent(content string) {
	d.text.SetContent(content)
}

func (d *Datasource) Load(ctx context.Context, creds *credentials.Credentials) (vault.History, error) {
	if !d.text.HasContent() {
		query := `SELECT content FROM vaults WHERE name=$1`
		var content string
		err := d.db.QueryRowContext(ctx, query, d.name).Scan(&content)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to read vault row: %w", common.ErrorNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read vault row: %w: %v", common.ErrorStorage, err)
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

	query := `INSERT INTO vaults (name, content, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET content = excluded.content, updated_at = now()`
	if _, err := d.db.ExecContext(ctx, query, d.name, content); err != nil {
		return fmt.Errorf("failed to upsert vault row: %w: %v", common.ErrorStorage, err)
	}
	return nil
}

func (d *Datasource) GetAttachment(ctx context.Context, vaultID, attachmentID string, creds *credentials.Credentials) ([]byte, error) {
	query := `SELECT data FROM vault_attachments WHERE vault_id=$1 AND attachment_id=$2`
	var data []byte
	err := d.db.QueryRowContext(ctx, query, vaultID, attachmentID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read attachment row: %w", common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment row: %w: %v", common.ErrorStorage, err)
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

func (d *Datasource) GetAttachmentDetails(ctx context.Context, vaultID, attachmentID string) (*datasource.AttachmentDetails, error) {
	query := `SELECT octet_length(data) FROM vault_attachments WHERE vault_id=$1 AND attachment_id=$2`
	var size int64
	err := d.db.QueryRowContext(ctx, query, vaultID, attachmentID).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to stat attachment row: %w", common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat attachment row: %w: %v", common.ErrorStorage, err)
	}

	name := datasource.AttachmentFileName(attachmentID)
	return &datasource.AttachmentDetails{
		ID:       attachmentID,
		VaultID:  vaultID,
		Name:     name,
		Filename: name,
		Size:     size,
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

	query := `INSERT INTO vault_attachments (vault_id, attachment_id, data, updated_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (vault_id, attachment_id) DO UPDATE SET data = excluded.data, updated_at = now()`
	if _, err := d.db.ExecContext(ctx, query, vaultID, attachmentID, payload); err != nil {
		return fmt.Errorf("failed to upsert attachment row: %w: %v", common.ErrorStorage, err)
	}
	return nil
}

func (d *Datasource) RemoveAttachment(ctx context.Context, vaultID, attachmentID string) error {
	query := `DELETE FROM vault_attachments WHERE vault_id=$1 AND attachment_id=$2`
	result, err := d.db.ExecContext(ctx, query, vaultID, attachmentID)
	if err != nil {
		return fmt.Errorf("failed to delete attachment row: %w: %v", common.ErrorStorage, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w: %v", common.ErrorStorage, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("failed to delete attachment row: %w", common.ErrorNotFound)
	}
	return nil
}

func (d *Datasource) SupportsAttachments() bool  { return true }
func (d *Datasource) SupportsRemoteBypass() bool { return true }

var _ datasource.Datasource = (*Datasource)(nil)
