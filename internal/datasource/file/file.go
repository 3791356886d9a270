// Package file implements the file-backed member of the datasource family:
// the vault body is one encrypted file, attachments live in a hidden
// .buttercup directory next to it.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/mkalvans/buttervault/internal/common"
	"github.com/mkalvans/buttervault/internal/credentials"
	"github.com/mkalvans/buttervault/internal/datasource"
	"github.com/mkalvans/buttervault/internal/datasource/textsource"
	"github.com/mkalvans/buttervault/internal/filex"
	"github.com/mkalvans/buttervault/internal/logging"
	"github.com/mkalvans/buttervault/internal/vault"
)

const (
	dirPerm  = 0o770
	filePerm = 0o660
)

func init() {
	datasource.Register("file", func(creds *credentials.Credentials) (datasource.Datasource, error) {
		return New(creds)
	})
}

// Datasource persists one vault to a local file. It holds no open file
// handles between operations; every call opens, uses and releases its
// backing resource.
type Datasource struct {
	text *textsource.TextDatasource
	fs   filex.FS
	log  logging.Logger

	path    string
	baseDir string
}

type Option func(*Datasource)

// WithFS replaces the backing storage primitives, e.g. with filex.MemFS in
// tests.
func WithFS(fs filex.FS) Option {
	return func(d *Datasource) { d.fs = fs }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(d *Datasource) { d.log = l }
}

// New builds a file datasource bound to the persistence path the credentials
// handle resolves to. The attachment directory convention hangs off that
// path's parent directory.
func New(creds *credentials.Credentials, opts ...Option) (*Datasource, error) {
	cfg := creds.Config()
	if cfg.Path == "" {
		return nil, errors.New("file datasource requires a persistence path")
	}

	d := &Datasource{
		text:    textsource.New(),
		fs:      filex.NewOSFS(),
		log:     logging.NewNopLogger(),
		path:    cfg.Path,
		baseDir: filepath.Dir(cfg.Path),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// SetContent injects encrypted vault content directly, so the next Load
// skips the file read. This is the remote-bypass entry point for
// offline/cached-first callers.
func (d *Datasource) SetContent(content string) {
	d.text.SetContent(content)
}

// ContentState exposes the load state machine's current state.
func (d *Datasource) ContentState() textsource.State {
	return d.text.State()
}

// Load implements the two-state load protocol: read the backing file only
// when nothing is cached, then decode the cached content under creds.
//
// A read failure leaves the state Unloaded; a decode failure leaves the
// cached content untouched.
func (d *Datasource) Load(ctx context.Context, creds *credentials.Credentials) (vault.History, error) {
	if !d.text.HasContent() {
		d.log.Debug(ctx, "reading vault file", "path", d.path)
		data, err := d.fs.ReadFile(d.path)
		if err != nil {
			return nil, mapStorageErr("failed to read vault file", err)
		}
		d.text.CacheRead(string(data))
	}

	return d.text.Decode(creds)
}

// Save encodes history under creds and writes the result whole to the
// backing path, overwriting prior content. Encoding failures surface before
// any I/O; the write itself is a direct replace with no temp-file safety
// net.
func (d *Datasource) Save(ctx context.Context, h vault.History, creds *credentials.Credentials) error {
	content, err := d.text.Encode(h, creds)
	if err != nil {
		return err
	}

	d.log.Debug(ctx, "writing vault file", "path", d.path, "bytes", len(content))
	if err := d.fs.WriteFile(d.path, []byte(content), filePerm); err != nil {
		return fmt.Errorf("failed to write vault file: %w: %v", common.ErrorStorage, err)
	}
	return nil
}

// SupportsAttachments reports true: this backend stores attachment files.
func (d *Datasource) SupportsAttachments() bool { return true }

// SupportsRemoteBypass reports true: cached content is served without a
// re-read.
func (d *Datasource) SupportsRemoteBypass() bool { return true }

// mapStorageErr turns a raw filesystem error into the taxonomy callers match
// on: absence is a not-found fault, everything else a storage fault.
func mapStorageErr(op string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, common.ErrorNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, common.ErrorStorage, err)
}

var _ datasource.Datasource = (*Datasource)(nil)
