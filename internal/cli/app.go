// Package cli implements the interactive buttervault command-line client: a
// small REPL over one datasource instance bound to one credentials handle.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mkalvans/buttervault/internal/config"
	"github.com/mkalvans/buttervault/internal/credentials"
	"github.com/mkalvans/buttervault/internal/datasource"
	"github.com/mkalvans/buttervault/internal/logging"
	"github.com/mkalvans/buttervault/internal/vault"

	// registered datasource backends
	_ "github.com/mkalvans/buttervault/internal/datasource/file"
	_ "github.com/mkalvans/buttervault/internal/datasource/memory"
	_ "github.com/mkalvans/buttervault/internal/datasource/postgres"
	_ "github.com/mkalvans/buttervault/internal/datasource/s3"
)

type App struct {
	config *config.Config
	log    logging.Logger

	creds   *credentials.Credentials
	ds      datasource.Datasource
	history vault.History
	vaultID string
	opened  bool

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})

	return &App{
		config: c,
		log:    logging.NewSlogLogger(slog.New(handler)),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.creds != nil {
			a.creds.Wipe()
		}
	}()
	a.Root(ctx)
}

func (a *App) isOpen() bool {
	return a.opened
}

// unlock builds the credentials handle from the master password and
// constructs the configured datasource against it.
func (a *App) unlock(ctx context.Context) error {
	password, err := GetPassword(a.out)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	a.creds = credentials.New(credentials.Config{
		Type:        a.config.DatasourceType,
		Path:        a.config.VaultPath,
		S3Bucket:    a.config.S3Bucket,
		S3Region:    a.config.S3Region,
		S3Endpoint:  a.config.S3Endpoint,
		S3AccessKey: a.config.S3AccessKey,
		S3SecretKey: a.config.S3SecretKey,
		DatabaseDSN: a.config.DatabaseDSN,
	}, password)

	ds, err := datasource.New(a.config.DatasourceType, a.creds)
	if err != nil {
		return fmt.Errorf("failed to create %q datasource: %w", a.config.DatasourceType, err)
	}
	a.ds = ds

	a.log.Info(ctx, "datasource ready",
		"type", a.config.DatasourceType, "path", a.config.VaultPath)
	return nil
}
