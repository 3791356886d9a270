package cli

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkalvans/buttervault/internal/config"
	"github.com/mkalvans/buttervault/internal/credentials"
	"github.com/mkalvans/buttervault/internal/datasource/memory"
	"github.com/mkalvans/buttervault/internal/logging"
	"github.com/mkalvans/buttervault/internal/vault"
)

// newTestApp wires an App over the memory backend with scripted stdin.
func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer) {
	t.Helper()

	creds := credentials.New(credentials.Config{Type: "memory", Path: "mem"}, []byte("pw"))
	out := &bytes.Buffer{}

	return &App{
		config: &config.Config{DatasourceType: "memory", VaultPath: "mem"},
		log:    logging.NewNopLogger(),
		creds:  creds,
		ds:     memory.New(creds),
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}, out
}

func TestOpen_StartsNewVault(t *testing.T) {
	app, out := newTestApp(t, "")

	require.NoError(t, app.open(context.Background()))
	require.True(t, app.isOpen())
	require.NotEmpty(t, app.vaultID)
	require.Contains(t, out.String(), "starting a new one")
}

func TestOpen_ExistingVaultKeepsID(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t, "")

	require.NoError(t, app.open(ctx))
	id := app.vaultID
	require.NoError(t, app.save(ctx))

	// a second session over the same datasource sees the same vault ID
	fresh := &App{
		config: app.config,
		log:    app.log,
		creds:  app.creds,
		ds:     app.ds,
		reader: bufio.NewReader(strings.NewReader("")),
		out:    &bytes.Buffer{},
	}
	require.NoError(t, fresh.open(ctx))
	require.Equal(t, id, fresh.vaultID)
}

func TestAdd_AppendsEntry(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "my secret note\n")
	require.NoError(t, app.open(ctx))

	before := len(app.history)
	require.NoError(t, app.add(ctx))

	require.Len(t, app.history, before+1)
	require.Contains(t, app.history[len(app.history)-1], "my secret note")
	require.Contains(t, out.String(), "Added entry")
}

func TestAttachFetchDetach(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(src, []byte("attachment payload"), 0o660))
	dest := filepath.Join(dir, "out.txt")

	app, out := newTestApp(t, src+"\n")
	require.NoError(t, app.open(ctx))

	require.NoError(t, app.attach(ctx))
	require.Contains(t, out.String(), "Attached as")

	// the attachment ID was recorded in history
	last := app.history[len(app.history)-1]
	parts := strings.Fields(last)
	require.Equal(t, "attachment", parts[0])
	id := parts[1]

	app.reader = bufio.NewReader(strings.NewReader(id + "\n" + dest + "\n"))
	require.NoError(t, app.fetch(ctx))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, []byte("attachment payload"), data)

	app.reader = bufio.NewReader(strings.NewReader(id + "\n"))
	require.NoError(t, app.info(ctx))

	app.reader = bufio.NewReader(strings.NewReader(id + "\n"))
	require.NoError(t, app.detach(ctx))

	app.reader = bufio.NewReader(strings.NewReader(id + "\n" + dest + "\n"))
	require.Error(t, app.fetch(ctx))
}

func TestList_Empty(t *testing.T) {
	app, out := newTestApp(t, "")
	app.history = vault.History{}
	app.opened = true

	require.NoError(t, app.list(context.Background()))
	require.Contains(t, out.String(), "(empty)")
}

func TestVaultIDFromHistory(t *testing.T) {
	require.Equal(t, "abc", vaultIDFromHistory(vault.History{"vault abc"}))
	require.Equal(t, "primary", vaultIDFromHistory(vault.History{"entry x y"}))
	require.Equal(t, "primary", vaultIDFromHistory(vault.History{}))
}
