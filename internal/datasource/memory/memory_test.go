package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkalvans/buttervault/internal/common"
	"github.com/mkalvans/buttervault/internal/credentials"
	"github.com/mkalvans/buttervault/internal/datasource"
	"github.com/mkalvans/buttervault/internal/vault"
)

func testCreds() *credentials.Credentials {
	return credentials.New(credentials.Config{Type: "memory"}, []byte("master"))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	creds := testCreds()
	ds := New(creds)
	h := vault.History{"entry A"}

	require.NoError(t, ds.Save(ctx, h, creds))

	got, err := ds.Load(ctx, creds)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestLoad_EmptyIsNotFound(t *testing.T) {
	creds := testCreds()
	ds := New(creds)

	_, err := ds.Load(context.Background(), creds)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLoad_Bypass(t *testing.T) {
	ctx := context.Background()
	creds := testCreds()
	ds := New(creds)

	content, err := vault.Encode(vault.History{"injected"}, creds)
	require.NoError(t, err)
	ds.SetContent(content)

	h, err := ds.Load(ctx, creds)
	require.NoError(t, err)
	require.Equal(t, vault.History{"injected"}, h)
}

func TestAttachmentLifecycle(t *testing.T) {
	ctx := context.Background()
	creds := testCreds()
	ds := New(creds)
	payload := []byte{0x01, 0x02}

	require.NoError(t, ds.PutAttachment(ctx, "v1", "att1", payload, creds))

	got, err := ds.GetAttachment(ctx, "v1", "att1", creds)
	require.NoError(t, err)
	require.Equal(t, payload, got)

	details, err := ds.GetAttachmentDetails(ctx, "v1", "att1")
	require.NoError(t, err)
	require.Equal(t, "att1", details.ID)
	require.Equal(t, "v1", details.VaultID)
	require.Greater(t, details.Size, int64(len(payload)))

	require.NoError(t, ds.RemoveAttachment(ctx, "v1", "att1"))

	_, err = ds.GetAttachment(ctx, "v1", "att1", creds)
	require.ErrorIs(t, err, common.ErrorNotFound)

	err = ds.RemoveAttachment(ctx, "v1", "att1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAttachment_Passthrough(t *testing.T) {
	ctx := context.Background()
	ds := New(testCreds())
	blob := []byte("opaque")

	require.NoError(t, ds.PutAttachment(ctx, "v1", "raw", blob, nil))

	got, err := ds.GetAttachment(ctx, "v1", "raw", nil)
	require.NoError(t, err)
	require.Equal(t, blob, got)

	details, err := ds.GetAttachmentDetails(ctx, "v1", "raw")
	require.NoError(t, err)
	require.Equal(t, int64(len(blob)), details.Size)
}

func TestRegistry_ConstructsMemoryDatasource(t *testing.T) {
	ds, err := datasource.New("memory", testCreds())
	require.NoError(t, err)
	require.True(t, ds.SupportsAttachments())
	require.True(t, ds.SupportsRemoteBypass())
}
