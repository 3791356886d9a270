package s3

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"

	"github.com/mkalvans/buttervault/internal/common"
	"github.com/mkalvans/buttervault/internal/credentials"
	"github.com/mkalvans/buttervault/internal/datasource"
	"github.com/mkalvans/buttervault/internal/vault"
)

// fakeBucket implements ObjectAPI over a map, with S3's error shapes.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	gets    int
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string][]byte)}
}

func (f *fakeBucket) GetObject(ctx context.Context, in *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &awss3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func (f *fakeBucket) PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.objects[aws.ToString(in.Key)] = data
	f.mu.Unlock()
	return &awss3.PutObjectOutput{}, nil
}

func (f *fakeBucket) HeadObject(ctx context.Context, in *awss3.HeadObjectInput, optFns ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &awss3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (f *fakeBucket) DeleteObject(ctx context.Context, in *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	f.mu.Lock()
	delete(f.objects, aws.ToString(in.Key))
	f.mu.Unlock()
	return &awss3.DeleteObjectOutput{}, nil
}

func testCreds() *credentials.Credentials {
	return credentials.New(credentials.Config{
		Type:     "s3",
		Path:     "vaults/main.bcup",
		S3Bucket: "vault",
	}, []byte("master"))
}

func newFakeDatasource(t *testing.T) (*Datasource, *fakeBucket, *credentials.Credentials) {
	t.Helper()
	bucket := newFakeBucket()
	creds := testCreds()
	ds, err := New(creds, WithClient(bucket))
	require.NoError(t, err)
	return ds, bucket, creds
}

func TestNew_Validation(t *testing.T) {
	_, err := New(credentials.New(credentials.Config{Type: "s3", S3Bucket: "b"}, []byte("pw")))
	require.Error(t, err)

	_, err = New(credentials.New(credentials.Config{Type: "s3", Path: "k"}, []byte("pw")))
	require.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ds, bucket, creds := newFakeDatasource(t)
	h := vault.History{"entry A"}

	require.NoError(t, ds.Save(ctx, h, creds))
	require.Contains(t, bucket.objects, "vaults/main.bcup")

	fresh, err := New(creds, WithClient(bucket))
	require.NoError(t, err)
	got, err := fresh.Load(ctx, creds)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestLoad_MissingObject(t *testing.T) {
	ds, _, creds := newFakeDatasource(t)

	_, err := ds.Load(context.Background(), creds)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLoad_BypassAndCaching(t *testing.T) {
	ctx := context.Background()
	ds, bucket, creds := newFakeDatasource(t)

	content, err := vault.Encode(vault.History{"injected"}, creds)
	require.NoError(t, err)
	ds.SetContent(content)

	for i := 0; i < 2; i++ {
		h, err := ds.Load(ctx, creds)
		require.NoError(t, err)
		require.Equal(t, vault.History{"injected"}, h)
	}
	require.Equal(t, 0, bucket.gets)
}

func TestAttachmentKeyLayout(t *testing.T) {
	ds, bucket, creds := newFakeDatasource(t)
	ctx := context.Background()

	require.NoError(t, ds.PutAttachment(ctx, "v1", "att1", []byte{0x01}, creds))
	require.Contains(t, bucket.objects, "vaults/.buttercup/v1/att1."+datasource.AttachmentExt)
}

func TestAttachmentKeyLayout_RootKey(t *testing.T) {
	creds := credentials.New(credentials.Config{Type: "s3", Path: "main.bcup", S3Bucket: "vault"}, []byte("pw"))
	bucket := newFakeBucket()
	ds, err := New(creds, WithClient(bucket))
	require.NoError(t, err)

	require.NoError(t, ds.PutAttachment(context.Background(), "v1", "att1", []byte{0x01}, nil))
	require.Contains(t, bucket.objects, ".buttercup/v1/att1."+datasource.AttachmentExt)
}

func TestAttachmentLifecycle(t *testing.T) {
	ctx := context.Background()
	ds, _, creds := newFakeDatasource(t)
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

	// the policy holds on object stores too, despite silent S3 deletes
	err = ds.RemoveAttachment(ctx, "v1", "att1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAttachment_Passthrough(t *testing.T) {
	ctx := context.Background()
	ds, _, _ := newFakeDatasource(t)
	blob := []byte("pre-encrypted")

	require.NoError(t, ds.PutAttachment(ctx, "v1", "raw", blob, nil))

	got, err := ds.GetAttachment(ctx, "v1", "raw", nil)
	require.NoError(t, err)
	require.Equal(t, blob, got)

	details, err := ds.GetAttachmentDetails(ctx, "v1", "raw")
	require.NoError(t, err)
	require.Equal(t, int64(len(blob)), details.Size)
}

func TestCapabilities(t *testing.T) {
	ds, _, _ := newFakeDatasource(t)
	require.True(t, ds.SupportsAttachments())
	require.True(t, ds.SupportsRemoteBypass())
}
