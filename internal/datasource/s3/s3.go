// Package s3 implements the object-store member of the datasource family
// against any S3-compatible endpoint (AWS, MinIO). The vault body lives at a
// single object key; attachments live under a .buttercup/ key prefix next to
// it, mirroring the file backend's directory convention.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mkalvans/buttervault/internal/common"
	"github.com/mkalvans/buttervault/internal/credentials"
	"github.com/mkalvans/buttervault/internal/datasource"
	"github.com/mkalvans/buttervault/internal/datasource/textsource"
	"github.com/mkalvans/buttervault/internal/logging"
	"github.com/mkalvans/buttervault/internal/vault"
)

func init() {
	datasource.Register("s3", func(creds *credentials.Credentials) (datasource.Datasource, error) {
		return New(creds)
	})
}

// ObjectAPI is the subset of the S3 client the datasource uses. Tests
// substitute an in-memory implementation.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *awss3.HeadObjectInput, optFns ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// Datasource persists one vault to an S3 bucket. Object stores have no
// directories, so the directory-ensure step of the attachment protocol is a
// structural no-op here; the operations still share the family's key layout.
type Datasource struct {
	text   *textsource.TextDatasource
	client ObjectAPI
	log    logging.Logger

	bucket  string
	key     string
	baseDir string
}

type Option func(*Datasource)

// WithClient replaces the S3 client, e.g. with a fake in tests.
func WithClient(c ObjectAPI) Option {
	return func(d *Datasource) { d.client = c }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(d *Datasource) { d.log = l }
}

// New builds an S3 datasource from the handle's configuration: bucket,
// region, optional custom endpoint (MinIO) and static credentials, plus the
// object key of the vault body.
func New(creds *credentials.Credentials, opts ...Option) (*Datasource, error) {
	cfg := creds.Config()
	if cfg.Path == "" {
		return nil, errors.New("s3 datasource requires an object key")
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("s3 datasource requires a bucket")
	}

	baseDir := path.Dir(cfg.Path)
	if baseDir == "." {
		baseDir = ""
	}

	d := &Datasource{
		text:    textsource.New(),
		log:     logging.NewNopLogger(),
		bucket:  cfg.S3Bucket,
		key:     cfg.Path,
		baseDir: baseDir,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.client == nil {
		client, err := newClient(cfg)
		if err != nil {
			return nil, err
		}
		d.client = client
	}
	return d, nil
}

func newClient(cfg credentials.Config) (*awss3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// attachmentKey maps the family's directory convention onto object keys.
func (d *Datasource) attachmentKey(vaultID, attachmentID string) string {
	return path.Join(d.baseDir, datasource.AttachmentsDirName, vaultID, datasource.AttachmentFileName(attachmentID))
}

func (d *Datasource) getObject(ctx context.Context, key string) ([]byte, error) {
	out, err := d.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapObjectErr("failed to get object", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w: %v", common.ErrorStorage, err)
	}
	return data, nil
}

func (d *Datasource) putObject(ctx context.Context, key string, data []byte) error {
	_, err := d.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w: %v", common.ErrorStorage, err)
	}
	return nil
}

// SetContent injects encrypted vault content, the bypass entry point.
func (d *Datasource) SetContent(content string) {
	d.text.SetContent(content)
}

func (d *Datasource) Load(ctx context.Context, creds *credentials.Credentials) (vault.History, error) {
	if !d.text.HasContent() {
		d.log.Debug(ctx, "reading vault object", "bucket", d.bucket, "key", d.key)
		data, err := d.getObject(ctx, d.key)
		if err != nil {
			return nil, err
		}
		d.text.CacheRead(string(data))
	}
	return d.text.Decode(creds)
}

func (d *Datasource) Save(ctx context.Context, h vault.History, creds *credentials.Credentials) error {
	content, err := d.text.Encode(h, creds)
	if err != nil {
		return err
	}

	d.log.Debug(ctx, "writing vault object", "bucket", d.bucket, "key", d.key)
	return d.putObject(ctx, d.key, []byte(content))
}

func (d *Datasource) GetAttachment(ctx context.Context, vaultID, attachmentID string, creds *credentials.Credentials) ([]byte, error) {
	data, err := d.getObject(ctx, d.attachmentKey(vaultID, attachmentID))
	if err != nil {
		return nil, err
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
	key := d.attachmentKey(vaultID, attachmentID)
	out, err := d.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapObjectErr("failed to head object", err)
	}

	return &datasource.AttachmentDetails{
		ID:       attachmentID,
		VaultID:  vaultID,
		Name:     datasource.AttachmentFileName(attachmentID),
		Filename: key,
		Size:     aws.ToInt64(out.ContentLength),
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
	return d.putObject(ctx, d.attachmentKey(vaultID, attachmentID), payload)
}

// RemoveAttachment deletes the attachment object. S3 deletes are silent on
// missing keys, so absence is checked first to keep the family's
// remove-missing-is-an-error policy.
func (d *Datasource) RemoveAttachment(ctx context.Context, vaultID, attachmentID string) error {
	key := d.attachmentKey(vaultID, attachmentID)

	if _, err := d.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return mapObjectErr("failed to remove attachment", err)
	}

	if _, err := d.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete object: %w: %v", common.ErrorStorage, err)
	}
	return nil
}

func (d *Datasource) SupportsAttachments() bool  { return true }
func (d *Datasource) SupportsRemoteBypass() bool { return true }

// mapObjectErr translates S3 API errors into the family's fault taxonomy.
func mapObjectErr(op string, err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return fmt.Errorf("%s: %w", op, common.ErrorNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, common.ErrorStorage, err)
}

var _ datasource.Datasource = (*Datasource)(nil)
