package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/mediabridge/gateway/common/config"
	"github.com/mediabridge/gateway/common/logger"
	"github.com/mediabridge/gateway/common/models"
)

// S3BlobStore persists blobs in an S3-compatible object store (AWS S3,
// Cloudflare R2, MinIO). One instance per logical bucket.
type S3BlobStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	log      *logger.Logger
}

// NewS3Client builds the shared S3 client from configuration. A non-empty
// endpoint switches to path-style addressing for R2/MinIO compatibility.
func NewS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Storage.S3Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Storage.S3AccessKey, cfg.Storage.S3SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}

// NewS3BlobStore creates a bucket-scoped store on a shared client
func NewS3BlobStore(client *s3.Client, bucket string, log *logger.Logger) *S3BlobStore {
	return &S3BlobStore{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		log:      log,
	}
}

// Store streams the upload into the bucket under a fresh identifier
func (s *S3BlobStore) Store(ctx context.Context, r io.Reader, meta models.BlobMeta) (string, error) {
	fid := uuid.NewString()

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fid),
		Body:        r,
		ContentType: aws.String(meta.MediaType),
		Metadata: map[string]string{
			"filename":    meta.Filename,
			"uploaded-by": meta.UploadedBy,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to store blob: %w", err)
	}

	s.log.Debug("blob stored", "fid", fid, "bucket", s.bucket)
	return fid, nil
}

// Fetch retrieves a blob by identifier
func (s *S3BlobStore) Fetch(ctx context.Context, fid string) (*models.Blob, error) {
	if _, err := uuid.Parse(fid); err != nil {
		return nil, fmt.Errorf("%w: invalid fid %q", ErrBlobNotFound, fid)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fid),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, fid)
		}
		return nil, fmt.Errorf("failed to fetch blob %s: %w", fid, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", fid, err)
	}

	blob := &models.Blob{
		FID:        fid,
		Bucket:     s.bucket,
		Filename:   out.Metadata["filename"],
		UploadedBy: out.Metadata["uploaded-by"],
		SizeBytes:  int64(len(content)),
		Content:    content,
	}
	if out.ContentType != nil {
		blob.MediaType = *out.ContentType
	}
	if out.LastModified != nil {
		blob.CreatedAt = *out.LastModified
	}
	return blob, nil
}

// Health checks bucket reachability
func (s *S3BlobStore) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s unavailable: %w", s.bucket, err)
	}
	return nil
}
