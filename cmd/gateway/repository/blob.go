package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mediabridge/gateway/common/db"
	"github.com/mediabridge/gateway/common/logger"
	"github.com/mediabridge/gateway/common/models"
)

// ErrBlobNotFound is returned when an identifier is malformed or no blob
// exists under it
var ErrBlobNotFound = errors.New("blob not found")

// PostgresBlobStore persists blobs in a Postgres table, scoped to one
// logical bucket. The write is a single INSERT, so a returned fid always
// refers to a fully stored blob.
type PostgresBlobStore struct {
	db     *db.DB
	bucket string
	log    *logger.Logger
}

// NewPostgresBlobStore creates a bucket-scoped store on a shared pool
func NewPostgresBlobStore(db *db.DB, bucket string, log *logger.Logger) *PostgresBlobStore {
	return &PostgresBlobStore{
		db:     db,
		bucket: bucket,
		log:    log,
	}
}

// Store writes the full stream under a fresh identifier and returns it
func (s *PostgresBlobStore) Store(ctx context.Context, r io.Reader, meta models.BlobMeta) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload stream: %w", err)
	}

	fid := uuid.NewString()
	query := `
		INSERT INTO blob (fid, bucket, filename, media_type, size_bytes, uploaded_by, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = s.db.Exec(ctx, query,
		fid,
		s.bucket,
		meta.Filename,
		meta.MediaType,
		int64(len(content)),
		meta.UploadedBy,
		content,
		time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to store blob: %w", err)
	}

	s.log.Debug("blob stored", "fid", fid, "bucket", s.bucket, "size", len(content))
	return fid, nil
}

// Fetch retrieves a blob by identifier. Malformed identifiers and missing
// rows both surface as ErrBlobNotFound.
func (s *PostgresBlobStore) Fetch(ctx context.Context, fid string) (*models.Blob, error) {
	if _, err := uuid.Parse(fid); err != nil {
		return nil, fmt.Errorf("%w: invalid fid %q", ErrBlobNotFound, fid)
	}

	query := `
		SELECT fid, bucket, filename, media_type, size_bytes, uploaded_by, content, created_at
		FROM blob
		WHERE fid = $1 AND bucket = $2
	`

	blob := &models.Blob{}
	err := s.db.QueryRow(ctx, query, fid, s.bucket).Scan(
		&blob.FID,
		&blob.Bucket,
		&blob.Filename,
		&blob.MediaType,
		&blob.SizeBytes,
		&blob.UploadedBy,
		&blob.Content,
		&blob.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, fid)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blob %s: %w", fid, err)
	}

	return blob, nil
}

// Health checks the backing connection
func (s *PostgresBlobStore) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}
