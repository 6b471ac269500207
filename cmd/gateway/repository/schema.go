package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mediabridge/gateway/common/db"
)

const blobSchema = `
CREATE TABLE IF NOT EXISTS blob (
	fid         UUID PRIMARY KEY,
	bucket      TEXT NOT NULL,
	filename    TEXT NOT NULL DEFAULT '',
	media_type  TEXT NOT NULL DEFAULT '',
	size_bytes  BIGINT NOT NULL,
	uploaded_by TEXT NOT NULL DEFAULT '',
	content     BYTEA NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_blob_bucket ON blob (bucket, created_at DESC);
`

// InitSchema applies the blob table schema, used as the bootstrap DB init hook
func InitSchema(database *db.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Exec(ctx, blobSchema); err != nil {
		return fmt.Errorf("apply blob schema: %w", err)
	}
	return nil
}
