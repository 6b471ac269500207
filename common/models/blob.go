package models

import "time"

// Blob is a stored media object plus the metadata the store keeps about it.
// Maps to: blob table (postgres backend) or object metadata (s3 backend).
type Blob struct {
	// Store-assigned identifier (uuid)
	FID string `db:"fid" json:"fid"`

	// Logical bucket: "videos" for raw uploads, "mp3s" for converted output
	Bucket string `db:"bucket" json:"bucket"`

	// Original filename as supplied by the uploader
	Filename string `db:"filename" json:"filename"`

	// Declared content type of the upload
	MediaType string `db:"media_type" json:"media_type"`

	// Blob size in bytes
	SizeBytes int64 `db:"size_bytes" json:"size_bytes"`

	// Username of the uploader
	UploadedBy string `db:"uploaded_by" json:"uploaded_by"`

	// Creation timestamp
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Raw content; omitted from listings
	Content []byte `db:"content" json:"-"`
}

// BlobMeta carries the caller-supplied metadata for a store write
type BlobMeta struct {
	Filename   string
	MediaType  string
	UploadedBy string
}
