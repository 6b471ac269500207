package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mediabridge/gateway/common/logger"
	"github.com/mediabridge/gateway/common/models"
)

// BlobStore is the contract the pipeline expects from a bucket-scoped store
type BlobStore interface {
	Store(ctx context.Context, r io.Reader, meta models.BlobMeta) (string, error)
	Fetch(ctx context.Context, fid string) (*models.Blob, error)
	Health(ctx context.Context) error
}

// GatewayService runs the per-request pipeline: store then publish on
// upload, fetch on download. Authentication and input validation happen
// at the handler boundary before these methods are called.
type GatewayService struct {
	videos         BlobStore
	mp3s           BlobStore
	publisher      JobPublisher
	storageTimeout time.Duration
	queueTimeout   time.Duration
	log            *logger.Logger
}

// NewGatewayService wires the pipeline's dependencies
func NewGatewayService(videos, mp3s BlobStore, publisher JobPublisher, storageTimeout, queueTimeout time.Duration, log *logger.Logger) *GatewayService {
	return &GatewayService{
		videos:         videos,
		mp3s:           mp3s,
		publisher:      publisher,
		storageTimeout: storageTimeout,
		queueTimeout:   queueTimeout,
		log:            log,
	}
}

// Upload stores the video stream and publishes a conversion job referencing
// the stored blob. Store and publish are strictly sequential. There is no
// compensation when publish fails after a successful store: the blob stays
// behind with no queued job and the request fails. The orphan is logged so
// an operator can reconcile it.
func (s *GatewayService) Upload(ctx context.Context, claims models.Claims, r io.Reader, meta models.BlobMeta) (string, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	fid, err := s.videos.Store(storeCtx, r, meta)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	log := s.log.WithBlobID(fid).WithUser(claims.Username)
	log.Info("video stored", "filename", meta.Filename, "media_type", meta.MediaType)

	pubCtx, cancel := context.WithTimeout(ctx, s.queueTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, models.NewConversionJob(fid, claims)); err != nil {
		log.Warn("publish failed after successful store, blob orphaned", "error", err)
		return "", err
	}

	return fid, nil
}

// Download fetches a converted artifact from the mp3 bucket
func (s *GatewayService) Download(ctx context.Context, fid string) (*models.Blob, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	blob, err := s.mp3s.Fetch(ctx, fid)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", fid, err)
	}
	return blob, nil
}

// Health probes both blob stores and the queue connection. Any of the
// three failing makes the gateway unavailable.
func (s *GatewayService) Health(ctx context.Context) error {
	if err := s.videos.Health(ctx); err != nil {
		return fmt.Errorf("video store: %w", err)
	}
	if err := s.mp3s.Health(ctx); err != nil {
		return fmt.Errorf("mp3 store: %w", err)
	}
	if err := s.publisher.Health(ctx); err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	return nil
}
