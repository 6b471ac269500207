package container

import (
	"context"
	"fmt"

	"github.com/mediabridge/gateway/cmd/gateway/handlers"
	"github.com/mediabridge/gateway/cmd/gateway/repository"
	"github.com/mediabridge/gateway/cmd/gateway/service"
	"github.com/mediabridge/gateway/common/bootstrap"
	"github.com/mediabridge/gateway/common/clients"
	"github.com/mediabridge/gateway/common/ratelimit"
)

// Container holds all initialized services and handlers (singleton pattern)
type Container struct {
	Components *bootstrap.Components

	// Clients
	AuthClient *clients.AuthClient

	// Stores and services
	VideoStore service.BlobStore
	MP3Store   service.BlobStore
	Publisher  service.JobPublisher
	Pipeline   *service.GatewayService

	// Rate limiting (nil when disabled)
	LoginLimiter *ratelimit.Limiter

	// Handlers
	AuthHandler   *handlers.AuthHandler
	MediaHandler  *handlers.MediaHandler
	HealthHandler *handlers.HealthHandler
}

// New initializes all services and handlers once
func New(ctx context.Context, components *bootstrap.Components) (*Container, error) {
	cfg := components.Config
	log := components.Logger

	authClient := clients.NewAuthClient(cfg, log)

	videos, mp3s, err := buildStores(ctx, components)
	if err != nil {
		return nil, err
	}

	publisher := service.NewStreamPublisher(components.Queue, cfg.Queue.Stream, log)

	pipeline := service.NewGatewayService(
		videos,
		mp3s,
		publisher,
		cfg.Storage.OpTimeout,
		cfg.Queue.OpTimeout,
		log,
	)

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled && components.Redis != nil {
		limiter = ratelimit.New(
			components.Redis,
			"ratelimit:login",
			cfg.RateLimit.LoginLimit,
			cfg.RateLimit.LoginWindow,
			log,
		)
	}

	return &Container{
		Components:    components,
		AuthClient:    authClient,
		VideoStore:    videos,
		MP3Store:      mp3s,
		Publisher:     publisher,
		Pipeline:      pipeline,
		LoginLimiter:  limiter,
		AuthHandler:   handlers.NewAuthHandler(authClient, log),
		MediaHandler:  handlers.NewMediaHandler(pipeline, log),
		HealthHandler: handlers.NewHealthHandler(pipeline, log),
	}, nil
}

// buildStores constructs one bucket-scoped blob store per logical bucket,
// sharing a single backend connection
func buildStores(ctx context.Context, components *bootstrap.Components) (service.BlobStore, service.BlobStore, error) {
	cfg := components.Config
	log := components.Logger

	switch cfg.Storage.Backend {
	case "postgres":
		if components.DB == nil {
			return nil, nil, fmt.Errorf("postgres backend requires a database connection")
		}
		videos := repository.NewPostgresBlobStore(components.DB, cfg.Storage.VideoBucket, log)
		mp3s := repository.NewPostgresBlobStore(components.DB, cfg.Storage.MP3Bucket, log)
		return videos, mp3s, nil

	case "s3":
		client, err := repository.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("build s3 client: %w", err)
		}
		videos := repository.NewS3BlobStore(client, cfg.Storage.VideoBucket, log)
		mp3s := repository.NewS3BlobStore(client, cfg.Storage.MP3Bucket, log)
		return videos, mp3s, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
