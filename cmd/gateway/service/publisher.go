package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mediabridge/gateway/common/logger"
	"github.com/mediabridge/gateway/common/models"
	"github.com/mediabridge/gateway/common/queue"
)

// ErrPublish is returned when the conversion job cannot be handed to the broker
var ErrPublish = errors.New("failed to publish conversion job")

// JobPublisher emits conversion jobs onto the work queue
type JobPublisher interface {
	Publish(ctx context.Context, job models.ConversionJob) error
	Health(ctx context.Context) error
}

// StreamPublisher publishes jobs to a named stream over a shared queue
// connection. Safe for concurrent use; the underlying client serializes
// commands on its own connection pool.
type StreamPublisher struct {
	queue  queue.Queue
	stream string
	log    *logger.Logger
}

// NewStreamPublisher creates a publisher bound to one stream
func NewStreamPublisher(q queue.Queue, stream string, log *logger.Logger) *StreamPublisher {
	return &StreamPublisher{
		queue:  q,
		stream: stream,
		log:    log,
	}
}

// Publish serializes the job and appends it to the stream. Once this
// returns nil the job is durably queued for the converter.
func (p *StreamPublisher) Publish(ctx context.Context, job models.ConversionJob) error {
	payload, err := job.Marshal()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	if err := p.queue.Publish(ctx, p.stream, job.VideoFID, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.log.Info("conversion job published", "stream", p.stream, "fid", job.VideoFID)
	return nil
}

// Health checks the broker connection
func (p *StreamPublisher) Health(ctx context.Context) error {
	return p.queue.Health(ctx)
}
