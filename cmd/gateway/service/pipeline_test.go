package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediabridge/gateway/common/logger"
	"github.com/mediabridge/gateway/common/models"
)

// memBlobStore is an in-memory BlobStore recording every call
type memBlobStore struct {
	mu         sync.Mutex
	blobs      map[string]*models.Blob
	storeCalls int
	fetchCalls int
	storeErr   error
	healthErr  error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string]*models.Blob)}
}

func (m *memBlobStore) Store(_ context.Context, r io.Reader, meta models.BlobMeta) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.storeCalls++
	if m.storeErr != nil {
		return "", m.storeErr
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	fid := fmt.Sprintf("fid-%d", m.storeCalls)
	m.blobs[fid] = &models.Blob{
		FID:       fid,
		Filename:  meta.Filename,
		MediaType: meta.MediaType,
		SizeBytes: int64(len(content)),
		Content:   content,
	}
	return fid, nil
}

func (m *memBlobStore) Fetch(_ context.Context, fid string) (*models.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fetchCalls++
	blob, ok := m.blobs[fid]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return blob, nil
}

func (m *memBlobStore) Health(context.Context) error {
	return m.healthErr
}

// recordingPublisher captures published jobs
type recordingPublisher struct {
	mu         sync.Mutex
	jobs       []models.ConversionJob
	publishErr error
	healthErr  error
}

func (p *recordingPublisher) Publish(_ context.Context, job models.ConversionJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.publishErr != nil {
		return p.publishErr
	}
	p.jobs = append(p.jobs, job)
	return nil
}

func (p *recordingPublisher) Health(context.Context) error {
	return p.healthErr
}

func newTestPipeline(videos, mp3s *memBlobStore, pub *recordingPublisher) *GatewayService {
	return NewGatewayService(videos, mp3s, pub, time.Second, time.Second, logger.New("error", "json"))
}

func TestUpload_PublishesStoredFID(t *testing.T) {
	videos := newMemBlobStore()
	pub := &recordingPublisher{}
	svc := newTestPipeline(videos, newMemBlobStore(), pub)

	claims := models.Claims{Admin: true, Username: "alice"}
	fid, err := svc.Upload(context.Background(), claims, bytes.NewReader([]byte("video-bytes")), models.BlobMeta{Filename: "cat.mp4"})
	require.NoError(t, err)
	require.NotEmpty(t, fid)

	require.Len(t, pub.jobs, 1)
	assert.Equal(t, fid, pub.jobs[0].VideoFID, "published job must reference the stored identifier")
	assert.Equal(t, "alice", pub.jobs[0].Username)
	assert.True(t, pub.jobs[0].Admin)
}

func TestUpload_PublishFailureFailsRequest(t *testing.T) {
	videos := newMemBlobStore()
	pub := &recordingPublisher{publishErr: ErrPublish}
	svc := newTestPipeline(videos, newMemBlobStore(), pub)

	_, err := svc.Upload(context.Background(), models.Claims{Admin: true}, bytes.NewReader([]byte("x")), models.BlobMeta{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPublish)

	// The blob stays behind, the accepted orphan case
	assert.Equal(t, 1, videos.storeCalls)
	assert.Len(t, videos.blobs, 1)
}

func TestUpload_StoreFailureSkipsPublish(t *testing.T) {
	videos := newMemBlobStore()
	videos.storeErr = errors.New("disk full")
	pub := &recordingPublisher{}
	svc := newTestPipeline(videos, newMemBlobStore(), pub)

	_, err := svc.Upload(context.Background(), models.Claims{Admin: true}, bytes.NewReader([]byte("x")), models.BlobMeta{})
	require.Error(t, err)
	assert.Empty(t, pub.jobs, "publish must never run after a failed store")
}

func TestDownload_RoundTrip(t *testing.T) {
	// One store plays both buckets so a stored blob can be fetched back
	store := newMemBlobStore()
	svc := newTestPipeline(store, store, &recordingPublisher{})

	content := []byte("converted-audio-bytes")
	fid, err := svc.Upload(context.Background(), models.Claims{Admin: true}, bytes.NewReader(content), models.BlobMeta{})
	require.NoError(t, err)

	blob, err := svc.Download(context.Background(), fid)
	require.NoError(t, err)
	assert.Equal(t, content, blob.Content, "fetch must return the stored bytes unchanged")
}

func TestDownload_Unknown(t *testing.T) {
	svc := newTestPipeline(newMemBlobStore(), newMemBlobStore(), &recordingPublisher{})

	_, err := svc.Download(context.Background(), "no-such-fid")
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	videos := newMemBlobStore()
	mp3s := newMemBlobStore()
	pub := &recordingPublisher{}
	svc := newTestPipeline(videos, mp3s, pub)

	require.NoError(t, svc.Health(context.Background()))

	videos.healthErr = errors.New("db down")
	assert.Error(t, svc.Health(context.Background()))

	videos.healthErr = nil
	pub.healthErr = errors.New("broker down")
	assert.Error(t, svc.Health(context.Background()))
}

func TestHealthMP3StoreDown(t *testing.T) {
	mp3s := newMemBlobStore()
	svc := newTestPipeline(newMemBlobStore(), mp3s, &recordingPublisher{})

	mp3s.healthErr = errors.New("db down")
	err := svc.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mp3 store")
}
