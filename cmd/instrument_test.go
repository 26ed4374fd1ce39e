package main

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fadhelhaji/90Plus-backend/metrics"
	"github.com/fadhelhaji/90Plus-backend/services"
	"github.com/fadhelhaji/90Plus-backend/storage"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	clubIDs []int
}

func (c *capturePublisher) Publish(clubID int, _ string, _ interface{}) {
	c.clubIDs = append(c.clubIDs, clubID)
}

type brokenUploader struct{}

func (brokenUploader) Upload(context.Context, string, string, io.Reader) (*storage.UploadResult, error) {
	return nil, errors.New("bucket unavailable")
}

func (brokenUploader) Delete(context.Context, string) error {
	return errors.New("bucket unavailable")
}

func (brokenUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

func TestMeteredPublisherCountsEvents(t *testing.T) {
	m := metrics.New()
	next := &capturePublisher{}
	p := &meteredPublisher{next: next, metrics: m}

	p.Publish(4, services.EventGameCreated, nil)
	p.Publish(4, services.EventGameCreated, nil)
	p.Publish(9, services.EventGameScoreUpdated, nil)

	assert.Equal(t, []int{4, 4, 9}, next.clubIDs)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DomainEventsTotal.WithLabelValues(services.EventGameCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DomainEventsTotal.WithLabelValues(services.EventGameScoreUpdated)))
}

func TestMeteredUploaderCountsFailures(t *testing.T) {
	m := metrics.New()
	u := &meteredUploader{FileUploader: brokenUploader{}, metrics: m}

	_, err := u.Upload(context.Background(), "games/1/photos/a.jpg", "image/jpeg", strings.NewReader("x"))
	require.Error(t, err)
	require.Error(t, u.Delete(context.Background(), "games/1/photos/a.jpg"))
	require.Error(t, u.Delete(context.Background(), "games/1/photos/b.jpg"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PhotoStorageErrorsTotal.WithLabelValues("upload")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PhotoStorageErrorsTotal.WithLabelValues("delete")))
	assert.Equal(t, "https://cdn.test/k", u.GetPublicURL("k"))
}

func TestMeteredUploaderPassesThroughSuccess(t *testing.T) {
	m := metrics.New()
	local, err := storage.NewLocalUploader(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	u := &meteredUploader{FileUploader: local, metrics: m}

	result, err := u.Upload(context.Background(), "games/1/photos/a.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/games/1/photos/a.png", result.Location)
	require.NoError(t, u.Delete(context.Background(), "games/1/photos/a.png"))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PhotoStorageErrorsTotal.WithLabelValues("upload")))
}
