package main

import (
	"context"
	"io"

	"github.com/fadhelhaji/90Plus-backend/metrics"
	"github.com/fadhelhaji/90Plus-backend/services"
	"github.com/fadhelhaji/90Plus-backend/storage"
)

type meteredPublisher struct {
	next    services.EventPublisher
	metrics *metrics.Metrics
}

func (p *meteredPublisher) Publish(clubID int, eventType string, payload interface{}) {
	p.metrics.IncDomainEvent(eventType)
	p.next.Publish(clubID, eventType, payload)
}

type meteredUploader struct {
	storage.FileUploader
	metrics *metrics.Metrics
}

func (u *meteredUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	result, err := u.FileUploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		u.metrics.IncPhotoStorageError("upload")
	}
	return result, err
}

func (u *meteredUploader) Delete(ctx context.Context, key string) error {
	err := u.FileUploader.Delete(ctx, key)
	if err != nil {
		u.metrics.IncPhotoStorageError("delete")
	}
	return err
}
