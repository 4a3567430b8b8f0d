package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventsystem/service-booking/internal/domain/media"
	"github.com/eventsystem/service-booking/internal/platform/apperr"
)

// ImageUpload is an uploaded file as read from the request.
type ImageUpload struct {
	Data        []byte
	FileName    string
	ContentType string
}

// MediaService accepts images and mints retrieval URLs for them.
type MediaService struct {
	store  media.Store
	logger *zap.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(store media.Store, logger *zap.Logger) *MediaService {
	return &MediaService{store: store, logger: logger}
}

// Ingest validates the upload and stores it under a fresh unique name. An
// upload that fails validation never reaches the store.
func (s *MediaService) Ingest(ctx context.Context, data []byte, fileName, contentType string) (media.StoredImageRef, error) {
	size := int64(len(data))
	if err := media.Validate(size, fileName); err != nil {
		s.logger.Warn("rejected image upload",
			zap.String("file_name", fileName),
			zap.Int64("size", size),
			zap.Error(err),
		)
		return media.StoredImageRef{}, err
	}

	name := uuid.NewString() + media.Extension(fileName)
	if err := s.store.Put(ctx, name, data, contentType); err != nil {
		s.logger.Error("failed to store image",
			zap.String("object", name),
			zap.Error(err),
		)
		return media.StoredImageRef{}, fmt.Errorf("%w: %w", media.ErrStorageUnavailable, err)
	}

	s.logger.Info("image stored", zap.String("object", name), zap.Int64("size", size))
	return media.StoredImageRef{Name: name, ContentType: contentType, Size: size}, nil
}

// SignedURL mints a read URL for ref valid for media.URLTTL.
func (s *MediaService) SignedURL(ctx context.Context, ref media.StoredImageRef) (string, error) {
	url, err := s.store.SignedURL(ctx, ref.Name, media.URLTTL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", media.ErrStorageUnavailable, err)
	}
	return url, nil
}

// IngestAndSign stores the upload and returns its object name and a signed URL.
func (s *MediaService) IngestAndSign(ctx context.Context, img ImageUpload) (string, string, error) {
	ref, err := s.Ingest(ctx, img.Data, img.FileName, img.ContentType)
	if err != nil {
		return "", "", mediaError(err)
	}
	url, err := s.SignedURL(ctx, ref)
	if err != nil {
		return "", "", mediaError(err)
	}
	return ref.Name, url, nil
}

// checkImage runs the upload rules without storing anything, so field errors
// can be reported together before any bytes leave the process.
func checkImage(img *ImageUpload, required bool) *apperr.Error {
	if img == nil {
		if required {
			return apperr.NewValidationError("image_url", media.UserMessage(media.ErrEmptyImage))
		}
		return nil
	}
	if err := media.Validate(int64(len(img.Data)), img.FileName); err != nil {
		return apperr.NewValidationError("image_url", media.UserMessage(err)).WithCause(err)
	}
	return nil
}

// mediaError maps media sentinel errors onto the application error taxonomy.
func mediaError(err error) error {
	if errors.Is(err, media.ErrStorageUnavailable) {
		return apperr.NewStorageFault("image storage failed", err)
	}
	return apperr.NewValidationError("image_url", media.UserMessage(err)).WithCause(err)
}
