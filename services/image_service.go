package services

import (
	"context"
	"fmt"

	"github.com/campus-events/api/model"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxImageSize is the largest poster accepted for upload
const MaxImageSize = 5 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// ObjectStore is where event posters are kept
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageService uploads event posters
type ImageService struct {
	events *EventService
	store  ObjectStore
}

// NewImageService creates a new image service. A nil store disables uploads.
func NewImageService(events *EventService, store ObjectStore) *ImageService {
	return &ImageService{events: events, store: store}
}

// Enabled reports whether an object store is configured
func (s *ImageService) Enabled() bool {
	return s.store != nil
}

// Upload stores data as the poster of an event owned by adminID and returns the
// event before and after the change
func (s *ImageService) Upload(ctx context.Context, adminID, eventID uint, data []byte) (before, after *model.Event, err error) {
	if s.store == nil {
		return nil, nil, ErrImageUploadDisabled
	}

	before, err = s.events.GetOwned(ctx, adminID, eventID)
	if err != nil {
		return nil, nil, err
	}

	if len(data) > MaxImageSize {
		return nil, nil, ErrImageTooLarge
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return nil, nil, ErrInvalidImage
	}

	key := fmt.Sprintf("events/%d/%s%s", eventID, uuid.New().String(), mtype.Extension())
	url, err := s.store.Upload(ctx, key, data, mtype.String())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store image: %w", err)
	}

	after, err = s.events.SetImageURL(ctx, adminID, eventID, url)
	if err != nil {
		// Do not leave an orphaned object behind
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned image")
		}
		return nil, nil, err
	}

	log.Info().Uint("event_id", eventID).Str("key", key).Msg("event image uploaded")
	return before, after, nil
}
