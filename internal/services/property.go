package services

import (
	"context"
	"errors"

	"github.com/staybnb/webserver/internal/forms"
	"github.com/staybnb/webserver/internal/logger"
	"github.com/staybnb/webserver/internal/store"
	"github.com/staybnb/webserver/internal/uploads"
	"github.com/staybnb/webserver/types"
)

// ErrHostNotFound is returned when a listing is created for a user that no
// longer exists.
var ErrHostNotFound = errors.New("host does not exist")

// PropertyRepository defines persistence operations for listings.
type PropertyRepository interface {
	Create(ctx context.Context, property types.Property) (types.Property, error)
	ListByHost(ctx context.Context, hostID int) ([]types.Property, error)
}

// ImageStore saves uploaded images and removes them again.
type ImageStore interface {
	Store(ctx context.Context, f *uploads.File) (*string, error)
	Remove(ctx context.Context, name string) error
}

// EventPublisher publishes a JSON-encoded event to a channel.
type EventPublisher interface {
	PublishJSON(ctx context.Context, channel string, v any) (string, error)
}

// PropertyService encapsulates listing use-cases.
type PropertyService struct {
	repo    PropertyRepository
	images  ImageStore
	events  EventPublisher
	channel string
}

func NewPropertyService(repo PropertyRepository, images ImageStore) *PropertyService {
	return &PropertyService{repo: repo, images: images}
}

// WithEvents makes Create publish a types.PropertyCreatedEvent to channel
// after each listing is stored.
func (s *PropertyService) WithEvents(events EventPublisher, channel string) *PropertyService {
	s.events = events
	s.channel = channel
	return s
}

func (s *PropertyService) ListByHost(ctx context.Context, hostID int) ([]types.Property, error) {
	return s.repo.ListByHost(ctx, hostID)
}

// Create stores the optional image and then the listing owned by hostID.
func (s *PropertyService) Create(ctx context.Context, hostID int, in forms.ValidListing, image *uploads.File) (types.Property, error) {
	filename, err := s.images.Store(ctx, image)
	if err != nil {
		return types.Property{}, err
	}

	property, err := s.repo.Create(ctx, types.Property{
		Title:         in.Title,
		Description:   in.Description,
		Location:      in.Location,
		PricePerNight: in.PricePerNight,
		Image:         filename,
		HostID:        hostID,
	})
	if err != nil {
		s.discardImage(ctx, filename)
		if errors.Is(err, store.ErrForeignKeyViolation) {
			return types.Property{}, ErrHostNotFound
		}
		return types.Property{}, err
	}

	log := logger.FromContext(ctx)
	log.Info().Int("property_id", property.ID).Int("host_id", hostID).Msg("property created")

	s.publishCreated(ctx, property)
	return property, nil
}

// discardImage removes an image whose listing was not stored.
func (s *PropertyService) discardImage(ctx context.Context, filename *string) {
	if filename == nil {
		return
	}
	if err := s.images.Remove(ctx, *filename); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("filename", *filename).Msg("remove orphaned image failed")
	}
}

func (s *PropertyService) publishCreated(ctx context.Context, property types.Property) {
	if s.events == nil {
		return
	}
	id, err := s.events.PublishJSON(ctx, s.channel, types.NewPropertyCreatedEvent(property))
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Int("property_id", property.ID).Msg("publish property event failed")
		return
	}
	logger.FromContext(ctx).Debug().Str("message_id", id).Msg("property event published")
}
