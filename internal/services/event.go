package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"passin/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	slugify        domain.SlugFunc
	notifier       domain.EventNotifier
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	slugify domain.SlugFunc,
	notifier domain.EventNotifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		slugify:        slugify,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// CreateEvent derives the slug from the title, rejects it when another event owns it,
// and persists the event. A slug collision, whether found by the lookup or raised by the
// store's unique constraint, is reported as domain.ErrDuplicateSlug.
func (s *eventService) CreateEvent(ctx context.Context, input domain.CreateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slug := s.slugify(input.Title)
	if slug == "" {
		return nil, fmt.Errorf("%w: title must contain at least one letter or digit", domain.ErrInvalidInput)
	}

	existing, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find event by slug: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateSlug
	}

	event := domain.NewEvent(input.Title, slug, input.Details, input.MaximumAttendees, s.now().UTC())
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create event: %w", err)
	}

	if err := s.notifier.EventCreated(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event created notification failed", "event_id", event.ID, "err", err)
	}
	return event, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	return event, nil
}
