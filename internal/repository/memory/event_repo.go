// Package memory provides an in-process EventRepository. Slug uniqueness is enforced
// inside Create under a single lock, mirroring the UNIQUE constraint of the Postgres table.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"passin/internal/domain"
)

type eventRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Event
	bySlug map[string]string // slug -> id
}

// NewEventRepository returns an empty in-memory event store.
func NewEventRepository() domain.EventRepository {
	return &eventRepository{
		byID:   make(map[string]*domain.Event),
		bySlug: make(map[string]string),
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySlug[e.Slug]; taken {
		return domain.ErrDuplicateSlug
	}
	e.ID = uuid.NewString()
	stored := *e
	r.byID[e.ID] = &stored
	r.bySlug[e.Slug] = e.ID
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *e
	return &out, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *r.byID[id]
	return &out, nil
}
