package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// Sentinel errors for event operations.
var (
	// ErrNotFound is returned when the requested event does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSlug is returned when another event already owns the derived slug.
	ErrDuplicateSlug = errors.New("another event with the same slug already exists")
	// ErrInvalidInput is returned when the input cannot produce a valid event (e.g. a title with no slug characters).
	ErrInvalidInput = errors.New("invalid input")
)

// Title bounds, in characters.
const (
	MinTitleLength = 4
	MaxTitleLength = 200
)

// MaxAttendees is the largest attendee limit the store can hold (a Postgres INTEGER).
const MaxAttendees = math.MaxInt32

// Event represents a happening attendees can register for.
// swagger:model Event
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Details          *string   `json:"details"`
	MaximumAttendees *int      `json:"maximumAttendees"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(title, slug string, details *string, maximumAttendees *int, createdAt time.Time) *Event {
	return &Event{
		Title:            title,
		Slug:             slug,
		Details:          details,
		MaximumAttendees: maximumAttendees,
		CreatedAt:        createdAt,
	}
}

// CreateEventInput is the input contract for creating an event.
type CreateEventInput struct {
	Title            string
	Details          *string
	MaximumAttendees *int
}

// Validate returns a slice of error messages; nil means the input is acceptable.
func (in CreateEventInput) Validate() []string {
	var errs []string
	switch n := utf8.RuneCountInString(in.Title); {
	case n < MinTitleLength:
		errs = append(errs, fmt.Sprintf("title must be at least %d characters", MinTitleLength))
	case n > MaxTitleLength:
		errs = append(errs, fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
	}
	if in.MaximumAttendees != nil {
		switch {
		case *in.MaximumAttendees <= 0:
			errs = append(errs, "maximumAttendees must be a positive integer")
		case *in.MaximumAttendees > MaxAttendees:
			errs = append(errs, fmt.Sprintf("maximumAttendees must be at most %d", MaxAttendees))
		}
	}
	return errs
}

// SlugFunc derives a URL-safe slug from a title.
type SlugFunc func(title string) string

// EventRepository defines the interface for event storage.
// Create must enforce slug uniqueness and return ErrDuplicateSlug on a collision.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
}

// EventNotifier is told about events after they are persisted.
type EventNotifier interface {
	EventCreated(ctx context.Context, event *Event) error
}

// EventService defines the business logic for events.
type EventService interface {
	CreateEvent(ctx context.Context, input CreateEventInput) (*Event, error)
	GetEventByID(ctx context.Context, id string) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
}
