package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passin/internal/domain"
	"passin/internal/repository/memory"
	"passin/internal/slug"
)

// testLogger discards output so tests don't assert on logs.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventRepo is an in-memory EventRepository for tests that counts calls and injects errors.
type fakeEventRepo struct {
	bySlug       map[string]*domain.Event
	byID         map[string]*domain.Event
	nextID       int
	getBySlugErr error // if set, GetBySlug returns this error
	createErr    error // if set, Create returns this error
	getCalls     int
	createCalls  int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		bySlug: make(map[string]*domain.Event),
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.bySlug[e.Slug]; ok {
		return domain.ErrDuplicateSlug
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.bySlug[e.Slug] = e
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	f.getCalls++
	if f.getBySlugErr != nil {
		return nil, f.getBySlugErr
	}
	if e, ok := f.bySlug[slug]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

// fakeNotifier records notified events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []*domain.Event
	err    error
}

func (f *fakeNotifier) EventCreated(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return f.err
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEventService(repo domain.EventRepository, notifier domain.EventNotifier) domain.EventService {
	svc := NewEventService(repo, slug.Generate, notifier, testLogger, 5*time.Second)
	svc.(*eventService).now = func() time.Time { return fixedNow }
	return svc
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		input       domain.CreateEventInput
		setup       func(repo *fakeEventRepo)
		wantErr     bool
		errIs       error
		wantSlug    string
		wantCreates int
	}{
		{
			name:        "success",
			input:       domain.CreateEventInput{Title: "Rust Conf 2024!", Details: strPtr("Talks"), MaximumAttendees: intPtr(100)},
			wantSlug:    "rust-conf-2024",
			wantCreates: 1,
		},
		{
			name:        "success without optional fields",
			input:       domain.CreateEventInput{Title: "São Paulo Gophers"},
			wantSlug:    "sao-paulo-gophers",
			wantCreates: 1,
		},
		{
			name:  "duplicate slug found by lookup",
			input: domain.CreateEventInput{Title: "rust conf 2024"},
			setup: func(repo *fakeEventRepo) {
				repo.bySlug["rust-conf-2024"] = &domain.Event{ID: "ev-existing", Slug: "rust-conf-2024"}
			},
			wantErr:     true,
			errIs:       domain.ErrDuplicateSlug,
			wantCreates: 0,
		},
		{
			name:  "duplicate slug raised by store constraint",
			input: domain.CreateEventInput{Title: "Rust Conf 2024"},
			setup: func(repo *fakeEventRepo) {
				repo.createErr = domain.ErrDuplicateSlug
			},
			wantErr:     true,
			errIs:       domain.ErrDuplicateSlug,
			wantCreates: 1,
		},
		{
			name:        "title without slug characters",
			input:       domain.CreateEventInput{Title: "!!!!"},
			wantErr:     true,
			errIs:       domain.ErrInvalidInput,
			wantCreates: 0,
		},
		{
			name:  "lookup storage error",
			input: domain.CreateEventInput{Title: "Go Meetup"},
			setup: func(repo *fakeEventRepo) {
				repo.getBySlugErr = errors.New("connection reset")
			},
			wantErr:     true,
			wantCreates: 0,
		},
		{
			name:  "create storage error",
			input: domain.CreateEventInput{Title: "Go Meetup"},
			setup: func(repo *fakeEventRepo) {
				repo.createErr = errors.New("disk full")
			},
			wantErr:     true,
			wantCreates: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventRepo()
			if tt.setup != nil {
				tt.setup(repo)
			}
			notifier := &fakeNotifier{}
			svc := newTestEventService(repo, notifier)

			event, err := svc.CreateEvent(ctx, tt.input)
			assert.Equal(t, tt.wantCreates, repo.createCalls, "create calls")
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, event)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				} else {
					assert.NotErrorIs(t, err, domain.ErrDuplicateSlug)
				}
				assert.Empty(t, notifier.events)
				return
			}
			require.NoError(t, err)
			assert.LessOrEqual(t, repo.getCalls, 1, "at most one read")
			assert.NotEmpty(t, event.ID)
			assert.Equal(t, tt.wantSlug, event.Slug)
			assert.Equal(t, tt.input.Title, event.Title)
			assert.Equal(t, tt.input.Details, event.Details)
			assert.Equal(t, tt.input.MaximumAttendees, event.MaximumAttendees)
			assert.Equal(t, fixedNow, event.CreatedAt)
			require.Len(t, notifier.events, 1)
			assert.Equal(t, event.ID, notifier.events[0].ID)
		})
	}
}

func TestEventService_CreateEvent_ThenLookup(t *testing.T) {
	ctx := context.Background()
	svc := newTestEventService(newFakeEventRepo(), &fakeNotifier{})

	created, err := svc.CreateEvent(ctx, domain.CreateEventInput{Title: "Rust Conf 2024!"})
	require.NoError(t, err)

	bySlug, err := svc.GetEventBySlug(ctx, "rust-conf-2024")
	require.NoError(t, err)
	assert.Equal(t, created, bySlug)

	byID, err := svc.GetEventByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	_, err = svc.CreateEvent(ctx, domain.CreateEventInput{Title: "Rust Conf 2024!"})
	require.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

func TestEventService_CreateEvent_UsesInjectedSlugFunc(t *testing.T) {
	repo := newFakeEventRepo()
	fixed := func(string) string { return "fixed-slug" }
	svc := NewEventService(repo, fixed, &fakeNotifier{}, testLogger, time.Second)

	event, err := svc.CreateEvent(context.Background(), domain.CreateEventInput{Title: "Anything Goes"})
	require.NoError(t, err)
	assert.Equal(t, "fixed-slug", event.Slug)
}

func TestEventService_CreateEvent_NotifierFailureDoesNotFail(t *testing.T) {
	repo := newFakeEventRepo()
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	svc := newTestEventService(repo, notifier)

	event, err := svc.CreateEvent(context.Background(), domain.CreateEventInput{Title: "Go Meetup"})
	require.NoError(t, err)
	assert.Equal(t, "go-meetup", event.Slug)
	assert.Len(t, notifier.events, 1)
}

func TestEventService_CreateEvent_ConcurrentSameSlug(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	svc := NewEventService(memory.NewEventRepository(), slug.Generate, notifier, testLogger, 5*time.Second)

	titles := []string{"Rust Conf 2024!", "rust conf 2024", "RUST-CONF-2024", "Rust  Conf  2024?"}
	const perTitle = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	start := make(chan struct{})
	for _, title := range titles {
		for i := 0; i < perTitle; i++ {
			wg.Add(1)
			go func(title string) {
				defer wg.Done()
				<-start
				_, err := svc.CreateEvent(ctx, domain.CreateEventInput{Title: title})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, domain.ErrDuplicateSlug):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(title)
		}
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, len(titles)*perTitle-1, conflicts)
	assert.Len(t, notifier.events, 1)
}

func TestEventService_GetEventByID(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	repo.byID["ev-1"] = &domain.Event{ID: "ev-1", Title: "Conf", Slug: "conf"}
	svc := newTestEventService(repo, &fakeNotifier{})

	got, err := svc.GetEventByID(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "conf", got.Slug)

	_, err = svc.GetEventByID(ctx, "ev-missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_GetEventBySlug_StorageError(t *testing.T) {
	repo := newFakeEventRepo()
	repo.getBySlugErr = errors.New("connection reset")
	svc := newTestEventService(repo, &fakeNotifier{})

	_, err := svc.GetEventBySlug(context.Background(), "conf")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}
