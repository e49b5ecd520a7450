package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bitjr/site/internal/db"
	"github.com/bitjr/site/internal/store"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const eventsDocument = "events"

var ErrEventNotFound = errors.New("event not found")

// EventService handles event CRUD over the events document.
type EventService struct {
	store store.Store
	mu    sync.Mutex
	now   func() time.Time
}

// EventInput represents fields accepted when creating or updating an event.
type EventInput struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Location string `json:"location"`
	Summary  string `json:"summary"`
	// Flyer is the public path of a flyer uploaded with this request.
	Flyer string `json:"-"`
	// RemoveFlyer clears the stored flyer when no new flyer is uploaded.
	RemoveFlyer bool `json:"removeFlyer"`
}

// Validate checks the required event fields.
func (in EventInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Date, validation.Required),
		validation.Field(&in.Location, validation.Required),
		validation.Field(&in.Summary, validation.Required),
	)
}

// NewEventService creates an EventService instance.
func NewEventService(s store.Store) *EventService {
	return &EventService{store: s, now: time.Now}
}

// SetClock replaces the time source, mainly for tests.
func (s *EventService) SetClock(now func() time.Time) {
	s.now = now
}

// List returns events in stored order.
func (s *EventService) List(ctx context.Context) []db.Event {
	events := store.LoadOr(ctx, s.store, eventsDocument, []db.Event{})
	if events == nil {
		events = []db.Event{}
	}
	return events
}

// Get fetches an event by id.
func (s *EventService) Get(ctx context.Context, id string) (*db.Event, error) {
	events := s.List(ctx)
	idx := indexOfEvent(events, id)
	if idx < 0 {
		return nil, ErrEventNotFound
	}
	return &events[idx], nil
}

// Create appends a new event with a fresh time based id.
func (s *EventService) Create(ctx context.Context, input EventInput) (*db.Event, error) {
	trimAll(&input.Title, &input.Date, &input.Location, &input.Summary, &input.Flyer)
	if err := input.Validate(); err != nil {
		return nil, validationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.List(ctx)
	event := db.Event{
		ID:       nextEventID(events, s.now()),
		Title:    input.Title,
		Date:     input.Date,
		Location: input.Location,
		Summary:  input.Summary,
	}
	if input.Flyer != "" {
		flyer := input.Flyer
		event.Flyer = &flyer
	}

	events = append(events, event)
	if err := s.store.Save(ctx, eventsDocument, events); err != nil {
		return nil, err
	}
	return &event, nil
}

// Update merges input onto the stored event. A new flyer wins over
// RemoveFlyer; with neither the stored flyer is kept.
func (s *EventService) Update(ctx context.Context, id string, input EventInput) (*db.Event, error) {
	trimAll(&input.Title, &input.Date, &input.Location, &input.Summary, &input.Flyer)
	if err := input.Validate(); err != nil {
		return nil, validationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.List(ctx)
	idx := indexOfEvent(events, id)
	if idx < 0 {
		return nil, ErrEventNotFound
	}

	updated := events[idx]
	updated.Title = input.Title
	updated.Date = input.Date
	updated.Location = input.Location
	updated.Summary = input.Summary

	switch {
	case input.Flyer != "":
		flyer := input.Flyer
		updated.Flyer = &flyer
	case input.RemoveFlyer:
		updated.Flyer = nil
	}

	events[idx] = updated
	if err := s.store.Save(ctx, eventsDocument, events); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an event by id.
func (s *EventService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.List(ctx)
	idx := indexOfEvent(events, id)
	if idx < 0 {
		return ErrEventNotFound
	}
	events = slices.Delete(events, idx, idx+1)
	return s.store.Save(ctx, eventsDocument, events)
}

func indexOfEvent(events []db.Event, id string) int {
	return slices.IndexFunc(events, func(e db.Event) bool { return e.ID == id })
}

// nextEventID returns ev-<unix millis>, bumped until it is unused.
func nextEventID(events []db.Event, now time.Time) string {
	stamp := now.UnixMilli()
	for {
		id := fmt.Sprintf("ev-%d", stamp)
		if indexOfEvent(events, id) < 0 {
			return id
		}
		stamp++
	}
}
