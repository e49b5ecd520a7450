package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bitjr/site/internal/store"
)

func setupSubmissionService(t *testing.T) (*SubmissionService, *EventService) {
	t.Helper()
	s, err := store.NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	events := NewEventService(s)
	svc := NewSubmissionService(s, events)
	svc.SetClock(func() time.Time { return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC) })
	return svc, events
}

func TestSubmissionService_AppendsEntries(t *testing.T) {
	svc, _ := setupSubmissionService(t)
	ctx := context.Background()

	if _, err := svc.AddContact(ctx, map[string]any{"name": "Ada", "message": "Hi"}); err != nil {
		t.Fatalf("add contact: %v", err)
	}
	if _, err := svc.AddContact(ctx, map[string]any{"name": "Satoshi"}); err != nil {
		t.Fatalf("add contact: %v", err)
	}
	if _, err := svc.AddVolunteer(ctx, map[string]any{"name": "Hal", "nationality": "UG"}); err != nil {
		t.Fatalf("add volunteer: %v", err)
	}

	contacts := svc.List(ctx, ContactLog)
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contact entries, got %d", len(contacts))
	}
	if contacts[0]["name"] != "Ada" || contacts[1]["name"] != "Satoshi" {
		t.Fatalf("expected entries in submission order, got %v", contacts)
	}
	if contacts[0]["createdAt"] != "2024-07-01T09:00:00.000Z" {
		t.Fatalf("unexpected createdAt %v", contacts[0]["createdAt"])
	}

	if volunteers := svc.List(ctx, VolunteerLog); len(volunteers) != 1 {
		t.Fatalf("expected 1 volunteer entry, got %d", len(volunteers))
	}
}

func TestSubmissionService_RegistrationRequiresEvent(t *testing.T) {
	svc, events := setupSubmissionService(t)
	ctx := context.Background()

	if _, err := svc.AddRegistration(ctx, "ev-404", map[string]any{"name": "Ada"}); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}

	event, err := events.Create(ctx, validEventInput())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	entry, err := svc.AddRegistration(ctx, event.ID, map[string]any{"name": "Ada", "eventId": "spoofed"})
	if err != nil {
		t.Fatalf("add registration: %v", err)
	}
	if entry.EventID() != event.ID {
		t.Fatalf("expected registration bound to %q, got %q", event.ID, entry.EventID())
	}

	if err := events.Delete(ctx, event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	registrations := svc.List(ctx, RegistrationLog)
	if len(registrations) != 1 || registrations[0].EventID() != event.ID {
		t.Fatalf("expected registration kept after event deletion, got %v", registrations)
	}
}
