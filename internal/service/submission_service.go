package service

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/bitjr/site/internal/db"
	"github.com/bitjr/site/internal/store"
)

// SubmissionLog names an append-only submissions document.
type SubmissionLog string

const (
	ContactLog      SubmissionLog = "submissions"
	VolunteerLog    SubmissionLog = "volunteers"
	RegistrationLog SubmissionLog = "registrations"
)

// SubmissionService appends public form submissions to their logs.
type SubmissionService struct {
	store  store.Store
	events *EventService
	mu     sync.Mutex
	now    func() time.Time
}

// NewSubmissionService creates a SubmissionService instance.
func NewSubmissionService(s store.Store, events *EventService) *SubmissionService {
	return &SubmissionService{store: s, events: events, now: time.Now}
}

// SetClock replaces the time source, mainly for tests.
func (s *SubmissionService) SetClock(now func() time.Time) {
	s.now = now
}

// AddContact records a contact form submission.
func (s *SubmissionService) AddContact(ctx context.Context, fields map[string]any) (db.Submission, error) {
	return s.append(ctx, ContactLog, fields, nil)
}

// AddVolunteer records a volunteer sign-up.
func (s *SubmissionService) AddVolunteer(ctx context.Context, fields map[string]any) (db.Submission, error) {
	return s.append(ctx, VolunteerLog, fields, nil)
}

// AddRegistration records a registration for an existing event.
func (s *SubmissionService) AddRegistration(ctx context.Context, eventID string, fields map[string]any) (db.Submission, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	return s.append(ctx, RegistrationLog, fields, map[string]any{db.SubmissionEventIDKey: eventID})
}

// List returns every entry of a log in submission order.
func (s *SubmissionService) List(ctx context.Context, log SubmissionLog) []db.Submission {
	entries := store.LoadOr(ctx, s.store, string(log), []db.Submission{})
	if entries == nil {
		entries = []db.Submission{}
	}
	return entries
}

func (s *SubmissionService) append(ctx context.Context, log SubmissionLog, fields, fixed map[string]any) (db.Submission, error) {
	entry := make(db.Submission, len(fields)+len(fixed)+1)
	maps.Copy(entry, fields)
	maps.Copy(entry, fixed)
	entry[db.SubmissionCreatedAtKey] = formatTimestamp(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.List(ctx, log)
	entries = append(entries, entry)
	if err := s.store.Save(ctx, string(log), entries); err != nil {
		return nil, err
	}
	return entry, nil
}
