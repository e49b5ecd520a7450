package service

import (
	"context"
	"encoding/json"

	"github.com/bitjr/site/internal/db"
	"github.com/bitjr/site/internal/store"
)

const (
	teamDocument     = "team"
	partnersDocument = "partners"
)

// DirectoryService serves the read-only team and partner lists and the
// dashboard counters.
type DirectoryService struct {
	store store.Store
}

// SiteStats is shown on the admin dashboard.
type SiteStats struct {
	Blogs    int `json:"blogs"`
	Events   int `json:"events"`
	Team     int `json:"team"`
	Partners int `json:"partners"`
}

// NewDirectoryService creates a DirectoryService instance.
func NewDirectoryService(s store.Store) *DirectoryService {
	return &DirectoryService{store: s}
}

// Team returns the team members.
func (s *DirectoryService) Team(ctx context.Context) []db.TeamMember {
	return store.LoadOr(ctx, s.store, teamDocument, []db.TeamMember{})
}

// Partners returns the partners.
func (s *DirectoryService) Partners(ctx context.Context) []db.Partner {
	return store.LoadOr(ctx, s.store, partnersDocument, []db.Partner{})
}

// Stats counts the entries of each content document. Every post counts,
// whatever its status.
func (s *DirectoryService) Stats(ctx context.Context) SiteStats {
	return SiteStats{
		Blogs:    len(store.LoadOr(ctx, s.store, postsDocument, map[string]json.RawMessage{})),
		Events:   len(store.LoadOr(ctx, s.store, eventsDocument, []json.RawMessage{})),
		Team:     len(store.LoadOr(ctx, s.store, teamDocument, []json.RawMessage{})),
		Partners: len(store.LoadOr(ctx, s.store, partnersDocument, []json.RawMessage{})),
	}
}
