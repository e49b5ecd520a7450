package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNotFound is returned when the named document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrCorrupt is returned when the stored document cannot be decoded.
	ErrCorrupt = errors.New("document is corrupt")
)

// Store loads and saves whole named JSON documents.
type Store interface {
	// Load decodes the named document into dst.
	Load(ctx context.Context, name string, dst any) error
	// Save replaces the named document with doc.
	Save(ctx context.Context, name string, doc any) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// LoadOr returns the named document, or fallback when it is missing,
// unreadable or corrupt. Corrupt documents are logged so they can be told
// apart from missing ones.
func LoadOr[T any](ctx context.Context, s Store, name string, fallback T) T {
	var doc T
	err := s.Load(ctx, name, &doc)
	switch {
	case err == nil:
		return doc
	case errors.Is(err, ErrNotFound):
		return fallback
	case errors.Is(err, ErrCorrupt):
		log.Warn().Err(err).Str("document", name).Msg("corrupt document, using fallback")
	default:
		log.Warn().Err(err).Str("document", name).Msg("document unreadable, using fallback")
	}
	return fallback
}
