package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bitjr/site/internal/db"
	"github.com/bitjr/site/internal/store"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const postsDocument = "posts"

var ErrPostNotFound = errors.New("post not found")

// PostService wraps reads and writes of the posts document.
type PostService struct {
	store store.Store
	mu    sync.Mutex
	now   func() time.Time
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	Excerpt      string `json:"excerpt"`
	Content      string `json:"content"`
	ScheduleDate string `json:"scheduleDate"`
	// ExistingImages is the raw existingImages form field; only used on update.
	ExistingImages  string   `json:"existingImages"`
	UploadedImages  []string `json:"-"`
	CoverPhotoOrder string   `json:"coverPhotoOrder"`
}

// Validate checks required fields and the status value.
func (in PostInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Slug, validation.Required),
		validation.Field(&in.Date, validation.Required),
		validation.Field(&in.Excerpt, validation.Required),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Status, validation.In(db.PostStatusPublished, db.PostStatusScheduled, db.PostStatusDraft)),
	)
}

func (in *PostInput) normalize() {
	trimAll(&in.Title, &in.Slug, &in.Date, &in.ScheduleDate)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = db.PostStatusPublished
	}
	if strings.TrimSpace(in.Excerpt) == "" {
		in.Excerpt = ""
	}
	if strings.TrimSpace(in.Content) == "" {
		in.Content = ""
	}
}

// NewPostService creates a PostService instance.
func NewPostService(s store.Store) *PostService {
	return &PostService{store: s, now: time.Now}
}

// SetClock replaces the time source, mainly for tests.
func (s *PostService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *PostService) load(ctx context.Context) map[string]db.Post {
	posts := store.LoadOr(ctx, s.store, postsDocument, map[string]db.Post{})
	if posts == nil {
		posts = map[string]db.Post{}
	}
	for slug, post := range posts {
		if post.Slug == "" {
			post.Slug = slug
			posts[slug] = post
		}
	}
	return posts
}

// ListAll returns every post keyed by slug, regardless of status.
func (s *PostService) ListAll(ctx context.Context) map[string]db.Post {
	return s.load(ctx)
}

// List returns public posts ordered by date descending.
// Dates are compared as strings, so ISO dates sort chronologically.
func (s *PostService) List(ctx context.Context) []db.Post {
	posts := s.load(ctx)

	list := make([]db.Post, 0, len(posts))
	for _, post := range posts {
		if post.IsPublic() {
			list = append(list, post)
		}
	}

	slices.SortFunc(list, func(a, b db.Post) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
	return list
}

// Get fetches a post by slug.
func (s *PostService) Get(ctx context.Context, slug string) (*db.Post, error) {
	post, ok := s.load(ctx)[slug]
	if !ok {
		return nil, ErrPostNotFound
	}
	return &post, nil
}

// GetPublished fetches a post by slug only if it is visible on the public site.
func (s *PostService) GetPublished(ctx context.Context, slug string) (*db.Post, error) {
	post, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublic() {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Create stores a new post under input.Slug, replacing any post with that slug.
func (s *PostService) Create(ctx context.Context, input PostInput) (*db.Post, error) {
	input.normalize()
	if err := input.Validate(); err != nil {
		return nil, validationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	posts := s.load(ctx)

	post := input.toPost()
	post.CreatedAt = formatTimestamp(s.now())
	post.Images = ResolveImages(ImageInput{
		Uploaded:   input.UploadedImages,
		CoverOrder: input.CoverPhotoOrder,
	})

	posts[post.Slug] = post
	if err := s.store.Save(ctx, postsDocument, posts); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update replaces the post stored under currentSlug. When input.Slug differs
// the old key is removed. A missing currentSlug creates the post. Fields the
// form does not carry are kept from the prior record.
func (s *PostService) Update(ctx context.Context, currentSlug string, input PostInput) (*db.Post, error) {
	input.normalize()
	if err := input.Validate(); err != nil {
		return nil, validationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	posts := s.load(ctx)
	previous, hadPrevious := posts[currentSlug]
	if hadPrevious && currentSlug != input.Slug {
		delete(posts, currentSlug)
	}

	post := input.toPost()
	post.UpdatedAt = formatTimestamp(s.now())
	if hadPrevious {
		post.CreatedAt = previous.CreatedAt
		post.Extra = previous.Extra
	}
	post.Images = ResolveImages(ImageInput{
		Previous:   previous.Images,
		Existing:   input.ExistingImages,
		Uploaded:   input.UploadedImages,
		CoverOrder: input.CoverPhotoOrder,
	})

	posts[post.Slug] = post
	if err := s.store.Save(ctx, postsDocument, posts); err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a post by slug.
func (s *PostService) Delete(ctx context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := s.load(ctx)
	if _, ok := posts[slug]; !ok {
		return ErrPostNotFound
	}
	delete(posts, slug)
	return s.store.Save(ctx, postsDocument, posts)
}

// PublishDue promotes scheduled posts whose schedule date is at or before now.
// The posts document is written at most once per call. It returns the slugs
// that were published.
func (s *PostService) PublishDue(ctx context.Context, now time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := s.load(ctx)

	slugs := make([]string, 0, len(posts))
	for slug := range posts {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)

	var published []string
	for _, slug := range slugs {
		post := posts[slug]
		if post.Status != db.PostStatusScheduled || post.ScheduleDate == "" {
			continue
		}
		due, ok := parseScheduleDate(post.ScheduleDate)
		if !ok || due.After(now) {
			continue
		}

		post.Status = db.PostStatusPublished
		post.Date = due.UTC().Format(time.DateOnly)
		post.ScheduledAt = formatTimestamp(now)
		posts[slug] = post
		published = append(published, slug)
	}

	if len(published) == 0 {
		return nil, nil
	}
	if err := s.store.Save(ctx, postsDocument, posts); err != nil {
		return nil, err
	}
	return published, nil
}

func (in PostInput) toPost() db.Post {
	return db.Post{
		Slug:         in.Slug,
		Title:        in.Title,
		Date:         in.Date,
		Status:       in.Status,
		Excerpt:      in.Excerpt,
		Content:      in.Content,
		ScheduleDate: in.ScheduleDate,
	}
}

var scheduleLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseScheduleDate accepts RFC 3339 timestamps, local date-times as sent by
// datetime-local inputs, and bare dates (read as UTC midnight).
func parseScheduleDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
