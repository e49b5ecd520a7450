package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bitjr/site/internal/db"
	"github.com/bitjr/site/internal/store"
)

func TestPublishScheduler_RunOnce(t *testing.T) {
	s, err := store.NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()
	if err := s.Save(ctx, postsDocument, map[string]db.Post{
		"due":    {Title: "Due", Status: db.PostStatusScheduled, ScheduleDate: "2024-01-01T08:00:00Z", Date: "2023-12-01"},
		"future": {Title: "Future", Status: db.PostStatusScheduled, ScheduleDate: "2099-01-01", Date: "2023-12-01"},
	}); err != nil {
		t.Fatalf("seed posts: %v", err)
	}

	posts := NewPostService(s)
	scheduler := NewPublishScheduler(posts, 0)
	scheduler.now = func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) }

	published := scheduler.RunOnce(ctx)
	if len(published) != 1 || published[0] != "due" {
		t.Fatalf("expected only 'due' to publish, got %v", published)
	}
	if scheduler.interval != time.Minute {
		t.Fatalf("expected interval to default to one minute, got %s", scheduler.interval)
	}

	post, err := posts.Get(ctx, "due")
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if post.Status != db.PostStatusPublished || post.Date != "2024-01-01" {
		t.Fatalf("unexpected post after sweep: %+v", post)
	}
	if again := scheduler.RunOnce(ctx); len(again) != 0 {
		t.Fatalf("expected no further transitions, got %v", again)
	}
}

func TestPublishScheduler_StartStop(t *testing.T) {
	s, err := store.NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	scheduler := NewPublishScheduler(NewPostService(s), time.Hour)
	scheduler.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	scheduler.Stop(ctx)
	if ctx.Err() != nil {
		t.Fatalf("expected stop to return before the deadline")
	}
}

func TestPublishScheduler_TickPublishesDuePost(t *testing.T) {
	s, err := store.NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()
	if err := s.Save(ctx, postsDocument, map[string]db.Post{
		"later": {Title: "Later", Status: db.PostStatusScheduled, ScheduleDate: "2024-01-01T08:00:00Z", Date: "2023-12-01"},
	}); err != nil {
		t.Fatalf("seed posts: %v", err)
	}

	posts := NewPostService(s)
	scheduler := NewPublishScheduler(posts, time.Second)
	// The sweep run by Start sees the post as not yet due; only ticks see it as due.
	var sweeps atomic.Int32
	scheduler.now = func() time.Time {
		if sweeps.Add(1) == 1 {
			return time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
		}
		return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	}

	scheduler.Start(ctx)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		scheduler.Stop(stopCtx)
	}()

	post, err := posts.Get(ctx, "later")
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if post.Status != db.PostStatusScheduled {
		t.Fatalf("expected the start sweep to leave the post scheduled, got %q", post.Status)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		post, err = posts.Get(ctx, "later")
		if err != nil {
			t.Fatalf("get post: %v", err)
		}
		if post.Status == db.PostStatusPublished {
			if sweeps.Load() < 2 {
				t.Fatalf("expected publication from a scheduled tick, sweeps=%d", sweeps.Load())
			}
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("post was not published by a scheduled tick within the deadline")
}
