package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PublishScheduler runs the scheduled-post sweep on a fixed interval.
type PublishScheduler struct {
	posts    *PostService
	interval time.Duration
	cron     *cron.Cron
	now      func() time.Time
}

// NewPublishScheduler creates a scheduler; interval is rounded to whole seconds by cron.
func NewPublishScheduler(posts *PostService, interval time.Duration) *PublishScheduler {
	if interval < time.Second {
		interval = time.Minute
	}
	l := cronLogger{log.With().Str("component", "publish-scheduler").Logger()}
	return &PublishScheduler{
		posts:    posts,
		interval: interval,
		now:      time.Now,
		cron: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
	}
}

// RunOnce performs a single sweep and returns the slugs that were published.
func (s *PublishScheduler) RunOnce(ctx context.Context) []string {
	published, err := s.posts.PublishDue(ctx, s.now())
	if err != nil {
		log.Error().Err(err).Msg("scheduled publish failed")
		return nil
	}
	for _, slug := range published {
		log.Info().Str("slug", slug).Msg("scheduled post published")
	}
	return published
}

// Start runs one sweep immediately and then one per interval.
func (s *PublishScheduler) Start(ctx context.Context) {
	s.RunOnce(ctx)
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.RunOnce(ctx)
	}))
	s.cron.Start()
	log.Info().Dur("interval", s.interval).Msg("publish scheduler started")
}

// Stop halts the scheduler and waits for a running sweep, bounded by ctx.
func (s *PublishScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Warn().Msg("publish scheduler stop timed out")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
