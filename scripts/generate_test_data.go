package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitjr/site/internal/config"
	"github.com/bitjr/site/internal/db"
	"github.com/bitjr/site/internal/logger"
	"github.com/bitjr/site/internal/service"
	"github.com/bitjr/site/internal/store"
	"github.com/rs/zerolog/log"
)

// 测试数据生成器：向内容存储写入示例团队、合作伙伴、文章与活动。
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(cfg.AppEnv, cfg.LogLevel)

	docs, err := store.Open(cfg.StoreBackend, cfg.DataDir, cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open content store")
	}

	summary, err := seed(context.Background(), docs, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed content")
	}

	fmt.Println("测试数据生成完成！")
	fmt.Printf("团队: %d, 合作伙伴: %d, 文章: %d, 活动: %d\n", summary.Team, summary.Partners, summary.Posts, summary.Events)
}

type seedSummary struct {
	Team     int
	Partners int
	Posts    int
	Events   int
}

// seed 填充为空的文档，已有数据的文档跳过。
func seed(ctx context.Context, docs store.Store, now time.Time) (seedSummary, error) {
	var summary seedSummary

	team := []db.TeamMember{
		{Name: "Amina Nakato", Role: "Founder & lead teacher", Bio: "Runs the Saturday classes and trains new teachers."},
		{Name: "Brian Okello", Role: "Curriculum", Bio: "Turns bitcoin concepts into games for 6 to 17 year olds."},
		{Name: "Grace Atim", Role: "Community", Bio: "Coordinates volunteers, merchants and parents."},
	}
	created, err := seedDocument(ctx, docs, "team", team)
	if err != nil {
		return summary, err
	}
	if created {
		summary.Team = len(team)
	}

	partners := []db.Partner{
		{Name: "Blink", URL: "https://blink.sv", Description: "Lightning wallet used by our students."},
		{Name: "Local Merchants Circle", Description: "Shops that accept sats from students."},
	}
	created, err = seedDocument(ctx, docs, "partners", partners)
	if err != nil {
		return summary, err
	}
	if created {
		summary.Partners = len(partners)
	}

	posts := service.NewPostService(docs)
	if len(posts.ListAll(ctx)) == 0 {
		inputs := []service.PostInput{
			{
				Title:   "Our first cohort graduates",
				Slug:    "first-cohort-graduates",
				Date:    now.AddDate(0, 0, -14).Format(time.DateOnly),
				Excerpt: "Twenty students completed Bitcoin Basics.",
				Content: "<p>Twenty students completed <strong>Bitcoin Basics</strong> and received their first sats.</p>",
			},
			{
				Title:   "Money Playground is back",
				Slug:    "money-playground-is-back",
				Date:    now.AddDate(0, 0, -3).Format(time.DateOnly),
				Excerpt: "The student market opens again this term.",
				Content: "<p>Students run stalls and trade in sats every Saturday.</p>",
			},
			{
				Title:        "Holiday cohort announcement",
				Slug:         "holiday-cohort-announcement",
				Date:         now.Format(time.DateOnly),
				Status:       "scheduled",
				ScheduleDate: now.AddDate(0, 0, 7).UTC().Format(time.RFC3339),
				Excerpt:      "Registration opens next week.",
				Content:      "<p>Details of the school break cohort.</p>",
			},
		}
		for _, input := range inputs {
			if _, err := posts.Create(ctx, input); err != nil {
				return summary, fmt.Errorf("seed post %s: %w", input.Slug, err)
			}
		}
		summary.Posts = len(inputs)
	}

	events := service.NewEventService(docs)
	if len(events.List(ctx)) == 0 {
		inputs := []service.EventInput{
			{Title: "Bitcoin Fair", Date: now.AddDate(0, 1, 0).Format(time.DateOnly), Location: "Community hall", Summary: "Games, quizzes and a **sats market** for the whole family."},
			{Title: "Teacher Training Day", Date: now.AddDate(0, 0, 20).Format(time.DateOnly), Location: "BitJR Space", Summary: "A day workshop for teachers joining the programme."},
		}
		for _, input := range inputs {
			if _, err := events.Create(ctx, input); err != nil {
				return summary, fmt.Errorf("seed event %s: %w", input.Title, err)
			}
		}
		summary.Events = len(inputs)
	}

	return summary, nil
}

// seedDocument 在文档缺失或为空时写入 doc，并返回是否写入。
func seedDocument[T any](ctx context.Context, docs store.Store, name string, doc []T) (bool, error) {
	var existing []T
	err := docs.Load(ctx, name, &existing)
	switch {
	case err == nil && len(existing) > 0:
		fmt.Printf("%s 已存在，跳过创建\n", name)
		return false, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return false, fmt.Errorf("check %s: %w", name, err)
	}

	if err := docs.Save(ctx, name, doc); err != nil {
		return false, fmt.Errorf("seed %s: %w", name, err)
	}
	return true, nil
}
