package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitjr/site/internal/config"
	"github.com/bitjr/site/internal/handler"
	"github.com/bitjr/site/internal/logger"
	"github.com/bitjr/site/internal/router"
	"github.com/bitjr/site/internal/service"
	"github.com/bitjr/site/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	// 初始化存储
	docs, err := store.Open(cfg.StoreBackend, cfg.DataDir, cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open content store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := handler.NewAPI(docs, handler.Options{
		UploadDir: cfg.UploadDir,
		Site:      handler.SiteInfo{Title: cfg.SiteTitle, Tagline: cfg.SiteTagline},
		Donate:    handler.DonateAddresses{Lightning: cfg.LightningAddr, Bitcoin: cfg.BitcoinAddr},
		Shutdown:  stop,
	})

	scheduler := service.NewPublishScheduler(api.Posts(), cfg.PublishInterval)
	scheduler.Start(ctx)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, router.Options{
		PublicDir:     cfg.PublicDir,
		UploadDir:     cfg.UploadDir,
		TemplateGlob:  cfg.TemplateGlob,
		SessionSecret: cfg.SessionSecret,
	})
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", cfg.ListenAddr).
			Str("store", cfg.StoreBackend).
			Msg("server started; admin portal at /admin")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to run server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
