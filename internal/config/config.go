package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr      string        `env:"LISTEN_ADDR"`
	Port            string        `env:"PORT" envDefault:"3000"`
	AppEnv          string        `env:"APP_ENV" envDefault:"development"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	DataDir         string        `env:"DATA_DIR" envDefault:"data"`
	StoreBackend    string        `env:"STORE_BACKEND" envDefault:"json"`
	DatabasePath    string        `env:"DATABASE_PATH" envDefault:"data/site.db"`
	PublicDir       string        `env:"PUBLIC_DIR" envDefault:"public"`
	UploadDir       string        `env:"UPLOAD_DIR" envDefault:"public/images"`
	TemplateGlob    string        `env:"TEMPLATE_GLOB" envDefault:"web/template/*/*.html"`
	SessionSecret   string        `env:"SESSION_SECRET" envDefault:"fallback-secret-key"`
	PublishInterval time.Duration `env:"PUBLISH_INTERVAL" envDefault:"60s"`
	SiteTitle       string        `env:"SITE_TITLE" envDefault:"BitJR Academy & Space"`
	SiteTagline     string        `env:"SITE_TAGLINE" envDefault:"Bitcoin education for kids (6–17) and a circular sats economy"`
	LightningAddr   string        `env:"LIGHTNING_ADDRESS" envDefault:"bitjracademyandspace@blink.sv"`
	BitcoinAddr     string        `env:"BITCOIN_ADDRESS" envDefault:"bc1qcyeekgu7wdnyanm5vtfjxsdwaqnuy36dxth80a"`
}

// Load 读取 .env（若存在）与环境变量，并为缺失项提供默认值。
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[AppConfig]()
	if err != nil {
		return AppConfig{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = "3000"
	}

	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	if c.ListenAddr == "" {
		c.ListenAddr = fmt.Sprintf(":%s", c.Port)
	}

	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	if c.StoreBackend == "" {
		c.StoreBackend = "json"
	}

	if c.PublishInterval < time.Second {
		c.PublishInterval = time.Minute
	}
}
