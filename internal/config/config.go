package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr     string `mapstructure:"addr"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"server"`
	Scrape struct {
		StatusURL      string `mapstructure:"status_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"scrape"`
	Fallback struct {
		FeedURL        string `mapstructure:"feed_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"fallback"`
	Ingest struct {
		Token             string `mapstructure:"token"`
		TTLSeconds        int    `mapstructure:"ttl_seconds"`
		MinIntervalMillis int    `mapstructure:"min_interval_millis"`
	} `mapstructure:"ingest"`
	Store struct {
		BadgerDir string `mapstructure:"badger_dir"`
		InMemory  bool   `mapstructure:"in_memory"`
	} `mapstructure:"store"`
	Playlog struct {
		Provider   string `mapstructure:"provider"` // local | s3 | db
		Path       string `mapstructure:"path"`
		SQLitePath string `mapstructure:"sqlite_path"`
		Bucket     string `mapstructure:"bucket"`
		Key        string `mapstructure:"key"`
		Endpoint   string `mapstructure:"endpoint"`
		Region     string `mapstructure:"region"`
		KeyID      string `mapstructure:"key_id"`
		AppKey     string `mapstructure:"app_key"`
	} `mapstructure:"playlog"`
	Catalog struct {
		BaseURL        string `mapstructure:"base_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
		Country        string `mapstructure:"country"`
	} `mapstructure:"catalog"`
	Poller struct {
		Enabled                   bool    `mapstructure:"enabled"`
		BaseIntervalSeconds       int     `mapstructure:"base_interval_seconds"`
		BackgroundIntervalSeconds int     `mapstructure:"background_interval_seconds"`
		MaxIntervalSeconds        int     `mapstructure:"max_interval_seconds"`
		BackoffFactor             float64 `mapstructure:"backoff_factor"`
	} `mapstructure:"poller"`
	Durations struct {
		DefaultSeconds  int `mapstructure:"default_seconds"`
		FallbackSeconds int `mapstructure:"fallback_seconds"`
	} `mapstructure:"durations"`
}

func Load() *Config {
	viper.SetEnvPrefix("NOWPLAYING")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("server.addr")
	viper.BindEnv("server.log_level")
	viper.BindEnv("scrape.status_url")
	viper.BindEnv("scrape.timeout_seconds")
	viper.BindEnv("fallback.feed_url")
	viper.BindEnv("fallback.timeout_seconds")
	viper.BindEnv("ingest.token")
	viper.BindEnv("ingest.ttl_seconds")
	viper.BindEnv("ingest.min_interval_millis")
	viper.BindEnv("store.badger_dir")
	viper.BindEnv("store.in_memory")
	viper.BindEnv("playlog.provider")
	viper.BindEnv("playlog.path")
	viper.BindEnv("playlog.sqlite_path")
	viper.BindEnv("playlog.bucket")
	viper.BindEnv("playlog.key")
	viper.BindEnv("playlog.endpoint")
	viper.BindEnv("playlog.region")
	viper.BindEnv("playlog.key_id")
	viper.BindEnv("playlog.app_key")
	viper.BindEnv("catalog.base_url")
	viper.BindEnv("catalog.timeout_seconds")
	viper.BindEnv("catalog.country")
	viper.BindEnv("poller.enabled")
	viper.BindEnv("poller.base_interval_seconds")
	viper.BindEnv("poller.background_interval_seconds")
	viper.BindEnv("poller.max_interval_seconds")
	viper.BindEnv("poller.backoff_factor")
	viper.BindEnv("durations.default_seconds")
	viper.BindEnv("durations.fallback_seconds")

	// Defaults
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.log_level", "error")
	viper.SetDefault("scrape.timeout_seconds", 8)
	viper.SetDefault("fallback.timeout_seconds", 7)
	viper.SetDefault("ingest.ttl_seconds", 900)
	viper.SetDefault("ingest.min_interval_millis", 750)
	viper.SetDefault("store.badger_dir", "./data/latest")
	viper.SetDefault("playlog.provider", "local")
	viper.SetDefault("playlog.path", "./data/playout_log_rolling.json")
	viper.SetDefault("playlog.sqlite_path", "./data/playlog.db")
	viper.SetDefault("playlog.key", "playout_log_rolling.json")
	viper.SetDefault("catalog.timeout_seconds", 6)
	viper.SetDefault("catalog.country", "gb")
	viper.SetDefault("poller.enabled", true)
	viper.SetDefault("poller.base_interval_seconds", 20)
	viper.SetDefault("poller.background_interval_seconds", 120)
	viper.SetDefault("poller.max_interval_seconds", 300)
	viper.SetDefault("poller.backoff_factor", 1.8)
	viper.SetDefault("durations.default_seconds", 240)
	viper.SetDefault("durations.fallback_seconds", 1800)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if cfg.Scrape.StatusURL == "" {
		log.Fatal("Critical: scrape status URL is missing (NOWPLAYING_SCRAPE_STATUS_URL)")
	}
	if cfg.Ingest.Token == "" {
		log.Println("⚠️ No ingest token configured; POST /ingest will reject everything.")
	}

	return &cfg
}
