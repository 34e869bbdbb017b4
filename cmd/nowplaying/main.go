package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"

	apiserver "aircheck/internal/api/server"
	"aircheck/internal/catalog"
	"aircheck/internal/config"
	"aircheck/internal/ingest"
	"aircheck/internal/metrics"
	"aircheck/internal/nowplaying"
	"aircheck/internal/playlog"
	"aircheck/internal/poller"
	"aircheck/internal/reconciler"
	"aircheck/internal/store"
)

func main() {
	// 1. Parse Flags
	// Flags override config.yaml / environment values
	addr := flag.String("addr", "", "Override listen address")
	noPoller := flag.Bool("no-poller", false, "Disable the background refresh poller")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Now-Playing Aggregation Server...")

	// 2. Load Config
	cfg := config.Load()
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *noPoller {
		cfg.Poller.Enabled = false
	}

	// 3. Metrics
	metrics.MustRegister()

	// 4. Latest-record store
	var latest store.LatestStore
	if cfg.Store.InMemory {
		latest = store.NewMemory()
		log.Println("⚠️ Latest store is in-memory; pushed records will not survive restarts")
	} else {
		bs, err := store.OpenBadger(cfg.Store.BadgerDir)
		if err != nil {
			log.Fatalf("❌ Failed to open latest store: %v", err)
		}
		latest = bs
	}
	defer latest.Close()

	// 5. Rolling log provider
	provider, err := playlogProvider(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open rolling log: %v", err)
	}
	plog := playlog.NewLog(provider)

	// 6. Upstream clients
	scraper := reconciler.NewStatusClient(cfg.Scrape.StatusURL, time.Duration(cfg.Scrape.TimeoutSeconds)*time.Second)
	cat := catalog.New(cfg.Catalog.BaseURL, time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second)

	var fallback reconciler.Fallback
	if cfg.Fallback.FeedURL != "" {
		fallback = reconciler.NewFallbackClient(cfg.Fallback.FeedURL, time.Duration(cfg.Fallback.TimeoutSeconds)*time.Second)
	}

	defaults := nowplaying.Defaults{
		Standard: time.Duration(cfg.Durations.DefaultSeconds) * time.Second,
		Fallback: time.Duration(cfg.Durations.FallbackSeconds) * time.Second,
	}

	svc := reconciler.New(scraper, latest, fallback, cat, plog, defaults)

	gate := ingest.NewGate(
		cfg.Ingest.Token,
		latest,
		time.Duration(cfg.Ingest.TTLSeconds)*time.Second,
		time.Duration(cfg.Ingest.MinIntervalMillis)*time.Millisecond,
	)

	// 7. Background refresh keeps the rolling log warm between client
	// requests; reads stay correct without it, just with colder history.
	if cfg.Poller.Enabled {
		p := poller.New(poller.Config{
			BaseInterval:       time.Duration(cfg.Poller.BaseIntervalSeconds) * time.Second,
			BackgroundInterval: time.Duration(cfg.Poller.BackgroundIntervalSeconds) * time.Second,
			MaxInterval:        time.Duration(cfg.Poller.MaxIntervalSeconds) * time.Second,
			BackoffFactor:      cfg.Poller.BackoffFactor,
		}, func(ctx context.Context, prev poller.PollState) poller.Result {
			cctx, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()
			rec := svc.NowPlaying(cctx)
			if rec.Source == nowplaying.SourceError {
				return poller.Result{Failed: true}
			}
			key := ""
			if rec.Artist != "" || rec.Title != "" {
				key = rec.Artist + "|" + rec.Title
			}
			return poller.Result{Key: key}
		})
		go p.Run(context.Background())
		log.Printf("🔄 Refresh poller running every %ds", cfg.Poller.BaseIntervalSeconds)
	}

	// 8. Start Server
	srv := apiserver.New(cfg, svc, gate, cat, plog)
	log.Printf("🚀 API Server starting on %s", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}

// playlogProvider selects the rolling-log backend: a local JSON file by
// default, an S3-compatible blob, or a SQLite table.
func playlogProvider(cfg *config.Config) (playlog.Provider, error) {
	switch cfg.Playlog.Provider {
	case "s3":
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.Playlog.KeyID, cfg.Playlog.AppKey, ""),
			Endpoint:         aws.String(cfg.Playlog.Endpoint),
			Region:           aws.String(cfg.Playlog.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		sess := session.Must(session.NewSession(s3Config))
		return playlog.NewS3Provider(sess, cfg.Playlog.Bucket, cfg.Playlog.Key), nil
	case "db":
		return playlog.NewDBProvider(cfg.Playlog.SQLitePath)
	default:
		return playlog.NewLocalProvider(cfg.Playlog.Path), nil
	}
}
