package reconciler

import (
	"context"
	"errors"
	"log"
	"time"

	"aircheck/internal/metrics"
	"aircheck/internal/nowplaying"
	"aircheck/internal/playlog"
	"aircheck/internal/store"
	"aircheck/internal/trackline"
)

// Scraper yields the raw scraped status line.
type Scraper interface {
	FetchStatusLine(ctx context.Context) (string, error)
}

// Fallback yields the stale-JSON last-resort record.
type Fallback interface {
	Fetch(ctx context.Context) (store.Latest, error)
}

// Service runs one full reconciliation pass: gather candidates, pick a
// winner, derive the window, build the record, and log the play as a side
// effect. It holds no mutable state of its own; every pass starts fresh.
type Service struct {
	scraper  Scraper
	latest   store.LatestStore
	fallback Fallback
	catalog  nowplaying.DurationLookup
	log      *playlog.Log
	defaults nowplaying.Defaults
	now      func() time.Time
}

func New(scraper Scraper, latest store.LatestStore, fallback Fallback, catalog nowplaying.DurationLookup, plog *playlog.Log, defaults nowplaying.Defaults) *Service {
	return &Service{
		scraper:  scraper,
		latest:   latest,
		fallback: fallback,
		catalog:  catalog,
		log:      plog,
		defaults: defaults,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// NowPlaying produces the canonical record. It never returns an error:
// total upstream failure degrades to the idle record, and a panic anywhere
// in the pipeline degrades to the error-tagged record, so the read path can
// always answer 200 with a valid shape.
func (s *Service) NowPlaying(ctx context.Context) (rec nowplaying.Record) {
	started := s.now()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("reconcile panic recovered: %v", r)
			rec = nowplaying.Degraded()
		}
		metrics.ReconcilePasses.WithLabelValues(string(rec.Source)).Inc()
		metrics.ReconcileDuration.Observe(time.Since(started).Seconds())
	}()

	// 1. Scraped candidate.
	var scraped nowplaying.TrackIdentity
	var rawCombined string
	line, scrapeErr := s.scraper.FetchStatusLine(ctx)
	if scrapeErr != nil {
		metrics.UpstreamFailures.WithLabelValues("scrape").Inc()
		log.Printf("status scrape failed: %v", scrapeErr)
	} else {
		scraped = trackline.Parse(line)
		rawCombined = scraped.Display()
	}

	// 2. Pushed candidate. TTL expiry reads as absence; an expired push path
	// gets no say in reconciliation.
	var pushed nowplaying.TrackIdentity
	var explicitDuration *float64
	var explicitStart string
	pushedLive := false
	if latest, err := s.latest.Get(ctx); err == nil {
		pushed = nowplaying.TrackIdentity{Artist: latest.Artist, Title: latest.Title}
		pushedLive = pushed.Valid()
		if latest.Duration != nil {
			d := float64(*latest.Duration)
			explicitDuration = &d
		}
		explicitStart = latest.StartTime
	} else if !errors.Is(err, store.ErrNotFound) {
		metrics.UpstreamFailures.WithLabelValues("latest_store").Inc()
		log.Printf("latest store read failed: %v", err)
	}

	id, src := nowplaying.Reconcile(scraped, pushed)

	// 3. Both primary sources gone: last resort is the stale JSON feed,
	// flagged low-confidence so clients do not schedule off it.
	if src == nowplaying.SourceUnknown && s.fallback != nil {
		if fb, err := s.fallback.Fetch(ctx); err == nil {
			fbID := nowplaying.TrackIdentity{Artist: fb.Artist, Title: fb.Title}
			if fbID.Artist != "" || fbID.Title != "" {
				id, src = fbID, nowplaying.SourceCachedFallback
				if fb.Duration != nil {
					d := float64(*fb.Duration)
					explicitDuration = &d
				}
				explicitStart = fb.StartTime
			}
		} else {
			metrics.UpstreamFailures.WithLabelValues("fallback_feed").Inc()
		}
	}

	if src == nowplaying.SourceUnknown {
		return nowplaying.Idle()
	}

	// Explicit timing only travels with the event that supplied it: a live
	// push describing a different title than the scraped winner says nothing
	// about the scraped track's window.
	if src == nowplaying.SourceScraped &&
		(!pushedLive || !nowplaying.TitlesClose(id.Title, pushed.Title)) {
		explicitDuration = nil
		explicitStart = ""
	}

	window := nowplaying.ResolveWindow(ctx, id, explicitDuration, explicitStart, src, s.catalog, s.defaults, s.now())
	rec = nowplaying.Build(id, window, src, rawCombined)

	// 4. Side effect: remember the play. Failures are logged, never
	// surfaced; the log is advisory.
	if id.Valid() && s.log != nil {
		entry := playlog.Entry{
			Artist:          id.Artist,
			Title:           id.Title,
			DurationSeconds: window.Duration,
			Source:          string(src),
		}
		if err := s.log.Append(ctx, entry, s.now()); err != nil {
			metrics.UpstreamFailures.WithLabelValues("playlog").Inc()
			log.Printf("rolling log append failed: %v", err)
		}
	}

	return rec
}
