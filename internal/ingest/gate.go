package ingest

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"aircheck/internal/normalize"
	"aircheck/internal/nowplaying"
	"aircheck/internal/store"
)

// Error kinds surfaced by the gate; the API layer maps them to statuses.
var (
	ErrUnauthorized   = errors.New("bad or missing ingest token")
	ErrInvalidPayload = errors.New("artist and title are required")
	ErrStoreWrite     = errors.New("latest store write failed")
)

// Payload is the push-submitted body. Playout systems are inconsistent
// about field names, so the raw export column names are accepted alongside
// the documented ones.
type Payload struct {
	Artist      string   `json:"artist" form:"artist"`
	AltArtist   string   `json:"Artist" form:"Artist"`
	Title       string   `json:"title" form:"title"`
	AltTitle    string   `json:"Title" form:"Title"`
	Duration    *float64 `json:"duration" form:"duration"`
	AltDuration *float64 `json:"Duration (s)" form:"Duration (s)"`
	StartTime   string   `json:"startTime" form:"startTime"`
	AltStart    string   `json:"Hour" form:"Hour"`
}

func (p Payload) artist() string {
	if p.Artist != "" {
		return p.Artist
	}
	return p.AltArtist
}

func (p Payload) title() string {
	if p.Title != "" {
		return p.Title
	}
	return p.AltTitle
}

func (p Payload) duration() *float64 {
	if p.Duration != nil {
		return p.Duration
	}
	return p.AltDuration
}

func (p Payload) startTime() string {
	if p.StartTime != "" {
		return p.StartTime
	}
	return p.AltStart
}

// Result reports what the gate did with a valid request. Skipped is set when
// the request was acknowledged without a full store write ("rate" or
// "duplicate").
type Result struct {
	Saved   store.Latest
	Skipped string
}

// Gate validates and normalizes push-submitted records before they become a
// candidate source. It owns the single "latest" key exclusively.
type Gate struct {
	token   string
	store   store.LatestStore
	ttl     time.Duration
	limiter *rate.Limiter
	now     func() time.Time
}

// NewGate configures the ingest gate. minInterval is the soft rate limit
// between accepted writes; zero disables it.
func NewGate(token string, st store.LatestStore, ttl, minInterval time.Duration) *Gate {
	var limiter *rate.Limiter
	if minInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(minInterval), 1)
	}
	return &Gate{
		token:   token,
		store:   st,
		ttl:     ttl,
		limiter: limiter,
		now:     time.Now,
	}
}

// WithClock overrides the gate's clock. Tests only.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Ingest authorizes, validates and stores one pushed record. authToken is
// the already-extracted bearer token (header or query form).
func (g *Gate) Ingest(ctx context.Context, p Payload, authToken string) (Result, error) {
	// A server without a configured token accepts nothing: the push path is
	// write-only to authorized playout systems.
	if g.token == "" || subtle.ConstantTimeCompare([]byte(authToken), []byte(g.token)) != 1 {
		return Result{}, ErrUnauthorized
	}

	artist := normalize.Normalize(p.artist())
	title := normalize.Normalize(p.title())
	if artist == "" || title == "" {
		return Result{}, ErrInvalidPayload
	}

	// Out-of-range duration is dropped, not rejected.
	var duration *int
	if d := p.duration(); d != nil && !math.IsNaN(*d) && !math.IsInf(*d, 0) && *d >= 0 {
		v := int(math.Round(*d))
		duration = &v
	}

	serverNow := g.now().UTC()
	startTime := p.startTime()
	if startTime == "" {
		startTime = serverNow.Format(time.RFC3339)
	}

	var endTime *string
	if duration != nil {
		if t0, err := time.Parse(time.RFC3339, startTime); err == nil {
			e := t0.Add(time.Duration(*duration) * time.Second).UTC().Format(time.RFC3339)
			endTime = &e
		}
	}

	rec := store.Latest{
		Artist:        artist,
		Title:         title,
		NowPlaying:    artist + " - " + title,
		Duration:      duration,
		StartTime:     startTime,
		EndTime:       endTime,
		ReceivedAt:    serverNow.Format(time.RFC3339),
		Source:        string(nowplaying.SourcePushed),
		SchemaVersion: nowplaying.SchemaVersion,
	}

	// Soft rate limit: over-limit but otherwise valid requests are
	// acknowledged without a write so the playout side does not retry.
	if g.limiter != nil && !g.limiter.Allow() {
		return Result{Saved: rec, Skipped: "rate"}, nil
	}

	// Consecutive duplicate: refresh the live record's non-empty fields in
	// place instead of resetting its identity.
	if latest, err := g.store.Get(ctx); err == nil &&
		strings.EqualFold(latest.Artist, artist) && strings.EqualFold(latest.Title, title) {
		patched := patchNonEmpty(latest, rec)
		if err := g.store.Set(ctx, patched, g.ttl); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrStoreWrite, err)
		}
		return Result{Saved: patched, Skipped: "duplicate"}, nil
	}

	if err := g.store.Set(ctx, rec, g.ttl); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	return Result{Saved: rec}, nil
}

func patchNonEmpty(old, fresh store.Latest) store.Latest {
	out := old
	if fresh.StartTime != "" {
		out.StartTime = fresh.StartTime
	}
	if fresh.Duration != nil && *fresh.Duration > 0 {
		out.Duration = fresh.Duration
	}
	if fresh.EndTime != nil {
		out.EndTime = fresh.EndTime
	}
	out.ReceivedAt = fresh.ReceivedAt
	return out
}
