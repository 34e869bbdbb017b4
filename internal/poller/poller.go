package poller

import (
	"context"
	"log"
	"sync"
	"time"
)

// Poller drives a periodic task with multiplicative backoff on failure and
// separate interval buckets for foreground and background operation. One
// reusable loop rather than ad hoc tickers scattered per caller.

// State is the poll cycle's explicit lifecycle, threaded through each pass
// instead of living in ambient globals.
type State int

const (
	StateIdle State = iota
	StateResolved
)

// PollState records what the previous cycle applied, so a cycle that
// resolves the same key can skip redundant downstream work.
type PollState struct {
	State    State
	LastKey  string
	LastSwap time.Time
}

// Result is what one task run reports back to the loop.
type Result struct {
	// Key identifies what this cycle resolved (e.g. "artist|title");
	// empty means nothing was resolved.
	Key string
	// Failed marks the cycle for backoff.
	Failed bool
}

// Task runs one poll cycle. It receives the state left by the previous
// cycle and must not retain it.
type Task func(ctx context.Context, prev PollState) Result

type Config struct {
	// BaseInterval between successful foreground cycles.
	BaseInterval time.Duration
	// BackgroundInterval applies instead of BaseInterval while the poller
	// is in the background bucket.
	BackgroundInterval time.Duration
	// BackoffFactor multiplies the current interval after each failed
	// cycle, up to MaxInterval.
	BackoffFactor float64
	MaxInterval   time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseInterval <= 0 {
		c.BaseInterval = 20 * time.Second
	}
	if c.BackgroundInterval <= 0 {
		c.BackgroundInterval = 2 * time.Minute
	}
	if c.BackoffFactor < 1 {
		c.BackoffFactor = 1.8
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 5 * time.Minute
	}
	return c
}

type Poller struct {
	cfg  Config
	task Task

	mu         sync.Mutex
	foreground bool
	interval   time.Duration
	state      PollState
}

func New(cfg Config, task Task) *Poller {
	cfg = cfg.withDefaults()
	return &Poller{
		cfg:        cfg,
		task:       task,
		foreground: true,
		interval:   cfg.BaseInterval,
	}
}

// SetForeground switches the interval bucket. A foreground poller refreshes
// on the base interval; a background one slows down.
func (p *Poller) SetForeground(fg bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.foreground = fg
	p.interval = p.baseLocked()
}

// NextInterval reports the current wait; exposed for tests and diagnostics.
func (p *Poller) NextInterval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

func (p *Poller) baseLocked() time.Duration {
	if p.foreground {
		return p.cfg.BaseInterval
	}
	return p.cfg.BackgroundInterval
}

// Observe folds a cycle result into the poller: state transition plus
// backoff adjustment. Split out from Run so the policy is testable without
// real time.
func (p *Poller) Observe(res Result, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if res.Failed {
		next := time.Duration(float64(p.interval) * p.cfg.BackoffFactor)
		if next > p.cfg.MaxInterval {
			next = p.cfg.MaxInterval
		}
		p.interval = next
		p.state = PollState{State: StateIdle, LastKey: p.state.LastKey, LastSwap: p.state.LastSwap}
		return
	}

	p.interval = p.baseLocked()
	if res.Key != "" && res.Key != p.state.LastKey {
		p.state = PollState{State: StateResolved, LastKey: res.Key, LastSwap: now}
	} else if res.Key != "" {
		p.state.State = StateResolved
	} else {
		p.state.State = StateIdle
	}
}

// Run loops until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	for {
		p.mu.Lock()
		wait := p.interval
		prev := p.state
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		res := p.task(ctx, prev)
		p.Observe(res, time.Now())
		if res.Failed {
			log.Printf("poll cycle failed, backing off (next wait %s)", p.NextInterval())
		}
	}
}
