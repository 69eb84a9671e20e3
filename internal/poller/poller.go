package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"missiondeck/internal/logging"
	"missiondeck/internal/mission"
)

// Fetcher reads the full mission snapshot from the backend.
type Fetcher interface {
	Missions(ctx context.Context) ([]mission.Mission, error)
}

// Poller owns the accepted snapshot and its fingerprint. Acceptance is the
// sole mutation point; everything else reads copies.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *slog.Logger
	onAccept func([]mission.Mission)

	mu          sync.Mutex
	fingerprint string
	accepted    []mission.Mission
	timers      map[*time.Timer]struct{}

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	refreshCh chan struct{}
}

// New constructs a poller. onAccept is invoked with a copy of every
// accepted snapshot, including the first; it runs on the poll goroutine.
func New(fetcher Fetcher, interval time.Duration, logger *slog.Logger, onAccept func([]mission.Mission)) *Poller {
	if onAccept == nil {
		onAccept = func([]mission.Mission) {}
	}
	return &Poller{
		fetcher:   fetcher,
		interval:  interval,
		logger:    logging.NewComponentLogger(logger, "poller"),
		onAccept:  onAccept,
		timers:    map[*time.Timer]struct{}{},
		refreshCh: make(chan struct{}, 1),
	}
}

// Start launches the poll loop. The first fetch happens immediately.
func (p *Poller) Start(ctx context.Context) error {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	if p.running {
		return errors.New("poller already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true

	p.wg.Add(1)
	go p.run(runCtx)
	return nil
}

// Stop terminates the loop, cancels pending deferred refreshes, and waits
// for the poll goroutine to exit.
func (p *Poller) Stop() {
	p.runMu.Lock()
	if !p.running {
		p.runMu.Unlock()
		return
	}
	cancel := p.cancel
	p.running = false
	p.cancel = nil
	p.runMu.Unlock()

	cancel()
	p.mu.Lock()
	for timer := range p.timers {
		timer.Stop()
	}
	p.timers = map[*time.Timer]struct{}{}
	p.mu.Unlock()
	p.wg.Wait()
}

// Refresh requests an out-of-band poll. Coalesces with any refresh already
// pending.
func (p *Poller) Refresh() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

// RefreshAfter schedules a single deferred refresh. Used after approvals
// to catch the backend's simulated approved-to-published transition that
// would otherwise fall between poll ticks.
func (p *Poller) RefreshAfter(delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		p.Refresh()
		p.mu.Lock()
		delete(p.timers, timer)
		p.mu.Unlock()
	})
	p.timers[timer] = struct{}{}
}

// Snapshot returns a copy of the accepted mission list.
func (p *Poller) Snapshot() []mission.Mission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mission.Mission(nil), p.accepted...)
}

// PollNow fetches and reconciles synchronously. It returns the fetch
// error, if any; an unchanged snapshot is not an error.
func (p *Poller) PollNow(ctx context.Context) error {
	missions, err := p.fetcher.Missions(ctx)
	if err != nil {
		p.logger.Warn("snapshot fetch failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "poll_fetch_failed"),
		)
		return err
	}

	fingerprint, err := Fingerprint(missions)
	if err != nil {
		p.logger.Warn("snapshot serialization failed", logging.Error(err))
		return err
	}

	p.mu.Lock()
	if fingerprint == p.fingerprint {
		p.mu.Unlock()
		return nil
	}
	p.fingerprint = fingerprint
	p.accepted = append([]mission.Mission(nil), missions...)
	accepted := append([]mission.Mission(nil), missions...)
	p.mu.Unlock()

	p.logger.Debug("snapshot accepted", logging.Int("missions", len(accepted)))
	p.onAccept(accepted)
	return nil
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()

	_ = p.PollNow(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.PollNow(ctx)
		case <-p.refreshCh:
			_ = p.PollNow(ctx)
		}
	}
}
