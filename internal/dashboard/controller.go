// Package dashboard wires the poll loop, display state, and renderer into
// the live watch session. The controller is the only place that reacts to
// accepted snapshots, so cross-cutting invariants (like dropping a topic
// filter whose missions disappeared server-side) are enforced here once.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"missiondeck/internal/actions"
	"missiondeck/internal/logging"
	"missiondeck/internal/mission"
	"missiondeck/internal/poller"
	"missiondeck/internal/render"
	"missiondeck/internal/viewstate"
)

// Options configures a watch session controller.
type Options struct {
	// Fetcher reads mission snapshots; normally the API client.
	Fetcher poller.Fetcher
	// Backend executes user actions; normally the same API client.
	Backend actions.Backend
	// PollInterval is the steady-state poll cadence.
	PollInterval time.Duration
	// LockPath guards against concurrent watch sessions. Empty disables
	// the lock (one-shot commands).
	LockPath string
	// Out receives rendered frames.
	Out io.Writer
	// ClearScreen redraws frames in place instead of appending.
	ClearScreen bool
	Logger      *slog.Logger
}

// Controller owns one dashboard session.
type Controller struct {
	view       *viewstate.State
	renderer   *render.Renderer
	poller     *poller.Poller
	dispatcher *actions.Dispatcher
	logger     *slog.Logger

	out         io.Writer
	outMu       sync.Mutex
	clearScreen bool

	lockPath string
	lock     *flock.Flock
}

// New assembles a controller. Start must be called before frames render.
func New(opts Options) *Controller {
	c := &Controller{
		view:        &viewstate.State{},
		renderer:    render.NewRenderer(opts.Out),
		logger:      logging.NewComponentLogger(opts.Logger, "dashboard"),
		out:         opts.Out,
		clearScreen: opts.ClearScreen,
		lockPath:    opts.LockPath,
	}
	c.poller = poller.New(opts.Fetcher, opts.PollInterval, opts.Logger, c.onSnapshot)
	c.dispatcher = actions.NewDispatcher(opts.Backend, c.poller, c.view, opts.Logger)
	return c
}

// Start acquires the session lock and launches the poll loop. The first
// frame renders as soon as the initial snapshot is accepted.
func (c *Controller) Start(ctx context.Context) error {
	if c.lockPath != "" {
		if err := os.MkdirAll(filepath.Dir(c.lockPath), 0o755); err != nil {
			return fmt.Errorf("create session directory: %w", err)
		}
		lock := flock.New(c.lockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire session lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("another watch session is already running (lock %s)", c.lockPath)
		}
		c.lock = lock
	}
	if err := c.poller.Start(ctx); err != nil {
		c.releaseLock()
		return err
	}
	return nil
}

// Stop tears the session down and releases the lock.
func (c *Controller) Stop() {
	c.poller.Stop()
	c.releaseLock()
}

func (c *Controller) releaseLock() {
	if c.lock == nil {
		return
	}
	if err := c.lock.Unlock(); err != nil {
		c.logger.Warn("session lock release failed", logging.Error(err))
	}
	c.lock = nil
}

// Dispatcher exposes the action dispatcher bound to this session.
func (c *Controller) Dispatcher() *actions.Dispatcher {
	return c.dispatcher
}

// Renderer exposes the session renderer, e.g. to mark media unplayable.
func (c *Controller) Renderer() *render.Renderer {
	return c.renderer
}

// Snapshot returns a copy of the currently accepted mission list.
func (c *Controller) Snapshot() []mission.Mission {
	return c.poller.Snapshot()
}

// Refresh requests an out-of-band poll.
func (c *Controller) Refresh() {
	c.poller.Refresh()
}

// SelectTopic filters the dashboard to one topic and repaints.
func (c *Controller) SelectTopic(topic string) {
	c.view.SelectTopic(topic)
	c.repaint(c.poller.Snapshot())
}

// ClearTopic removes the topic filter and repaints.
func (c *Controller) ClearTopic() {
	c.view.ClearTopic()
	c.repaint(c.poller.Snapshot())
}

// ToggleHistory flips topic history pagination, repaints, and returns the
// new show-all value.
func (c *Controller) ToggleHistory() bool {
	showAll := c.view.ToggleHistory()
	c.repaint(c.poller.Snapshot())
	return showAll
}

// onSnapshot runs on the poll goroutine for every accepted snapshot.
func (c *Controller) onSnapshot(missions []mission.Mission) {
	if topic, ok := c.view.SelectedTopic(); ok && !containsTopic(missions, topic) {
		c.view.ClearTopic()
		c.logger.Info("topic filter dropped, no missions remain",
			logging.String(logging.FieldTopic, topic))
	}
	c.repaint(missions)
}

func (c *Controller) repaint(missions []mission.Mission) {
	selected, hasSelection := c.view.SelectedTopic()
	frame := c.renderer.Render(render.View{
		Missions:       missions,
		SelectedTopic:  selected,
		HasSelection:   hasSelection,
		ShowAllHistory: c.view.ShowAllHistory(),
	})

	c.outMu.Lock()
	defer c.outMu.Unlock()
	if c.clearScreen {
		fmt.Fprint(c.out, "\x1b[2J\x1b[H")
	}
	fmt.Fprintln(c.out, frame)
}

func containsTopic(missions []mission.Mission, topic string) bool {
	for _, m := range missions {
		if m.Topic == topic {
			return true
		}
	}
	return false
}
