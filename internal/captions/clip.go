package captions

import "sync"

// Clip is a simulated media resource for surfaces where the actual video
// plays elsewhere (the CLI preview). Timing metadata may be supplied up
// front or later via SetDuration to mirror deferred metadata loading.
type Clip struct {
	mu       sync.Mutex
	duration float64
	known    bool
	playing  bool
	muted    bool
	ready    []func()
}

// NewClip returns a clip whose duration is known immediately.
func NewClip(durationSeconds float64) *Clip {
	return &Clip{duration: durationSeconds, known: true}
}

// NewPendingClip returns a clip whose timing metadata arrives later.
func NewPendingClip() *Clip {
	return &Clip{}
}

// SetDuration delivers timing metadata and fires queued readiness
// callbacks.
func (c *Clip) SetDuration(durationSeconds float64) {
	c.mu.Lock()
	c.duration = durationSeconds
	c.known = true
	callbacks := c.ready
	c.ready = nil
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

func (c *Clip) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = true
}

func (c *Clip) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
}

// Playing reports playback state.
func (c *Clip) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func (c *Clip) SetMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = muted
}

func (c *Clip) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

func (c *Clip) Duration() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration, c.known
}

func (c *Clip) OnReady(fn func()) {
	c.mu.Lock()
	if c.known {
		c.mu.Unlock()
		fn()
		return
	}
	c.ready = append(c.ready, fn)
	c.mu.Unlock()
}
