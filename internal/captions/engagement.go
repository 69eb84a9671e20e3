package captions

import (
	"sync"
	"time"
)

// FallbackDuration stands in when the media reports an unknown or
// non-positive duration.
const FallbackDuration = 15 * time.Second

// Media abstracts the playable resource an engagement drives. Duration
// reports seconds and ok=false while timing metadata is still loading;
// OnReady must invoke its callback immediately if metadata is already
// available, otherwise exactly once when it becomes available.
type Media interface {
	Play()
	Pause()
	SetMuted(muted bool)
	Muted() bool
	Duration() (seconds float64, ok bool)
	OnReady(fn func())
}

// Sink receives caption display updates.
type Sink interface {
	ShowCaption(text string)
	HideCaptions()
}

// Engagement is one active media interaction session. Start and Stop
// bracket the session; Stop is unconditional and idempotent.
type Engagement struct {
	media  Media
	sink   Sink
	chunks []string

	mu      sync.Mutex
	active  bool
	session int
	index   int
	stop    chan struct{}
}

// NewEngagement prepares an engagement for a mission's media. Captions are
// scheduled only when enabled and the script produces at least one chunk.
func NewEngagement(media Media, sink Sink, script string, captionsEnabled bool) *Engagement {
	e := &Engagement{media: media, sink: sink}
	if captionsEnabled {
		e.chunks = Chunks(script)
	}
	return e
}

// Start begins muted playback and, when captions apply, schedules the
// chunk cycle against the media's duration. Scheduling is deferred until
// timing metadata is available.
func (e *Engagement) Start() {
	e.mu.Lock()
	if e.active {
		e.mu.Unlock()
		return
	}
	e.active = true
	e.session++
	session := e.session
	e.mu.Unlock()

	e.media.SetMuted(true)
	e.media.Play()

	if len(e.chunks) == 0 {
		return
	}
	e.media.OnReady(func() {
		e.beginCaptions(session)
	})
}

func (e *Engagement) beginCaptions(session int) {
	interval := e.chunkInterval()

	e.mu.Lock()
	if !e.active || e.session != session {
		// Stale readiness callback from a torn-down engagement.
		e.mu.Unlock()
		return
	}
	if e.stop != nil {
		close(e.stop)
	}
	stop := make(chan struct{})
	e.stop = stop
	e.index = 0
	chunk := e.chunks[0]
	e.mu.Unlock()

	e.sink.ShowCaption(chunk)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if text, ok := e.advance(stop); ok {
					e.sink.ShowCaption(text)
				} else {
					return
				}
			}
		}
	}()
}

// advance moves to the next chunk, wrapping past the end; captions loop
// regardless of whether the media does.
func (e *Engagement) advance(owner chan struct{}) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || e.stop != owner {
		return "", false
	}
	e.index = (e.index + 1) % len(e.chunks)
	return e.chunks[e.index], true
}

func (e *Engagement) chunkInterval() time.Duration {
	duration := FallbackDuration
	if seconds, ok := e.media.Duration(); ok && seconds > 0 {
		duration = time.Duration(seconds * float64(time.Second))
	}
	return duration / time.Duration(len(e.chunks))
}

// Stop tears the session down: pause playback, cancel the caption timer,
// hide captions. Safe to call repeatedly and without a prior Start.
func (e *Engagement) Stop() {
	e.mu.Lock()
	e.active = false
	e.session++
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
	e.mu.Unlock()

	e.media.Pause()
	e.sink.HideCaptions()
}

// ToggleMute flips the media's muted flag and returns the new value.
// Caption timing is unaffected.
func (e *Engagement) ToggleMute() bool {
	muted := !e.media.Muted()
	e.media.SetMuted(muted)
	return muted
}
