package dashboard

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"missiondeck/internal/api"
	"missiondeck/internal/logging"
	"missiondeck/internal/mission"
)

type scriptedFetcher struct {
	mu        sync.Mutex
	snapshots [][]mission.Mission
}

func (f *scriptedFetcher) Missions(context.Context) ([]mission.Mission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := f.snapshots[0]
	if len(f.snapshots) > 1 {
		f.snapshots = f.snapshots[1:]
	}
	return snapshot, nil
}

func (f *scriptedFetcher) push(snapshot []mission.Mission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, snapshot)
}

type nopBackend struct{}

func (nopBackend) RunWorkflow(context.Context, api.WorkflowRequest) (*api.WorkflowResponse, error) {
	return &api.WorkflowResponse{}, nil
}
func (nopBackend) Approve(context.Context, string, api.ApprovalAction) error { return nil }
func (nopBackend) Delete(context.Context, string) error                      { return nil }

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) waitFor(t *testing.T, substr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(b.String(), substr) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output:\n%s", substr, b.String())
}

func testMission(id, topic string) mission.Mission {
	return mission.Mission{
		ID:     id,
		Topic:  topic,
		Status: mission.StatusPublished,
		Draft:  &mission.Draft{Title: topic + " Video"},
	}
}

func newTestController(t *testing.T, fetcher *scriptedFetcher, out *syncBuffer) *Controller {
	t.Helper()
	c := New(Options{
		Fetcher:      fetcher,
		Backend:      nopBackend{},
		PollInterval: time.Hour, // ticks never fire; tests drive Refresh
		Out:          out,
		Logger:       logging.NewNop(),
	})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(c.Stop)
	return c
}

func TestControllerRendersInitialSnapshot(t *testing.T) {
	fetcher := &scriptedFetcher{snapshots: [][]mission.Mission{{testMission("m1", "Cats")}}}
	out := &syncBuffer{}
	newTestController(t, fetcher, out)

	out.waitFor(t, "Cats Video")
}

func TestControllerDropsOrphanedTopicFilter(t *testing.T) {
	fetcher := &scriptedFetcher{snapshots: [][]mission.Mission{{
		testMission("m1", "Cats"),
		testMission("m2", "Dogs"),
	}}}
	out := &syncBuffer{}
	c := newTestController(t, fetcher, out)
	out.waitFor(t, "Cats Video")

	c.SelectTopic("Cats")
	out.waitFor(t, `> `)

	fetcher.push([]mission.Mission{testMission("m2", "Dogs")})
	c.Refresh()

	// The filter pointed at a topic with no missions left; the next
	// accepted snapshot must clear it and show the remaining mission.
	out.waitFor(t, "Dogs Video")
	if _, selected := c.view.SelectedTopic(); selected {
		t.Error("orphaned topic filter should have been dropped")
	}
}

func TestControllerKeepsFilterWhileTopicSurvives(t *testing.T) {
	fetcher := &scriptedFetcher{snapshots: [][]mission.Mission{{
		testMission("m1", "Cats"),
		testMission("m2", "Dogs"),
	}}}
	out := &syncBuffer{}
	c := newTestController(t, fetcher, out)
	out.waitFor(t, "Cats Video")

	c.SelectTopic("Dogs")
	fetcher.push([]mission.Mission{
		testMission("m1", "Cats"),
		testMission("m2", "Dogs"),
		testMission("m3", "Dogs"),
	})
	c.Refresh()

	out.waitFor(t, "m3")
	if topic, selected := c.view.SelectedTopic(); !selected || topic != "Dogs" {
		t.Errorf("filter should survive, got %q selected=%v", topic, selected)
	}
}

func TestControllerToggleHistory(t *testing.T) {
	fetcher := &scriptedFetcher{snapshots: [][]mission.Mission{{
		testMission("m1", "Alpha"),
		testMission("m2", "Beta"),
		testMission("m3", "Gamma"),
	}}}
	out := &syncBuffer{}
	c := newTestController(t, fetcher, out)
	out.waitFor(t, "older topics hidden")

	if showAll := c.ToggleHistory(); !showAll {
		t.Fatal("first toggle should expand history")
	}
	// ToggleHistory repaints synchronously, so the newest frame is final.
	frames := strings.Split(out.String(), "Recent topics:")
	last := frames[len(frames)-1]
	if strings.Contains(last, "older topics hidden") {
		t.Errorf("expanded frame still shows collapse hint:\n%s", last)
	}
	if showAll := c.ToggleHistory(); showAll {
		t.Error("second toggle should collapse again")
	}
}

func TestControllerSessionLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "session", "missiondeck.lock")
	fetcher := &scriptedFetcher{snapshots: [][]mission.Mission{{}}}

	first := New(Options{
		Fetcher:      fetcher,
		Backend:      nopBackend{},
		PollInterval: time.Hour,
		LockPath:     lockPath,
		Out:          &syncBuffer{},
		Logger:       logging.NewNop(),
	})
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}

	second := New(Options{
		Fetcher:      fetcher,
		Backend:      nopBackend{},
		PollInterval: time.Hour,
		LockPath:     lockPath,
		Out:          &syncBuffer{},
		Logger:       logging.NewNop(),
	})
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second session should fail to acquire the lock")
	}

	first.Stop()

	// Lock released: a fresh session may start.
	third := New(Options{
		Fetcher:      fetcher,
		Backend:      nopBackend{},
		PollInterval: time.Hour,
		LockPath:     lockPath,
		Out:          &syncBuffer{},
		Logger:       logging.NewNop(),
	})
	if err := third.Start(context.Background()); err != nil {
		t.Fatalf("restart after release: %v", err)
	}
	third.Stop()
}
