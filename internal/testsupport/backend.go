package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"missiondeck/internal/mission"
)

// StubBackend is an in-memory stand-in for the content-production backend.
// It serves the snapshot, workflow, approval, and deletion endpoints over
// a real httptest listener so CLI and client code can be exercised
// end-to-end.
type StubBackend struct {
	t      testing.TB
	server *httptest.Server

	mu        sync.Mutex
	missions  []mission.Mission
	workflows []WorkflowCall
	nextID    int
}

// WorkflowCall records one run-workflow submission.
type WorkflowCall struct {
	Topic       string `json:"topic"`
	Platform    string `json:"platform"`
	Duration    int    `json:"duration"`
	Tone        string `json:"tone"`
	UseCaptions bool   `json:"use_captions"`
}

// NewStubBackend starts a stub server and registers its shutdown with the
// test cleanup.
func NewStubBackend(t testing.TB) *StubBackend {
	t.Helper()
	b := &StubBackend{t: t, nextID: 1}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/posts", b.handlePosts)
	mux.HandleFunc("/api/posts/", b.handlePostByID)
	mux.HandleFunc("/api/run-workflow", b.handleRunWorkflow)
	mux.HandleFunc("/api/approve/", b.handleApprove)
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the stub's base URL.
func (b *StubBackend) URL() string {
	return b.server.URL
}

// SetMissions replaces the served snapshot.
func (b *StubBackend) SetMissions(missions ...mission.Mission) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.missions = append([]mission.Mission(nil), missions...)
}

// Missions returns a copy of the current snapshot.
func (b *StubBackend) Missions() []mission.Mission {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]mission.Mission(nil), b.missions...)
}

// Workflows returns every recorded run-workflow submission.
func (b *StubBackend) Workflows() []WorkflowCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]WorkflowCall(nil), b.workflows...)
}

func (b *StubBackend) handlePosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	b.mu.Lock()
	missions := append([]mission.Mission(nil), b.missions...)
	b.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(missions); err != nil {
		b.t.Errorf("encode snapshot: %v", err)
	}
}

func (b *StubBackend) handlePostByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/posts/")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, m := range b.missions {
		if m.ID == id {
			b.missions = append(b.missions[:i], b.missions[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (b *StubBackend) handleRunWorkflow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var call WorkflowCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	id := fmt.Sprintf("stub-%d", b.nextID)
	b.nextID++
	b.workflows = append(b.workflows, call)
	b.missions = append(b.missions, mission.Mission{
		ID:     id,
		Topic:  call.Topic,
		Status: mission.StatusInitializing,
	})
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": "workflow started",
		"post_id": id,
	})
}

func (b *StubBackend) handleApprove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/approve/")
	var body struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	status := mission.StatusApproved
	if body.Action == "REJECT" {
		status = mission.StatusRejected
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, m := range b.missions {
		if m.ID == id {
			b.missions[i].Status = status
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}
