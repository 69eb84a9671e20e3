// Package viewstate holds the process-local display preferences owned by
// the dashboard controller: the active topic filter and the history
// pagination toggle. All mutation goes through named transitions; the
// poll cycle itself never touches this state.
package viewstate

import "sync"

// State is safe for concurrent use; the poll loop reads it while CLI
// actions mutate it.
type State struct {
	mu             sync.Mutex
	selectedTopic  string
	showAllHistory bool
}

// SelectTopic activates a topic filter. An empty topic clears it.
func (s *State) SelectTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTopic = topic
}

// ClearTopic returns the view to the unfiltered gallery mode.
func (s *State) ClearTopic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTopic = ""
}

// SelectedTopic reports the active filter, if any.
func (s *State) SelectedTopic() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedTopic, s.selectedTopic != ""
}

// DropTopicIfSelected clears the filter when it matches topic and reports
// whether it did. Used after topic deletion so the next render does not
// filter on a topic with no missions.
func (s *State) DropTopicIfSelected(topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedTopic != "" && s.selectedTopic == topic {
		s.selectedTopic = ""
		return true
	}
	return false
}

// ToggleHistory flips the show-all pagination flag and returns the new
// value.
func (s *State) ToggleHistory() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showAllHistory = !s.showAllHistory
	return s.showAllHistory
}

// SetShowAllHistory sets the pagination flag directly (flag-driven CLI
// invocations).
func (s *State) SetShowAllHistory(showAll bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showAllHistory = showAll
}

// ShowAllHistory reports the pagination flag.
func (s *State) ShowAllHistory() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showAllHistory
}
