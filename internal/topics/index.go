// Package topics derives the deduplicated topic history shown in the
// dashboard sidebar from the accepted mission snapshot.
package topics

import "missiondeck/internal/mission"

// CollapsedLimit is how many topics the collapsed history view shows.
const CollapsedLimit = 2

// Entry is one topic history row.
type Entry struct {
	Topic    string
	Selected bool
}

// Index is the derived, paginated topic history. Recomputed on every
// accepted snapshot; never persisted.
type Index struct {
	Entries []Entry
	// HasMore reports whether a show-more affordance applies, regardless
	// of whether the view is currently expanded.
	HasMore bool
}

// BuildIndex collects non-empty topics, deduplicates them preserving first
// occurrence, and reverses the result so the most recently introduced
// topic comes first. Note this orders by first introduction, not last
// activity: a topic updated later keeps its original position. That
// matches the shipped behavior and is covered by tests; do not "fix" it.
func BuildIndex(missions []mission.Mission, selectedTopic string, showAll bool) Index {
	seen := make(map[string]struct{}, len(missions))
	ordered := make([]string, 0, len(missions))
	for _, m := range missions {
		if m.Topic == "" {
			continue
		}
		if _, ok := seen[m.Topic]; ok {
			continue
		}
		seen[m.Topic] = struct{}{}
		ordered = append(ordered, m.Topic)
	}

	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}

	index := Index{HasMore: len(ordered) > CollapsedLimit}
	if index.HasMore && !showAll {
		ordered = ordered[:CollapsedLimit]
	}

	index.Entries = make([]Entry, 0, len(ordered))
	for _, topic := range ordered {
		index.Entries = append(index.Entries, Entry{
			Topic:    topic,
			Selected: selectedTopic != "" && topic == selectedTopic,
		})
	}
	return index
}
