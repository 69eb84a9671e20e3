package render

import (
	"strings"
	"testing"

	"missiondeck/internal/mission"
)

func newTestRenderer() *Renderer {
	r := NewRenderer(nil)
	r.SetColorize(false)
	return r
}

func completedMission(id, topic, title string) mission.Mission {
	return mission.Mission{
		ID:     id,
		Topic:  topic,
		Status: mission.StatusPublished,
		Draft:  &mission.Draft{Title: title, Script: "hello there world"},
	}
}

func TestRenderEmptyState(t *testing.T) {
	out := newTestRenderer().Render(View{})
	if !strings.Contains(out, "No missions yet") {
		t.Errorf("expected placeholder, got %q", out)
	}
}

func TestRenderEmptyFilteredTopic(t *testing.T) {
	out := newTestRenderer().Render(View{
		Missions:      []mission.Mission{completedMission("m1", "Cats", "Cat Video")},
		SelectedTopic: "Dogs",
		HasSelection:  true,
	})
	if !strings.Contains(out, `No missions for topic "Dogs"`) {
		t.Errorf("expected filtered empty notice, got %q", out)
	}
	if strings.Contains(out, "Cat Video") {
		t.Errorf("filtered-out mission leaked into output: %q", out)
	}
}

func TestRenderFiltersBySelectedTopic(t *testing.T) {
	view := View{
		Missions: []mission.Mission{
			completedMission("m1", "Cats", "Cat Video"),
			completedMission("m2", "Dogs", "Dog Video"),
		},
		SelectedTopic: "Dogs",
		HasSelection:  true,
	}
	out := newTestRenderer().Render(view)
	if !strings.Contains(out, "Dog Video") {
		t.Errorf("selected topic's card missing: %q", out)
	}
	if strings.Contains(out, "Cat Video") {
		t.Errorf("unselected topic's card present: %q", out)
	}
}

func TestRenderTopicStripCollapsed(t *testing.T) {
	view := View{
		Missions: []mission.Mission{
			completedMission("m1", "Alpha", "A"),
			completedMission("m2", "Beta", "B"),
			completedMission("m3", "Gamma", "C"),
		},
	}
	out := newTestRenderer().Render(view)
	if !strings.Contains(out, "Gamma") || !strings.Contains(out, "Beta") {
		t.Errorf("newest two topics missing from strip: %q", out)
	}
	if !strings.Contains(out, "older topics hidden") {
		t.Errorf("expected collapse hint: %q", out)
	}

	// The strip hides Alpha, but its card still renders (no selection).
	if !strings.Contains(out, "Recent topics:") {
		t.Errorf("expected topic strip header: %q", out)
	}
}

func TestRenderTopicStripExpanded(t *testing.T) {
	view := View{
		Missions: []mission.Mission{
			completedMission("m1", "Alpha", "A"),
			completedMission("m2", "Beta", "B"),
			completedMission("m3", "Gamma", "C"),
		},
		ShowAllHistory: true,
	}
	out := newTestRenderer().Render(view)
	for _, topic := range []string{"Alpha", "Beta", "Gamma"} {
		if !strings.Contains(out, topic) {
			t.Errorf("expanded strip missing %s: %q", topic, out)
		}
	}
	if strings.Contains(out, "older topics hidden") {
		t.Errorf("expanded strip should not show collapse hint: %q", out)
	}
}

func TestRenderProgressCard(t *testing.T) {
	view := View{
		Missions: []mission.Mission{{
			ID:       "m1",
			Topic:    "Space",
			Status:   mission.StatusGenerating,
			Progress: 45,
		}},
	}
	out := newTestRenderer().Render(view)
	for _, label := range []string{"Creative Scripting", "Voiceover Rendering", "Final Assembly"} {
		if !strings.Contains(out, label) {
			t.Errorf("stage %q missing: %q", label, out)
		}
	}
	if !strings.Contains(out, "[Generating]") {
		t.Errorf("status label missing: %q", out)
	}
	if !strings.Contains(out, "45%") {
		t.Errorf("overall progress missing: %q", out)
	}
}

func TestRenderErrorCard(t *testing.T) {
	view := View{
		Missions: []mission.Mission{{
			ID:       "m9",
			Topic:    "Space",
			Status:   mission.StatusError,
			Progress: 62,
		}},
	}
	out := newTestRenderer().Render(view)
	if !strings.Contains(out, "[FAILED]") {
		t.Errorf("failure badge missing: %q", out)
	}
	if !strings.Contains(out, "halted at 62%") {
		t.Errorf("stall progress missing: %q", out)
	}
	if !strings.Contains(out, "resume m9") || !strings.Contains(out, "discard m9") {
		t.Errorf("recovery hints missing: %q", out)
	}
	if strings.Contains(out, "Creative Scripting") {
		t.Errorf("error card should not render stages: %q", out)
	}
}

func TestRenderOmitsMarkedUnplayableMedia(t *testing.T) {
	r := newTestRenderer()
	m := completedMission("m1", "Cats", "Cat Video")
	m.VideoURL = "https://cdn.example/broken.mp4"

	out := r.Render(View{Missions: []mission.Mission{m}})
	if !strings.Contains(out, "broken.mp4") {
		t.Fatalf("media should render before being marked: %q", out)
	}

	r.MarkUnplayable(m.VideoURL)
	out = r.Render(View{Missions: []mission.Mission{m}})
	if strings.Contains(out, "broken.mp4") {
		t.Errorf("marked media still rendered: %q", out)
	}
}

func TestRenderColorizeOff(t *testing.T) {
	out := newTestRenderer().Render(View{
		Missions: []mission.Mission{{ID: "m1", Topic: "T", Status: mission.StatusError}},
	})
	if strings.Contains(out, "\x1b[") {
		t.Errorf("ANSI sequences present with colorize disabled: %q", out)
	}
}
