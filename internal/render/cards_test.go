package render

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"missiondeck/internal/mission"
)

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		status mission.Status
		want   string
	}{
		{mission.StatusReadyForApproval, "Ready For Approval"},
		{mission.StatusGenerating, "Generating"},
		{mission.Status("SOME_NEW_STATE"), "Some New State"},
	}
	for _, tc := range cases {
		if got := StatusLabel(tc.status); got != tc.want {
			t.Errorf("StatusLabel(%s) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestBuildProgressCardMapsAllStages(t *testing.T) {
	card := BuildProgressCard(mission.Mission{
		ID:       "m1",
		Topic:    "AI News",
		Status:   mission.StatusGenerating,
		Progress: 45,
	})
	if len(card.Stages) != mission.StageCount {
		t.Fatalf("got %d stages, want %d", len(card.Stages), mission.StageCount)
	}
	if card.StatusLabel != "Generating" {
		t.Errorf("status label = %q", card.StatusLabel)
	}
	if card.Progress != 45 {
		t.Errorf("progress = %d", card.Progress)
	}
}

func TestBuildContentCardTitleFallback(t *testing.T) {
	card := BuildContentCard(mission.Mission{ID: "m1", Status: mission.StatusPublished}, nil)
	if card.Title != UntitledDraft {
		t.Errorf("title = %q, want %q", card.Title, UntitledDraft)
	}

	card = BuildContentCard(mission.Mission{
		ID:     "m1",
		Status: mission.StatusPublished,
		Draft:  &mission.Draft{Title: "  "},
	}, nil)
	if card.Title != UntitledDraft {
		t.Errorf("blank draft title should fall back, got %q", card.Title)
	}
}

func TestBuildContentCardTruncatesVisualPrompt(t *testing.T) {
	long := strings.Repeat("é", VisualPreviewLimit+20)
	card := BuildContentCard(mission.Mission{
		Status: mission.StatusPublished,
		Draft:  &mission.Draft{Title: "T", VisualPrompt: long},
	}, nil)
	if !strings.HasSuffix(card.VisualPreview, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", card.VisualPreview)
	}
	if got := len([]rune(card.VisualPreview)); got != VisualPreviewLimit+3 {
		t.Errorf("preview rune length = %d, want %d", got, VisualPreviewLimit+3)
	}

	short := strings.Repeat("x", VisualPreviewLimit)
	card = BuildContentCard(mission.Mission{
		Status: mission.StatusPublished,
		Draft:  &mission.Draft{Title: "T", VisualPrompt: short},
	}, nil)
	if card.VisualPreview != short {
		t.Errorf("prompt at the limit should pass through untouched")
	}
}

func TestBuildContentCardVirality(t *testing.T) {
	card := BuildContentCard(mission.Mission{
		Status:   mission.StatusReadyForApproval,
		Analysis: &mission.Analysis{ViralityScore: 8, HookTechnique: "Curiosity Gap"},
	}, nil)
	if card.Virality != "8/10" {
		t.Errorf("virality = %q, want 8/10", card.Virality)
	}
	if card.HookTechnique != "Curiosity Gap" {
		t.Errorf("hook = %q", card.HookTechnique)
	}

	card = BuildContentCard(mission.Mission{Status: mission.StatusPublished}, nil)
	if card.Virality != "" {
		t.Errorf("missing analysis should leave virality empty, got %q", card.Virality)
	}
}

func TestBuildContentCardLocalTime(t *testing.T) {
	ts := mission.Timestamp{Time: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)}
	card := BuildContentCard(mission.Mission{Status: mission.StatusPublished, CreatedAt: ts}, nil)
	if !regexp.MustCompile(`^\d{2}:\d{2}$`).MatchString(card.CreatedAt) {
		t.Errorf("created-at = %q, want HH:MM", card.CreatedAt)
	}

	card = BuildContentCard(mission.Mission{Status: mission.StatusPublished}, nil)
	if card.CreatedAt != "" {
		t.Errorf("zero timestamp should render empty, got %q", card.CreatedAt)
	}
}

func TestBuildMediaBlock(t *testing.T) {
	m := mission.Mission{
		Status:   mission.StatusPublished,
		VideoURL: "https://cdn.example/top.mp4",
		Draft: &mission.Draft{
			Title:    "T",
			VideoURL: "https://cdn.example/draft.mp4",
			ImageURL: "https://cdn.example/draft.png",
		},
	}
	card := BuildContentCard(m, nil)
	if card.Media == nil {
		t.Fatal("expected media block")
	}
	if card.Media.VideoURL != "https://cdn.example/top.mp4" {
		t.Errorf("top-level video should win, got %q", card.Media.VideoURL)
	}
	if card.Media.ImageURL != "https://cdn.example/draft.png" {
		t.Errorf("draft image should fill in, got %q", card.Media.ImageURL)
	}
	if !card.Media.CaptionsEnabled {
		t.Error("absent preference should default captions on")
	}
}

func TestBuildMediaBlockFiltersUnplayable(t *testing.T) {
	m := mission.Mission{
		Status:   mission.StatusPublished,
		VideoURL: "https://cdn.example/broken.mp4",
	}
	reject := func(string) bool { return false }
	if card := BuildContentCard(m, reject); card.Media != nil {
		t.Errorf("fully filtered media should drop the block, got %+v", card.Media)
	}

	m.ImageURL = "https://cdn.example/ok.png"
	onlyImage := func(url string) bool { return url == m.ImageURL }
	card := BuildContentCard(m, onlyImage)
	if card.Media == nil || card.Media.VideoURL != "" || card.Media.ImageURL != m.ImageURL {
		t.Errorf("expected image-only block, got %+v", card.Media)
	}
}
