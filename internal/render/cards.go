package render

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"missiondeck/internal/mission"
)

// VisualPreviewLimit caps the visual prompt excerpt shown on content cards.
const VisualPreviewLimit = 80

// UntitledDraft is shown while a terminal mission's draft payload has not
// caught up with its status.
const UntitledDraft = "Processing..."

// ProgressCard is the view model for a mission still moving through the
// production pipeline.
type ProgressCard struct {
	MissionID   string
	Topic       string
	StatusLabel string
	Progress    int
	Stages      []mission.StageView
}

// ErrorCard is the view model for a mission halted by an in-band failure.
type ErrorCard struct {
	MissionID string
	Topic     string
	Progress  int
}

// MediaBlock describes the playable media attached to a content card. A nil
// block means the card renders without a media section.
type MediaBlock struct {
	VideoURL        string
	ImageURL        string
	CaptionsEnabled bool
}

// ContentCard is the view model for a finished mission's deliverable.
type ContentCard struct {
	MissionID       string
	Topic           string
	Title           string
	CreatedAt       string
	StatusLabel     string
	Virality        string
	HookTechnique   string
	HookVariations  []string
	EmotionalPayoff string
	Script          string
	Caption         string
	VisualPreview   string
	Media           *MediaBlock
}

// StatusLabel converts a backend status constant into display form, e.g.
// READY_FOR_APPROVAL becomes "Ready For Approval".
func StatusLabel(s mission.Status) string {
	label := strings.ReplaceAll(string(s), "_", " ")
	// Casers are stateful; build one per call since renders run on both
	// the poll goroutine and command goroutines.
	return cases.Title(language.English).String(strings.ToLower(label))
}

// BuildProgressCard maps a progressing mission onto its stage breakdown.
func BuildProgressCard(m mission.Mission) ProgressCard {
	return ProgressCard{
		MissionID:   m.ID,
		Topic:       m.Topic,
		StatusLabel: StatusLabel(m.Status),
		Progress:    m.Progress,
		Stages:      mission.MapStages(m.Progress),
	}
}

// BuildErrorCard maps a failed mission onto the halt notice, preserving the
// progress value it stalled at.
func BuildErrorCard(m mission.Mission) ErrorCard {
	return ErrorCard{MissionID: m.ID, Topic: m.Topic, Progress: m.Progress}
}

// BuildContentCard maps a terminal mission onto its deliverable view.
// mediaOK, when non-nil, filters out media locations known to be
// unplayable; a card whose media is entirely filtered renders without a
// media block rather than with a broken one.
func BuildContentCard(m mission.Mission, mediaOK func(url string) bool) ContentCard {
	card := ContentCard{
		MissionID:   m.ID,
		Topic:       m.Topic,
		Title:       UntitledDraft,
		StatusLabel: StatusLabel(m.Status),
	}
	if !m.CreatedAt.IsZero() {
		card.CreatedAt = m.CreatedAt.In(time.Local).Format("15:04")
	}
	if m.Draft != nil {
		if strings.TrimSpace(m.Draft.Title) != "" {
			card.Title = m.Draft.Title
		}
		card.Script = m.Draft.Script
		card.Caption = m.Draft.Caption
		card.EmotionalPayoff = m.Draft.EmotionalPayoff
		card.VisualPreview = truncateRunes(m.Draft.VisualPrompt, VisualPreviewLimit)
	}
	if m.Analysis != nil {
		card.Virality = fmt.Sprintf("%d/10", m.Analysis.ViralityScore)
		card.HookTechnique = m.Analysis.HookTechnique
		card.HookVariations = m.Analysis.HookVariations
	}
	card.Media = buildMediaBlock(m, mediaOK)
	return card
}

func buildMediaBlock(m mission.Mission, mediaOK func(url string) bool) *MediaBlock {
	video := m.VideoSource()
	image := m.ImageSource()
	if mediaOK != nil {
		if video != "" && !mediaOK(video) {
			video = ""
		}
		if image != "" && !mediaOK(image) {
			image = ""
		}
	}
	if video == "" && image == "" {
		return nil
	}
	return &MediaBlock{
		VideoURL:        video,
		ImageURL:        image,
		CaptionsEnabled: m.CaptionsEnabled(),
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
