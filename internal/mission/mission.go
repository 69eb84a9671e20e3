package mission

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the backend-reported lifecycle of a mission.
type Status string

const (
	StatusInitializing Status = "INITIALIZING"
	StatusSearching    Status = "SEARCHING"
	StatusAnalyzing    Status = "ANALYZING"
	StatusGenerating   Status = "GENERATING"
	StatusError        Status = "ERROR"

	// Terminal statuses the backend is known to emit. Classification does
	// not depend on this list: anything outside the active set counts as
	// complete, including statuses added server-side later.
	StatusReadyForApproval Status = "READY_FOR_APPROVAL"
	StatusApproved         Status = "APPROVED"
	StatusPublished        Status = "PUBLISHED"
	StatusRejected         Status = "REJECTED"
)

var activeStatuses = map[Status]struct{}{
	StatusInitializing: {},
	StatusSearching:    {},
	StatusAnalyzing:    {},
	StatusGenerating:   {},
	StatusError:        {},
}

// Class partitions missions into the two render modes.
type Class int

const (
	// ClassProgressing covers missions still moving through the pipeline,
	// including the in-band ERROR state.
	ClassProgressing Class = iota
	// ClassCompleted covers every terminal status.
	ClassCompleted
)

// Classify maps a mission to its render mode. Pure; re-evaluated on every
// render pass rather than cached on the mission.
func Classify(m Mission) Class {
	if _, ok := activeStatuses[m.Status]; ok {
		return ClassProgressing
	}
	return ClassCompleted
}

// IsActive reports whether the status belongs to the progressing set.
func (s Status) IsActive() bool {
	_, ok := activeStatuses[s]
	return ok
}

// Resume defaults applied when a failed mission is re-submitted without
// stored parameters.
const (
	DefaultTone     = "Professional"
	DefaultDuration = 60
	DefaultPlatform = "TikTok"
)

// Draft is the generated content payload attached to a mission once the
// drafting stages finish.
type Draft struct {
	Title           string `json:"title"`
	Script          string `json:"script"`
	HookSelected    string `json:"hook_selected,omitempty"`
	EmotionalPayoff string `json:"emotional_payoff,omitempty"`
	Caption         string `json:"caption,omitempty"`
	VisualPrompt    string `json:"visual_prompt"`
	ImageURL        string `json:"image_url,omitempty"`
	VideoURL        string `json:"video_url,omitempty"`
}

// Analysis captures the strategist verdict on the selected trend.
type Analysis struct {
	ViralityScore    int      `json:"virality_score"`
	HookTechnique    string   `json:"hook_technique"`
	HookVariations   []string `json:"hook_variations,omitempty"`
	EmotionalTrigger string   `json:"emotional_trigger,omitempty"`
}

// Mission is one content-production job tracked by the dashboard.
type Mission struct {
	ID          string    `json:"id"`
	Topic       string    `json:"topic"`
	Status      Status    `json:"status"`
	Progress    int       `json:"progress"`
	CreatedAt   Timestamp `json:"created_at"`
	Draft       *Draft    `json:"draft,omitempty"`
	Analysis    *Analysis `json:"analysis,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	VideoURL    string    `json:"video_url,omitempty"`
	UseCaptions *bool     `json:"use_captions,omitempty"`
	Platform    string    `json:"platform,omitempty"`
	Tone        string    `json:"tone,omitempty"`
	Duration    int       `json:"duration,omitempty"`
}

// VideoSource resolves the playable video location; the top-level field
// wins over the draft-nested one.
func (m Mission) VideoSource() string {
	if m.VideoURL != "" {
		return m.VideoURL
	}
	if m.Draft != nil {
		return m.Draft.VideoURL
	}
	return ""
}

// ImageSource resolves the preview image location with the same precedence
// as VideoSource.
func (m Mission) ImageSource() string {
	if m.ImageURL != "" {
		return m.ImageURL
	}
	if m.Draft != nil {
		return m.Draft.ImageURL
	}
	return ""
}

// CaptionsEnabled reports the caption preference; absent means enabled.
func (m Mission) CaptionsEnabled() bool {
	return m.UseCaptions == nil || *m.UseCaptions
}

// ResumeTone returns the stored tone or the resubmission default.
func (m Mission) ResumeTone() string {
	if strings.TrimSpace(m.Tone) != "" {
		return m.Tone
	}
	return DefaultTone
}

// ResumeDuration returns the stored duration or the resubmission default.
func (m Mission) ResumeDuration() int {
	if m.Duration > 0 {
		return m.Duration
	}
	return DefaultDuration
}

// ResumePlatform returns the stored platform or the resubmission default.
func (m Mission) ResumePlatform() string {
	if strings.TrimSpace(m.Platform) != "" {
		return m.Platform
	}
	return DefaultPlatform
}

// Timestamp parses the backend's creation timestamps, which may arrive as
// RFC3339 or as Python isoformat values without a zone offset.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON accepts any of the known backend timestamp layouts.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}

// MarshalJSON emits a canonical RFC3339Nano form so snapshot fingerprints
// are stable across poll cycles.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Time.Format(time.RFC3339Nano) + `"`), nil
}
