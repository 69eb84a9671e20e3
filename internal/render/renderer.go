package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"missiondeck/internal/mission"
	"missiondeck/internal/topics"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiDim    = "\x1b[2m"
)

const (
	progressBarWidth = 12
	scriptWrapWidth  = 72
)

// View bundles everything one render pass needs: the accepted snapshot and
// the local presentation state.
type View struct {
	Missions       []mission.Mission
	SelectedTopic  string
	HasSelection   bool
	ShowAllHistory bool
}

// Renderer lays a View out as terminal text. It also tracks media
// locations reported unplayable so their cards drop the media block
// instead of advertising a dead link.
type Renderer struct {
	colorize bool

	mu         sync.Mutex
	unplayable map[string]struct{}
}

// NewRenderer builds a renderer that colorizes when out is a terminal.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		colorize:   shouldColorize(out),
		unplayable: make(map[string]struct{}),
	}
}

// SetColorize overrides terminal detection, for tests and --no-color.
func (r *Renderer) SetColorize(enabled bool) {
	r.colorize = enabled
}

// MarkUnplayable records a media location that failed to load. Subsequent
// render passes omit it.
func (r *Renderer) MarkUnplayable(url string) {
	if url == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unplayable[url] = struct{}{}
}

func (r *Renderer) mediaOK(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, bad := r.unplayable[url]
	return !bad
}

// Render produces the full dashboard frame for the given view. Output is
// replaced wholesale on every pass.
func (r *Renderer) Render(view View) string {
	var b strings.Builder

	index := topics.BuildIndex(view.Missions, view.SelectedTopic, view.ShowAllHistory)
	if section := r.renderTopicStrip(index, view); section != "" {
		b.WriteString(section)
		b.WriteString("\n")
	}

	visible := filterByTopic(view.Missions, view.SelectedTopic, view.HasSelection)
	if len(visible) == 0 {
		b.WriteString(r.renderEmptyState(view))
		return b.String()
	}

	for i, m := range visible {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.renderMission(m))
		b.WriteString("\n")
	}
	return b.String()
}

// filterByTopic narrows the card list to the selected topic. No selection
// means every mission is visible.
func filterByTopic(missions []mission.Mission, topic string, hasSelection bool) []mission.Mission {
	if !hasSelection {
		return missions
	}
	filtered := make([]mission.Mission, 0, len(missions))
	for _, m := range missions {
		if m.Topic == topic {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func (r *Renderer) renderMission(m mission.Mission) string {
	if mission.Classify(m) == mission.ClassCompleted {
		return r.renderContentCard(BuildContentCard(m, r.mediaOK))
	}
	if m.Status == mission.StatusError {
		return r.renderErrorCard(BuildErrorCard(m))
	}
	return r.renderProgressCard(BuildProgressCard(m))
}

func (r *Renderer) renderTopicStrip(index topics.Index, view View) string {
	if len(index.Entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.paint("Recent topics:", ansiBlue))
	b.WriteString("\n")
	for _, entry := range index.Entries {
		marker := "  "
		line := entry.Topic
		if entry.Selected {
			marker = "> "
			line = r.paint(line, ansiGreen)
		}
		fmt.Fprintf(&b, "  %s%s\n", marker, line)
	}
	if index.HasMore && !view.ShowAllHistory {
		b.WriteString(r.paint("  (older topics hidden; toggle history to show all)", ansiDim))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) renderEmptyState(view View) string {
	if view.HasSelection {
		return fmt.Sprintf("No missions for topic %q.\n", view.SelectedTopic)
	}
	return "No missions yet. Launch one with: missiondeck run --topic <topic>\n"
}

func (r *Renderer) renderProgressCard(card ProgressCard) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("%s  [%s]", card.Topic, card.StatusLabel))
	tw.AppendHeader(table.Row{"Stage", "Progress", ""})
	for _, stage := range card.Stages {
		tw.AppendRow(table.Row{
			stage.Label,
			r.progressBar(stage),
			r.stageStatus(stage),
		})
	}
	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d%%", card.Progress)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

func (r *Renderer) renderErrorCard(card ErrorCard) string {
	var b strings.Builder
	b.WriteString(r.paint(fmt.Sprintf("%s  [FAILED]", card.Topic), ansiRed))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Production halted at %d%%.\n", card.Progress)
	fmt.Fprintf(&b, "  Retry:   missiondeck resume %s\n", card.MissionID)
	fmt.Fprintf(&b, "  Discard: missiondeck discard %s", card.MissionID)
	return b.String()
}

func (r *Renderer) renderContentCard(card ContentCard) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	title := card.Title
	if card.CreatedAt != "" {
		title = fmt.Sprintf("%s  ·  %s", card.Title, card.CreatedAt)
	}
	tw.SetTitle(title)

	appendRow := func(label, value string) {
		if value == "" {
			return
		}
		tw.AppendRow(table.Row{label, value})
	}

	appendRow("ID", card.MissionID)
	appendRow("Topic", card.Topic)
	appendRow("Status", r.paint(card.StatusLabel, ansiGreen))
	appendRow("Virality", card.Virality)
	appendRow("Hook", card.HookTechnique)
	if len(card.HookVariations) > 0 {
		appendRow("Hook variations", strings.Join(card.HookVariations, "\n"))
	}
	appendRow("Payoff", card.EmotionalPayoff)
	if card.Script != "" {
		appendRow("Script", text.WrapSoft(card.Script, scriptWrapWidth))
	}
	appendRow("Caption", card.Caption)
	appendRow("Visual", card.VisualPreview)

	if card.Media != nil {
		tw.AppendSeparator()
		appendRow("Video", card.Media.VideoURL)
		appendRow("Image", card.Media.ImageURL)
		if card.Media.CaptionsEnabled {
			appendRow("Captions", "on")
		} else {
			appendRow("Captions", "off")
		}
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, WidthMax: scriptWrapWidth + 4},
	})
	return tw.Render()
}

func (r *Renderer) progressBar(stage mission.StageView) string {
	filled := stage.Percent * progressBarWidth / 100
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
	switch stage.State {
	case mission.StageCompleted:
		return r.paint(bar, ansiGreen)
	case mission.StageActive:
		return r.paint(bar, ansiYellow)
	default:
		return r.paint(bar, ansiDim)
	}
}

func (r *Renderer) stageStatus(stage mission.StageView) string {
	switch stage.State {
	case mission.StageCompleted:
		return "done"
	case mission.StageActive:
		return fmt.Sprintf("%d%%", stage.Percent)
	default:
		return "-"
	}
}

func (r *Renderer) paint(s, color string) string {
	if !r.colorize {
		return s
	}
	return color + s + ansiReset
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
