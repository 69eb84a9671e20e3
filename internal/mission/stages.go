package mission

import "math"

// StageState describes one production stage relative to current progress.
type StageState int

const (
	StagePending StageState = iota
	StageActive
	StageCompleted
)

// StageView is the renderable form of a production stage.
type StageView struct {
	Label   string
	State   StageState
	Percent int
}

type stageRange struct {
	label string
	start int
	end   int
}

// The five production stages and their slices of the 0-100 progress scale.
// Ranges are closed on the left and open on the right; the final stage is
// closed on both ends so progress 100 marks it completed.
var stageRanges = [...]stageRange{
	{label: "Creative Scripting", start: 0, end: 20},
	{label: "Draft Generation", start: 20, end: 40},
	{label: "Voiceover Rendering", start: 40, end: 60},
	{label: "Cinematic Animation", start: 60, end: 90},
	{label: "Final Assembly", start: 90, end: 100},
}

// StageCount is the fixed number of production stages.
const StageCount = len(stageRanges)

// MapStages converts a scalar progress value into per-stage states and fill
// percentages. Progress outside [0,100] is clamped.
func MapStages(progress int) []StageView {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	views := make([]StageView, 0, len(stageRanges))
	for _, stage := range stageRanges {
		view := StageView{Label: stage.label}
		switch {
		case progress >= stage.end:
			view.State = StageCompleted
			view.Percent = 100
		case progress >= stage.start:
			view.State = StageActive
			span := float64(stage.end - stage.start)
			view.Percent = int(math.Round(float64(progress-stage.start) / span * 100))
		default:
			view.State = StagePending
		}
		views = append(views, view)
	}
	return views
}
