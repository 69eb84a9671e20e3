package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"missiondeck/internal/captions"
	"missiondeck/internal/mission"
	"missiondeck/internal/render"
)

// writerSink prints caption updates as they would appear over the video.
type writerSink struct {
	out io.Writer
}

func (s writerSink) ShowCaption(text string) {
	fmt.Fprintf(s.out, "  caption: %s\n", text)
}

func (s writerSink) HideCaptions() {
	fmt.Fprintln(s.out, "  (captions hidden)")
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var play bool
	var clipSeconds float64

	cmd := &cobra.Command{
		Use:   "preview <mission-id>",
		Short: "Preview a finished mission's card and caption timing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			m, err := findMission(cmd, client, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderer := render.NewRenderer(out)
			fmt.Fprintln(out, renderer.Render(render.View{
				Missions:      []mission.Mission{m},
				SelectedTopic: m.Topic,
				HasSelection:  true,
			}))

			script := ""
			if m.Draft != nil {
				script = m.Draft.Script
			}
			chunks := captions.Chunks(script)
			if !m.CaptionsEnabled() || len(chunks) == 0 {
				fmt.Fprintln(out, "No captions to preview.")
				return nil
			}

			duration := clipSeconds
			if duration <= 0 {
				duration = float64(m.ResumeDuration())
			}
			interval := time.Duration(duration*float64(time.Second)) / time.Duration(len(chunks))

			if !play {
				rows := make([][]string, 0, len(chunks))
				for i, chunk := range chunks {
					offset := time.Duration(i) * interval
					rows = append(rows, []string{
						offset.Truncate(10 * time.Millisecond).String(),
						chunk,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"At", "Caption"},
					rows,
					[]columnAlignment{alignRight, alignLeft},
				))
				fmt.Fprintln(out, "Rerun with --play to watch the cycle in real time.")
				return nil
			}

			clip := captions.NewClip(duration)
			engagement := captions.NewEngagement(clip, writerSink{out: out}, script, true)
			engagement.Start()
			defer engagement.Stop()

			cycle := interval * time.Duration(len(chunks))
			select {
			case <-cmd.Context().Done():
			case <-time.After(cycle):
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&play, "play", false, "Run one caption cycle in real time")
	cmd.Flags().Float64Var(&clipSeconds, "clip-seconds", 0, "Override the simulated clip duration")
	return cmd
}
