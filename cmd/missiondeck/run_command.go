package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"missiondeck/internal/api"
	"missiondeck/internal/mission"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var topic string
	var platform string
	var tone string
	var duration int
	var captions bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Launch a new content-production mission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topic = strings.TrimSpace(topic)
			if topic == "" {
				return errors.New("--topic is required")
			}
			if duration <= 0 {
				return errors.New("--duration must be positive")
			}

			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			ack, err := client.RunWorkflow(cmd.Context(), api.WorkflowRequest{
				Topic:       topic,
				Platform:    platform,
				Duration:    duration,
				Tone:        tone,
				UseCaptions: captions,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mission launched for topic %q\n", topic)
			if ack.MissionID != "" {
				fmt.Fprintf(out, "Mission ID: %s\n", ack.MissionID)
			}
			fmt.Fprintln(out, "Follow progress with: missiondeck watch")
			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Topic to produce content about (required)")
	cmd.Flags().StringVar(&platform, "platform", mission.DefaultPlatform, "Target platform")
	cmd.Flags().StringVar(&tone, "tone", mission.DefaultTone, "Narration tone")
	cmd.Flags().IntVar(&duration, "duration", mission.DefaultDuration, "Target video duration in seconds")
	cmd.Flags().BoolVar(&captions, "captions", true, "Burn in synchronized captions")
	return cmd
}
