package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"missiondeck/internal/actions"
	"missiondeck/internal/mission"
	"missiondeck/internal/render"
)

// nopRefresher satisfies the dispatcher's refresh hook for one-shot
// commands, which have no live view to repaint.
type nopRefresher struct{}

func (nopRefresher) Refresh()                   {}
func (nopRefresher) RefreshAfter(time.Duration) {}

func newMissionsCommand(ctx *commandContext) *cobra.Command {
	var topicFilter string

	cmd := &cobra.Command{
		Use:   "missions",
		Short: "List missions from the current backend snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			missions, err := client.Missions(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(missions))
			for _, m := range missions {
				if topicFilter != "" && m.Topic != topicFilter {
					continue
				}
				created := ""
				if !m.CreatedAt.IsZero() {
					created = m.CreatedAt.In(time.Local).Format("15:04")
				}
				rows = append(rows, []string{
					m.ID,
					m.Topic,
					render.StatusLabel(m.Status),
					fmt.Sprintf("%d%%", m.Progress),
					created,
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				if topicFilter != "" {
					fmt.Fprintf(out, "No missions for topic %q.\n", topicFilter)
				} else {
					fmt.Fprintln(out, "No missions yet.")
				}
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Topic", "Status", "Progress", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&topicFilter, "topic", "t", "", "Only show missions for this topic")
	return cmd
}

func newApproveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <mission-id>",
		Short: "Approve a mission awaiting review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			dispatcher := actions.NewDispatcher(client, nopRefresher{}, nil, ctx.quietLogger())
			if err := dispatcher.Approve(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mission %s approved.\n", args[0])
			return nil
		},
	}
}

func newRejectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <mission-id>",
		Short: "Reject a mission awaiting review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			dispatcher := actions.NewDispatcher(client, nopRefresher{}, nil, ctx.quietLogger())
			if err := dispatcher.Reject(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mission %s rejected.\n", args[0])
			return nil
		},
	}
}

func newResumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resume <mission-id>",
		Short: "Re-submit a failed mission with its stored parameters",
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
			if m.Status != mission.StatusError {
				return fmt.Errorf("mission %s is %s, only failed missions can be resumed", m.ID, m.Status)
			}

			dispatcher := actions.NewDispatcher(client, nopRefresher{}, nil, ctx.quietLogger())
			ack, err := dispatcher.Resume(cmd.Context(), m)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mission resumed for topic %q (tone %s, %ds, %s)\n",
				m.Topic, m.ResumeTone(), m.ResumeDuration(), m.ResumePlatform())
			if ack.MissionID != "" {
				fmt.Fprintf(out, "New mission ID: %s\n", ack.MissionID)
			}
			return nil
		},
	}
}

func newDiscardCommand(ctx *commandContext) *cobra.Command {
	var topic string
	var yes bool

	cmd := &cobra.Command{
		Use:   "discard [mission-id]",
		Short: "Delete a mission, or a whole topic with --topic",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (topic == "") {
				return fmt.Errorf("provide either a mission id or --topic")
			}
			if !yes {
				target := topic
				if target == "" {
					target = "mission " + args[0]
				} else {
					target = fmt.Sprintf("every mission for topic %q", target)
				}
				ok, err := confirm(cmd, fmt.Sprintf("Delete %s?", target))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			dispatcher := actions.NewDispatcher(client, nopRefresher{}, nil, ctx.quietLogger())
			out := cmd.OutOrStdout()

			if topic != "" {
				missions, err := client.Missions(cmd.Context())
				if err != nil {
					return err
				}
				if err := dispatcher.DeleteTopic(cmd.Context(), topic, missions); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted all missions for topic %q.\n", topic)
				return nil
			}

			if err := dispatcher.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "Mission %s deleted.\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Delete every mission for this topic")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		// Non-interactive stdin: refuse rather than delete silently.
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
