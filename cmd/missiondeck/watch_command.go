package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"missiondeck/internal/api"
	"missiondeck/internal/dashboard"
	"missiondeck/internal/logging"
)

const watchHelp = `Commands:
  approve <id>        approve a mission awaiting review
  reject <id>         reject a mission awaiting review
  resume <id>         re-submit a failed mission
  delete <id>         delete a single mission
  delete-topic <t>    delete every mission for a topic
  topic <t>           filter the view to one topic
  all                 clear the topic filter
  history             toggle full topic history
  refresh             poll the backend now
  help                show this help
  quit                exit the watch session`

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var noClear bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live mission dashboard with interactive actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{cfg.LogFilePath()},
			})
			if err != nil {
				return err
			}

			client := api.NewConfiguredClient(cfg, logger)
			out := cmd.OutOrStdout()

			controller := dashboard.New(dashboard.Options{
				Fetcher:      client,
				Backend:      client,
				PollInterval: time.Duration(cfg.Dashboard.PollInterval) * time.Second,
				LockPath:     cfg.LockFilePath(),
				Out:          out,
				ClearScreen:  !noClear && isTerminal(out),
				Logger:       logger,
			})

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := controller.Start(runCtx); err != nil {
				return err
			}
			defer controller.Stop()

			return watchLoop(runCtx, controller, cmd.InOrStdin(), out)
		},
	}

	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Append frames instead of redrawing in place")
	return cmd
}

// watchLoop reads action commands from input until the session ends. A
// non-interactive stdin (EOF) degrades to a passive live view.
func watchLoop(ctx context.Context, controller *dashboard.Controller, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				<-ctx.Done()
				return nil
			}
			if quit := handleWatchCommand(ctx, controller, line, out); quit {
				return nil
			}
		}
	}
}

func handleWatchCommand(ctx context.Context, controller *dashboard.Controller, line string, out io.Writer) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	verb := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	dispatcher := controller.Dispatcher()

	report := func(err error) {
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}

	switch verb {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(out, watchHelp)
	case "refresh":
		controller.Refresh()
	case "history":
		controller.ToggleHistory()
	case "all":
		controller.ClearTopic()
	case "topic":
		if rest == "" {
			controller.ClearTopic()
		} else {
			controller.SelectTopic(rest)
		}
	case "approve":
		if rest == "" {
			fmt.Fprintln(out, "usage: approve <id>")
			return false
		}
		report(dispatcher.Approve(ctx, rest))
	case "reject":
		if rest == "" {
			fmt.Fprintln(out, "usage: reject <id>")
			return false
		}
		report(dispatcher.Reject(ctx, rest))
	case "delete":
		if rest == "" {
			fmt.Fprintln(out, "usage: delete <id>")
			return false
		}
		report(dispatcher.Delete(ctx, rest))
	case "delete-topic":
		if rest == "" {
			fmt.Fprintln(out, "usage: delete-topic <topic>")
			return false
		}
		report(dispatcher.DeleteTopic(ctx, rest, controller.Snapshot()))
	case "resume":
		if rest == "" {
			fmt.Fprintln(out, "usage: resume <id>")
			return false
		}
		report(resumeFromSnapshot(ctx, controller, rest))
	default:
		fmt.Fprintf(out, "unknown command %q (try: help)\n", verb)
	}
	return false
}

func resumeFromSnapshot(ctx context.Context, controller *dashboard.Controller, missionID string) error {
	for _, m := range controller.Snapshot() {
		if m.ID == missionID {
			_, err := controller.Dispatcher().Resume(ctx, m)
			return err
		}
	}
	return errors.New("mission " + missionID + " not found in current snapshot")
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
