package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"missiondeck/internal/api"
	"missiondeck/internal/config"
	"missiondeck/internal/logging"
	"missiondeck/internal/mission"
)

type commandContext struct {
	configFlag  *string
	backendFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, backendFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		backendFlag: backendFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.backendFlag != nil {
			if override := strings.TrimSpace(*c.backendFlag); override != "" {
				cfg.Backend.URL = strings.TrimRight(override, "/")
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// quietLogger builds a logger for one-shot commands: errors only, so
// command output stays clean.
func (c *commandContext) quietLogger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{Level: "error", Format: cfg.Logging.Format})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) newClient() (*api.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return api.NewConfiguredClient(cfg, c.quietLogger()), nil
}

// findMission fetches the current snapshot and locates one mission by ID.
func findMission(cmd *cobra.Command, client *api.Client, missionID string) (mission.Mission, error) {
	missions, err := client.Missions(cmd.Context())
	if err != nil {
		return mission.Mission{}, err
	}
	for _, m := range missions {
		if m.ID == missionID {
			return m, nil
		}
	}
	return mission.Mission{}, fmt.Errorf("mission %s not found", missionID)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
