package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"missiondeck/internal/mission"
	"missiondeck/internal/testsupport"
)

type cliTestEnv struct {
	backend    *testsupport.StubBackend
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	backend := testsupport.NewStubBackend(t)
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	contents := fmt.Sprintf(`[backend]
url = %q

[dashboard]
session_dir = %q
poll_interval = 1
`, backend.URL(), filepath.Join(base, "session"))
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	return &cliTestEnv{backend: backend, configPath: configPath}
}

func (env *cliTestEnv) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return env.executeWithInput(t, "", args...)
}

func (env *cliTestEnv) executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommandLaunchesWorkflow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.execute(t, "run", "--topic", "Quantum Pets", "--tone", "Witty", "--duration", "45")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, `Mission launched for topic "Quantum Pets"`) {
		t.Errorf("output = %q", out)
	}

	calls := env.backend.Workflows()
	if len(calls) != 1 {
		t.Fatalf("workflow calls = %d, want 1", len(calls))
	}
	call := calls[0]
	if call.Topic != "Quantum Pets" || call.Tone != "Witty" || call.Duration != 45 {
		t.Errorf("call = %+v", call)
	}
	if call.Platform != mission.DefaultPlatform {
		t.Errorf("platform should default, got %q", call.Platform)
	}
	if !call.UseCaptions {
		t.Error("captions should default on")
	}
}

func TestRunCommandRequiresTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := env.execute(t, "run"); err == nil {
		t.Fatal("expected error without --topic")
	}
}

func TestMissionsCommandListsSnapshot(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.SetMissions(
		mission.Mission{ID: "m1", Topic: "Cats", Status: mission.StatusGenerating, Progress: 45},
		mission.Mission{ID: "m2", Topic: "Dogs", Status: mission.StatusReadyForApproval, Progress: 100},
	)

	out, err := env.execute(t, "missions")
	if err != nil {
		t.Fatalf("missions: %v\n%s", err, out)
	}
	for _, want := range []string{"m1", "Generating", "45%", "m2", "Ready For Approval"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = env.execute(t, "missions", "--topic", "Cats")
	if err != nil {
		t.Fatalf("missions --topic: %v", err)
	}
	if strings.Contains(out, "m2") {
		t.Errorf("topic filter leaked other missions:\n%s", out)
	}
}

func TestApproveAndRejectCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.SetMissions(
		mission.Mission{ID: "m1", Topic: "Cats", Status: mission.StatusReadyForApproval},
		mission.Mission{ID: "m2", Topic: "Dogs", Status: mission.StatusReadyForApproval},
	)

	if out, err := env.execute(t, "approve", "m1"); err != nil {
		t.Fatalf("approve: %v\n%s", err, out)
	}
	if out, err := env.execute(t, "reject", "m2"); err != nil {
		t.Fatalf("reject: %v\n%s", err, out)
	}

	missions := env.backend.Missions()
	if missions[0].Status != mission.StatusApproved {
		t.Errorf("m1 status = %s", missions[0].Status)
	}
	if missions[1].Status != mission.StatusRejected {
		t.Errorf("m2 status = %s", missions[1].Status)
	}
}

func TestApproveCommandSurfacesBackendError(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := env.execute(t, "approve", "missing"); err == nil {
		t.Fatal("expected error for unknown mission")
	}
}

func TestResumeCommandRequiresFailedMission(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.SetMissions(
		mission.Mission{ID: "ok", Topic: "Cats", Status: mission.StatusPublished},
		mission.Mission{ID: "bad", Topic: "Dogs", Status: mission.StatusError, Tone: "Witty", Duration: 90},
	)

	if _, err := env.execute(t, "resume", "ok"); err == nil {
		t.Fatal("resuming a healthy mission should fail")
	}

	out, err := env.execute(t, "resume", "bad")
	if err != nil {
		t.Fatalf("resume: %v\n%s", err, out)
	}
	calls := env.backend.Workflows()
	if len(calls) != 1 {
		t.Fatalf("workflow calls = %d", len(calls))
	}
	if calls[0].Tone != "Witty" || calls[0].Duration != 90 {
		t.Errorf("stored parameters not carried: %+v", calls[0])
	}
	if calls[0].Platform != mission.DefaultPlatform {
		t.Errorf("missing platform should default: %+v", calls[0])
	}
}

func TestDiscardCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.SetMissions(
		mission.Mission{ID: "m1", Topic: "Cats"},
		mission.Mission{ID: "m2", Topic: "Cats"},
		mission.Mission{ID: "m3", Topic: "Dogs"},
	)

	if out, err := env.execute(t, "discard", "--yes", "m3"); err != nil {
		t.Fatalf("discard: %v\n%s", err, out)
	}
	if len(env.backend.Missions()) != 2 {
		t.Fatalf("missions after single discard = %d", len(env.backend.Missions()))
	}

	if out, err := env.execute(t, "discard", "--yes", "--topic", "Cats"); err != nil {
		t.Fatalf("discard --topic: %v\n%s", err, out)
	}
	if remaining := env.backend.Missions(); len(remaining) != 0 {
		t.Errorf("missions after topic discard = %v", remaining)
	}

	if _, err := env.execute(t, "discard", "--yes"); err == nil {
		t.Error("discard without id or --topic should fail")
	}
	if _, err := env.execute(t, "discard", "--yes", "m1", "--topic", "Cats"); err == nil {
		t.Error("discard with both id and --topic should fail")
	}
}

func TestDiscardCommandConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.SetMissions(mission.Mission{ID: "m1", Topic: "Cats"})

	// Declined prompt leaves the mission alone.
	out, err := env.executeWithInput(t, "n\n", "discard", "m1")
	if err != nil {
		t.Fatalf("discard (declined): %v\n%s", err, out)
	}
	if !strings.Contains(out, "Aborted.") {
		t.Errorf("expected abort notice:\n%s", out)
	}
	if len(env.backend.Missions()) != 1 {
		t.Fatal("declined discard deleted the mission")
	}

	// Non-interactive stdin refuses rather than deleting.
	if out, err := env.executeWithInput(t, "", "discard", "m1"); err != nil {
		t.Fatalf("discard (eof): %v\n%s", err, out)
	}
	if len(env.backend.Missions()) != 1 {
		t.Fatal("EOF on prompt deleted the mission")
	}

	out, err = env.executeWithInput(t, "y\n", "discard", "m1")
	if err != nil {
		t.Fatalf("discard (confirmed): %v\n%s", err, out)
	}
	if len(env.backend.Missions()) != 0 {
		t.Error("confirmed discard did not delete the mission")
	}
}

func TestTopicsCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.SetMissions(
		mission.Mission{ID: "m1", Topic: "Alpha"},
		mission.Mission{ID: "m2", Topic: "Beta"},
		mission.Mission{ID: "m3", Topic: "Alpha"},
		mission.Mission{ID: "m4", Topic: "Gamma"},
	)

	out, err := env.execute(t, "topics")
	if err != nil {
		t.Fatalf("topics: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "Gamma" || lines[1] != "Beta" {
		t.Errorf("collapsed topics = %v, want newest-first pair", lines)
	}
	if !strings.Contains(out, "older topics hidden") {
		t.Errorf("expected collapse hint:\n%s", out)
	}

	out, err = env.execute(t, "topics", "--all")
	if err != nil {
		t.Fatalf("topics --all: %v", err)
	}
	if !strings.Contains(out, "Alpha") || strings.Contains(out, "hidden") {
		t.Errorf("expanded topics wrong:\n%s", out)
	}
}

func TestPreviewCommandPrintsCaptionSchedule(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.SetMissions(mission.Mission{
		ID:       "m1",
		Topic:    "Cats",
		Status:   mission.StatusPublished,
		Duration: 6,
		Draft: &mission.Draft{
			Title:  "Cat Facts",
			Script: "one two three four five six",
		},
	})

	out, err := env.execute(t, "preview", "m1")
	if err != nil {
		t.Fatalf("preview: %v\n%s", err, out)
	}
	if !strings.Contains(out, "one two three") || !strings.Contains(out, "four five six") {
		t.Errorf("caption chunks missing:\n%s", out)
	}
	if !strings.Contains(out, "Cat Facts") {
		t.Errorf("content card missing:\n%s", out)
	}
}

func TestPreviewCommandWithoutCaptions(t *testing.T) {
	env := setupCLITestEnv(t)
	captionsOff := false
	env.backend.SetMissions(mission.Mission{
		ID:          "m1",
		Topic:       "Cats",
		Status:      mission.StatusPublished,
		UseCaptions: &captionsOff,
		Draft:       &mission.Draft{Title: "T", Script: "a b c"},
	})

	out, err := env.execute(t, "preview", "m1")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, "No captions to preview.") {
		t.Errorf("expected caption opt-out notice:\n%s", out)
	}
}

func TestConfigInitCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := env.execute(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	if _, err := env.execute(t, "config", "init", "--path", target); err == nil {
		t.Error("second init without --overwrite should fail")
	}
	if _, err := env.execute(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Errorf("init --overwrite: %v", err)
	}
}
