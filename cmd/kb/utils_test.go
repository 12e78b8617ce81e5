package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/ai-keynote/keynote-cli/pkg/config"
)

func TestOptionalFlag(t *testing.T) {
	requiredFlag := &cli.StringFlag{
		Name:     "test",
		Required: true,
	}
	optionalFlag := optional(requiredFlag)

	if requiredFlag == optionalFlag {
		t.Error("optional should return a new flag")
	}
	if !requiredFlag.Required {
		t.Error("optional should not mutate the original flag")
	}
	if optionalFlag.Required {
		t.Error("optional should return a new flag with Required set to false")
	}
}

func TestHiddenFlag(t *testing.T) {
	visibleFlag := &cli.StringFlag{
		Name:   "test",
		Hidden: false,
	}
	hiddenFlag := hidden(visibleFlag)

	if visibleFlag == hiddenFlag {
		t.Error("hidden should return a new flag")
	}
	if visibleFlag.Hidden {
		t.Error("hidden should not mutate the original flag")
	}
	if !hiddenFlag.Hidden {
		t.Error("hidden should return a new flag with Hidden set to true")
	}
}

// captureCommand parses args through a throwaway app and returns the
// command the way an action would see it.
func captureCommand(t *testing.T, flags []cli.Flag, args ...string) *cli.Command {
	t.Helper()
	var captured *cli.Command

	app := &cli.Command{
		Name:  "kb",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			captured = cmd
			return nil
		},
	}
	if err := app.Run(context.Background(), append([]string{"kb"}, args...)); err != nil {
		t.Fatalf("failed to run test command: %v", err)
	}
	if captured == nil {
		t.Fatal("failed to capture command")
	}
	return captured
}

// useTempHome points the workspace registry at a throwaway home so tests
// never read or write the operator's real ~/.keynote.
func useTempHome(t *testing.T) string {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func TestExtractFlagOrArg(t *testing.T) {
	openFlags := func() []cli.Flag {
		return []cli.Flag{&cli.StringFlag{Name: "open"}}
	}

	cmd := captureCommand(t, openFlags(), "--open", "docs")
	if got, err := extractFlagOrArg(cmd, "open"); err != nil || got != "docs" {
		t.Errorf("expected docs from flag, got %q (%v)", got, err)
	}

	cmd = captureCommand(t, openFlags(), "botfather")
	if got, err := extractFlagOrArg(cmd, "open"); err != nil || got != "botfather" {
		t.Errorf("expected botfather from argument, got %q (%v)", got, err)
	}

	cmd = captureCommand(t, openFlags())
	if _, err := extractFlagOrArg(cmd, "open"); err == nil {
		t.Error("expected an error when neither flag nor argument is present")
	}
}

func TestParseKeyValuePairs(t *testing.T) {
	valuesFlags := func() []cli.Flag {
		return []cli.Flag{&cli.StringSliceFlag{Name: "values"}}
	}

	cmd := captureCommand(t, valuesFlags(), "--values", "BOT_TOKEN=123:abc", "--values", "DEBUG=true")
	pairs, err := parseKeyValuePairs(cmd, "values")
	if err != nil {
		t.Fatalf("parseKeyValuePairs: %v", err)
	}
	if pairs["BOT_TOKEN"] != "123:abc" || pairs["DEBUG"] != "true" {
		t.Errorf("unexpected pairs: %v", pairs)
	}

	cmd = captureCommand(t, valuesFlags())
	if pairs, err := parseKeyValuePairs(cmd, "values"); err != nil || pairs != nil {
		t.Errorf("expected nil map for no flags, got %v (%v)", pairs, err)
	}
}

func TestLoadSetupConfigDefaults(t *testing.T) {
	useTempHome(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("aiogram\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := captureCommand(t, newGlobalFlags(), "--dir", dir)
	conf, err := loadSetupConfig(cmd)
	if err != nil {
		t.Fatalf("loadSetupConfig: %v", err)
	}
	if conf.WorkDir != dir {
		t.Errorf("expected WorkDir %q, got %q", dir, conf.WorkDir)
	}
	if conf.VenvDir != ".venv" || conf.MinPython != "3.10" || conf.Requirements != "requirements.txt" {
		t.Errorf("defaults not applied: %+v", conf)
	}
	if conf.Entrypoint != "bot/main.py" {
		t.Errorf("unexpected entrypoint %q", conf.Entrypoint)
	}
}

func TestLoadSetupConfigAppliesTOMLAndFlags(t *testing.T) {
	useTempHome(t)
	dir := t.TempDir()
	content := "[setup]\nvenv_dir = \"env\"\nmin_python = \"3.12\"\n\n[bot]\nentrypoint = \"app.py\"\n"
	if err := os.WriteFile(filepath.Join(dir, config.KeynoteTOMLFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := captureCommand(t, newGlobalFlags(), "--dir", dir, "--venv", ".venv-ci")
	conf, err := loadSetupConfig(cmd)
	if err != nil {
		t.Fatalf("loadSetupConfig: %v", err)
	}
	if conf.VenvDir != ".venv-ci" {
		t.Errorf("flag should win over keynote.toml, got %q", conf.VenvDir)
	}
	if conf.MinPython != "3.12" || conf.Entrypoint != "app.py" {
		t.Errorf("keynote.toml not applied: %+v", conf)
	}
	if conf.Requirements != "requirements.txt" {
		t.Errorf("untouched defaults should survive, got %q", conf.Requirements)
	}
}

func TestLoadSetupConfigRejectsWorkspaceWithDir(t *testing.T) {
	useTempHome(t)

	cmd := captureCommand(t, newGlobalFlags(), "--dir", t.TempDir(), "--workspace", "bot")
	if _, err := loadSetupConfig(cmd); err == nil || !strings.Contains(err.Error(), "both workspace and dir") {
		t.Errorf("expected a conflict error, got %v", err)
	}
}

func TestLoadSetupConfigFallsBackToDefaultWorkspace(t *testing.T) {
	useTempHome(t)
	target := t.TempDir()
	if err := os.WriteFile(filepath.Join(target, "requirements.txt"), []byte("aiogram\n"), 0644); err != nil {
		t.Fatal(err)
	}

	registry, err := config.LoadOrCreate()
	if err != nil {
		t.Fatal(err)
	}
	registry.Workspaces = append(registry.Workspaces, config.WorkspaceConfig{Name: "bot", Path: target})
	registry.DefaultWorkspace = "bot"
	if err := registry.PersistIfNeeded(); err != nil {
		t.Fatal(err)
	}

	// the test binary's working directory is not a bot checkout, so the
	// registered default should win
	cmd := captureCommand(t, newGlobalFlags())
	conf, err := loadSetupConfig(cmd)
	if err != nil {
		t.Fatalf("loadSetupConfig: %v", err)
	}
	if conf.WorkDir != target {
		t.Errorf("expected fallback to default workspace %q, got %q", target, conf.WorkDir)
	}
}
