// Copyright 2025-2026 AI Keynote Bot contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ai-keynote/keynote-cli/pkg/config"
)

// fakePython emulates just enough of a CPython binary for the setup
// sequence: version banner, venv creation (it copies itself in as the
// environment's interpreter), and the pip subcommands. The PATH reset at
// the top keeps coreutils reachable while the test's PATH hides real
// interpreters from LookPath.
const fakePython = `#!/bin/sh
PATH=/usr/bin:/bin
export PATH
if [ -n "$KB_TEST_LOG" ]; then
  echo "$0 $*" >> "$KB_TEST_LOG"
fi
case "$1" in
--version)
  echo "Python 3.11.4"
  exit 0
  ;;
-m)
  shift
  case "$1" in
  venv)
    dst="$2"
    mkdir -p "$dst/bin"
    printf 'home = /usr/bin\nversion = 3.11.4\n' > "$dst/pyvenv.cfg"
    cp "$0" "$dst/bin/python"
    exit 0
    ;;
  pip)
    shift
    if [ "$1" = "install" ] && [ "$2" = "-r" ] && [ -n "$KB_TEST_PIP_FAIL" ]; then
      echo "ERROR: could not resolve dependencies" >&2
      exit "$KB_TEST_PIP_FAIL"
    fi
    if [ "$1" = "list" ]; then
      echo '[{"name":"aiogram","version":"3.4.1"},{"name":"pip","version":"24.0"}]'
    fi
    exit 0
    ;;
  esac
  ;;
esac
exit 0
`

const fakeFFmpeg = `#!/bin/sh
echo "ffmpeg version 6.1.1-static Copyright (c) 2000-2023 the FFmpeg developers"
exit 0
`

func fakeToolDir(t *testing.T, tools map[string]string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are POSIX shell scripts")
	}
	bin := t.TempDir()
	for name, script := range tools {
		if err := os.WriteFile(filepath.Join(bin, name), []byte(script), 0755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", bin)
	t.Setenv("KB_TEST_LOG", "")
	t.Setenv("KB_TEST_PIP_FAIL", "")
	return bin
}

func testSetupConfig(t *testing.T) config.SetupConfig {
	t.Helper()
	conf := *config.DefaultSetupConfig()
	conf.WorkDir = t.TempDir()
	if err := os.WriteFile(filepath.Join(conf.WorkDir, conf.Requirements), []byte("aiogram==3.4.1\nopenai\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return conf
}

func TestRunHappyPath(t *testing.T) {
	fakeToolDir(t, map[string]string{"python3": fakePython, "ffmpeg": fakeFFmpeg})
	conf := testSetupConfig(t)

	b := New(conf)
	if err := b.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if !b.Venv().Exists() {
		t.Error("virtual environment missing after setup")
	}
	if _, err := os.Stat(filepath.Join(conf.WorkDir, conf.TempDir)); err != nil {
		t.Errorf("voice temp directory missing after setup: %v", err)
	}

	statuses := map[StepID]StepStatus{}
	for _, res := range b.Report().Results {
		statuses[res.ID] = res.Status
	}
	for _, id := range []StepID{StepCheckInterpreter, StepCreateEnv, StepActivateEnv, StepUpgradeInstaller, StepInstallDeps, StepCheckFFmpeg, StepEnsureWorkdir} {
		if statuses[id] != StatusOK {
			t.Errorf("step %s = %s, want %s", id, statuses[id], StatusOK)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	fakeToolDir(t, map[string]string{"python3": fakePython, "ffmpeg": fakeFFmpeg})
	conf := testSetupConfig(t)

	if err := New(conf).Run(context.Background(), nil); err != nil {
		t.Fatalf("first run: %v", err)
	}

	second := New(conf)
	if err := second.Run(context.Background(), nil); err != nil {
		t.Fatalf("second run: %v", err)
	}
	for _, res := range second.Report().Results {
		if res.ID == StepCreateEnv && res.Status != StatusSkipped {
			t.Errorf("rerun should skip env creation, got %s", res.Status)
		}
		if res.Status == StatusFailed {
			t.Errorf("rerun failed at %s: %s", res.ID, res.Detail)
		}
	}
}

func TestMissingInterpreterIsFatalBeforeEnvCreation(t *testing.T) {
	fakeToolDir(t, map[string]string{"ffmpeg": fakeFFmpeg})
	conf := testSetupConfig(t)

	b := New(conf)
	err := b.Run(context.Background(), nil)
	if err == nil {
		t.Fatal("Run should fail without an interpreter")
	}

	if b.Venv().DirPresent() {
		t.Error("no environment directory may be created when the interpreter is missing")
	}
	results := b.Report().Results
	if len(results) != 1 || results[0].ID != StepCheckInterpreter || results[0].Status != StatusFailed {
		t.Errorf("expected a single failed interpreter check, got %+v", results)
	}
}

func TestMissingFFmpegWarnsButSucceeds(t *testing.T) {
	fakeToolDir(t, map[string]string{"python3": fakePython})
	conf := testSetupConfig(t)

	b := New(conf)
	if err := b.Run(context.Background(), nil); err != nil {
		t.Fatalf("a missing ffmpeg must not fail setup: %v", err)
	}

	var ffmpegResult *StepResult
	for i, res := range b.Report().Results {
		if res.ID == StepCheckFFmpeg {
			ffmpegResult = &b.Report().Results[i]
		}
	}
	if ffmpegResult == nil {
		t.Fatal("ffmpeg step missing from report")
	}
	if ffmpegResult.Status != StatusWarned {
		t.Errorf("ffmpeg step = %s, want %s", ffmpegResult.Status, StatusWarned)
	}
	if ffmpegResult.Hint == "" {
		t.Error("ffmpeg warning should carry an install hint")
	}
}

func TestPipFailurePropagatesExitStatus(t *testing.T) {
	fakeToolDir(t, map[string]string{"python3": fakePython, "ffmpeg": fakeFFmpeg})
	conf := testSetupConfig(t)
	t.Setenv("KB_TEST_PIP_FAIL", "9")

	b := New(conf)
	err := b.Run(context.Background(), nil)
	if err == nil {
		t.Fatal("Run should fail when pip fails")
	}

	var exitErr *ExitStatusError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitStatusError, got %T: %v", err, err)
	}
	if exitErr.Code != 9 {
		t.Errorf("propagated exit status = %d, want 9", exitErr.Code)
	}
}

func TestInstallsTargetVenvInterpreter(t *testing.T) {
	fakeToolDir(t, map[string]string{"python3": fakePython, "ffmpeg": fakeFFmpeg})
	conf := testSetupConfig(t)
	logPath := filepath.Join(t.TempDir(), "invocations.log")
	t.Setenv("KB_TEST_LOG", logPath)

	b := New(conf)
	if err := b.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	log, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	venvPython := b.Venv().Python()
	var pipCalls, venvPipCalls int
	for _, line := range strings.Split(strings.TrimSpace(string(log)), "\n") {
		if !strings.Contains(line, "-m pip install") {
			continue
		}
		pipCalls++
		if strings.HasPrefix(line, venvPython+" ") {
			venvPipCalls++
		}
	}
	if pipCalls == 0 {
		t.Fatal("no pip installs recorded")
	}
	if venvPipCalls != pipCalls {
		t.Errorf("%d of %d pip installs ran outside the environment's interpreter", pipCalls-venvPipCalls, pipCalls)
	}
}

func TestCreateEnvRefusesForeignDirectory(t *testing.T) {
	fakeToolDir(t, map[string]string{"python3": fakePython})
	conf := testSetupConfig(t)

	// a directory named like the venv, holding real files
	foreign := filepath.Join(conf.WorkDir, conf.VenvDir)
	if err := os.MkdirAll(foreign, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(foreign, "notes.txt"), []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}

	b := New(conf)
	err := b.Run(context.Background(), nil)
	if err == nil {
		t.Fatal("Run should refuse to reuse a non-venv directory")
	}
	var notAVenv *ErrNotAVenv
	if !errors.As(err, &notAVenv) {
		t.Fatalf("expected ErrNotAVenv, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(foreign, "notes.txt")); statErr != nil {
		t.Error("foreign directory contents must survive")
	}
}

func TestMissingRequirementsFileFails(t *testing.T) {
	fakeToolDir(t, map[string]string{"python3": fakePython})
	conf := *config.DefaultSetupConfig()
	conf.WorkDir = t.TempDir()

	b := New(conf)
	err := b.Run(context.Background(), nil)
	if err == nil {
		t.Fatal("Run should fail without a requirements manifest")
	}
	if !strings.Contains(err.Error(), conf.Requirements) {
		t.Errorf("error should name the missing manifest: %v", err)
	}
}

func TestGuidanceRender(t *testing.T) {
	conf := *config.DefaultSetupConfig()
	conf.WorkDir = "/srv/keynote-bot"

	g := New(conf).Guidance()
	rendered := g.Render()
	for _, want := range []string{"activate", "BOT_TOKEN", ".env", "bot/main.py"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("guidance missing %q:\n%s", want, rendered)
		}
	}
	if len(g.RequiredKeys) == 0 || g.RequiredKeys[0] != "BOT_TOKEN" {
		t.Errorf("RequiredKeys = %v", g.RequiredKeys)
	}
}
