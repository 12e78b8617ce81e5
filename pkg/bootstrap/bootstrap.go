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

// Package bootstrap turns a fresh keynote-bot checkout into a runnable one:
// it finds a Python interpreter, builds the virtual environment, installs
// the dependency manifest into it, probes the optional audio tooling, and
// prepares the scratch directories the bot expects.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/ai-keynote/keynote-cli/pkg/config"
	"github.com/ai-keynote/keynote-cli/pkg/logging"
	"github.com/ai-keynote/keynote-cli/pkg/util"
	"github.com/ai-keynote/keynote-cli/pkg/workspacefs"
)

// StepID names one stage of the setup sequence.
type StepID string

const (
	StepCheckInterpreter StepID = "check-interpreter"
	StepCreateEnv        StepID = "create-env"
	StepActivateEnv      StepID = "activate-env"
	StepUpgradeInstaller StepID = "upgrade-installer"
	StepInstallDeps      StepID = "install-deps"
	StepCheckFFmpeg      StepID = "check-ffmpeg"
	StepEnsureWorkdir    StepID = "ensure-workdir"
)

// StepStatus is how a stage ended.
type StepStatus string

const (
	// StatusOK means the stage did its work.
	StatusOK StepStatus = "ok"
	// StatusSkipped means the stage found nothing to do, reruns hit this.
	StatusSkipped StepStatus = "skipped"
	// StatusWarned means an optional capability is degraded. Setup goes on.
	StatusWarned StepStatus = "warned"
	// StatusFailed ends the run.
	StatusFailed StepStatus = "failed"
)

// StepResult is the recorded outcome of one stage.
type StepResult struct {
	ID     StepID     `json:"id"`
	Status StepStatus `json:"status"`
	// Detail is a one-line human summary: a version, a path, a hint.
	Detail string `json:"detail,omitempty"`
	// Hint carries remediation advice for warned or failed stages.
	Hint string `json:"hint,omitempty"`
}

// Report accumulates results across a run for rendering or --json output.
type Report struct {
	Results []StepResult `json:"results"`
}

func (r *Report) record(res StepResult) StepResult {
	r.Results = append(r.Results, res)
	return res
}

// Step is a runnable stage. Fatal steps end the run on failure, the rest
// degrade to warnings.
type Step struct {
	ID    StepID
	Title string
	Fatal bool
	Run   func(ctx context.Context) (StepResult, error)
}

// ExitStatusError carries a child process's exit status up to main, so a
// failed dependency install exits kb with pip's own status instead of a
// flat 1.
type ExitStatusError struct {
	Code  int
	Cause error
}

func (e *ExitStatusError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "exit status " + strconv.Itoa(e.Code)
}

func (e *ExitStatusError) Unwrap() error {
	return e.Cause
}

// Bootstrapper drives the setup sequence for one checkout. The zero value
// is not usable, construct with New.
type Bootstrapper struct {
	conf   config.SetupConfig
	venv   workspacefs.Venv
	interp *Interpreter
	report Report
}

func New(conf config.SetupConfig) *Bootstrapper {
	return &Bootstrapper{
		conf: conf,
		venv: workspacefs.NewVenv(conf.WorkDir, conf.VenvDir),
	}
}

// Venv exposes the environment the bootstrapper targets.
func (b *Bootstrapper) Venv() workspacefs.Venv {
	return b.venv
}

// Interpreter returns the system interpreter once the check step has run.
func (b *Bootstrapper) Interpreter() *Interpreter {
	return b.interp
}

// Report returns everything recorded so far.
func (b *Bootstrapper) Report() *Report {
	return &b.report
}

// Steps returns the setup sequence in execution order. Each step's Run
// records its result on the bootstrapper's report; later steps rely on
// the state earlier ones leave behind.
func (b *Bootstrapper) Steps() []Step {
	return []Step{
		{
			ID:    StepCheckInterpreter,
			Title: "Checking Python interpreter",
			Fatal: true,
			Run:   b.checkInterpreter,
		},
		{
			ID:    StepCreateEnv,
			Title: "Creating virtual environment",
			Fatal: true,
			Run:   b.createEnv,
		},
		{
			ID:    StepActivateEnv,
			Title: "Activating virtual environment",
			Fatal: true,
			Run:   b.activateEnv,
		},
		{
			ID:    StepUpgradeInstaller,
			Title: "Upgrading pip",
			Fatal: true,
			Run:   b.upgradeInstaller,
		},
		{
			ID:    StepInstallDeps,
			Title: "Installing dependencies",
			Fatal: true,
			Run:   b.installDeps,
		},
		{
			ID:    StepCheckFFmpeg,
			Title: "Checking for ffmpeg",
			Fatal: false,
			Run:   b.checkFFmpeg,
		},
		{
			ID:    StepEnsureWorkdir,
			Title: "Preparing voice scratch directory",
			Fatal: true,
			Run:   b.ensureWorkdir,
		},
	}
}

// Run executes all steps in order, invoking observe before each one.
// Fatal failures stop the sequence; the returned error of a dependency
// install wraps the installer's exit status.
func (b *Bootstrapper) Run(ctx context.Context, observe func(Step)) error {
	for _, step := range b.Steps() {
		if observe != nil {
			observe(step)
		}
		if _, err := step.Run(ctx); err != nil && step.Fatal {
			return err
		}
	}
	return nil
}

func (b *Bootstrapper) checkInterpreter(ctx context.Context) (StepResult, error) {
	interp, probe := FindInterpreter(ctx, b.conf.Python)
	if interp == nil {
		hint := "install Python 3 and rerun, or point --python at an interpreter"
		detail := "no Python interpreter found"
		if probe.Kind == ToolFailed {
			detail = fmt.Sprintf("interpreter %s did not answer: %s", probe.Tool, probe.Stderr)
		}
		res := b.report.record(StepResult{ID: StepCheckInterpreter, Status: StatusFailed, Detail: detail, Hint: hint})
		return res, fmt.Errorf("%s", detail)
	}

	satisfied, err := IsVersionSatisfied(interp.Version, b.conf.MinPython)
	if err != nil {
		logging.Debugw("could not compare interpreter version", "version", interp.Version, "min", b.conf.MinPython)
	} else if !satisfied {
		detail := fmt.Sprintf("Python %s is older than the required %s", interp.Version, b.conf.MinPython)
		res := b.report.record(StepResult{
			ID:     StepCheckInterpreter,
			Status: StatusFailed,
			Detail: detail,
			Hint:   "upgrade Python or point --python at a newer interpreter",
		})
		return res, fmt.Errorf("%s", detail)
	}

	b.interp = interp
	logging.Debugw("interpreter resolved", "path", interp.ResolvePath(), "version", interp.Version)
	return b.report.record(StepResult{
		ID:     StepCheckInterpreter,
		Status: StatusOK,
		Detail: fmt.Sprintf("Python %s [%s]", interp.Version, interp.ResolvePath()),
	}), nil
}

func (b *Bootstrapper) createEnv(ctx context.Context) (StepResult, error) {
	if b.venv.Exists() {
		return b.report.record(StepResult{
			ID:     StepCreateEnv,
			Status: StatusSkipped,
			Detail: fmt.Sprintf("%s already present", b.conf.VenvDir),
		}), nil
	}

	o := CreateEnv(ctx, b.interp, b.venv)
	if !o.Succeeded() {
		res := b.report.record(StepResult{
			ID:     StepCreateEnv,
			Status: StatusFailed,
			Detail: failureDetail(o),
		})
		return res, o.Err()
	}
	return b.report.record(StepResult{
		ID:     StepCreateEnv,
		Status: StatusOK,
		Detail: fmt.Sprintf("created %s with Python %s", b.conf.VenvDir, b.interp.Version),
	}), nil
}

func (b *Bootstrapper) activateEnv(ctx context.Context) (StepResult, error) {
	o := Invoke(ctx, b.conf.WorkDir, b.venv.Python(), "--version")
	if !o.Succeeded() {
		detail := fmt.Sprintf("%s is unusable: %s", b.venv.Python(), failureDetail(o))
		res := b.report.record(StepResult{
			ID:     StepActivateEnv,
			Status: StatusFailed,
			Detail: detail,
			Hint:   fmt.Sprintf("delete %s and rerun setup", b.conf.VenvDir),
		})
		return res, fmt.Errorf("%s", detail)
	}
	return b.report.record(StepResult{
		ID:     StepActivateEnv,
		Status: StatusOK,
		Detail: fmt.Sprintf("installs will target %s", b.venv.Python()),
	}), nil
}

func (b *Bootstrapper) upgradeInstaller(ctx context.Context) (StepResult, error) {
	o := UpgradePip(ctx, b.conf.WorkDir, b.venv)
	if !o.Succeeded() {
		res := b.report.record(StepResult{
			ID:     StepUpgradeInstaller,
			Status: StatusFailed,
			Detail: failureDetail(o),
		})
		return res, installerError(o)
	}
	return b.report.record(StepResult{
		ID:     StepUpgradeInstaller,
		Status: StatusOK,
		Detail: "pip is current",
	}), nil
}

func (b *Bootstrapper) installDeps(ctx context.Context) (StepResult, error) {
	reqPath := requirementsPath(b.conf)
	if !util.FileExists(filepath.Dir(reqPath), filepath.Base(reqPath)) {
		detail := fmt.Sprintf("%s not found in %s", b.conf.Requirements, b.conf.WorkDir)
		res := b.report.record(StepResult{
			ID:     StepInstallDeps,
			Status: StatusFailed,
			Detail: detail,
			Hint:   "run kb from the bot checkout, or pass --dir",
		})
		return res, fmt.Errorf("%s", detail)
	}

	o := InstallRequirements(ctx, b.conf.WorkDir, b.venv, b.conf.Requirements)
	if !o.Succeeded() {
		res := b.report.record(StepResult{
			ID:     StepInstallDeps,
			Status: StatusFailed,
			Detail: failureDetail(o),
		})
		return res, installerError(o)
	}

	detail := fmt.Sprintf("installed %s", b.conf.Requirements)
	if reqs, err := workspacefs.ReadRequirements(reqPath); err == nil {
		detail = fmt.Sprintf("installed %d packages from %s", len(reqs), b.conf.Requirements)
	}
	return b.report.record(StepResult{ID: StepInstallDeps, Status: StatusOK, Detail: detail}), nil
}

func (b *Bootstrapper) checkFFmpeg(ctx context.Context) (StepResult, error) {
	o := CheckFFmpeg(ctx)
	switch o.Kind {
	case ToolSucceeded:
		detail := "ffmpeg available"
		if version := FFmpegVersion(o); version != "" {
			detail = "ffmpeg " + version
		}
		return b.report.record(StepResult{ID: StepCheckFFmpeg, Status: StatusOK, Detail: detail}), nil
	case ToolMissing:
		return b.report.record(StepResult{
			ID:     StepCheckFFmpeg,
			Status: StatusWarned,
			Detail: "ffmpeg not found, voice transcription will be disabled",
			Hint:   FFmpegInstallHint(),
		}), nil
	default:
		return b.report.record(StepResult{
			ID:     StepCheckFFmpeg,
			Status: StatusWarned,
			Detail: fmt.Sprintf("ffmpeg is present but not answering: %s", o.Stderr),
			Hint:   "reinstall ffmpeg: " + FFmpegInstallHint(),
		}), nil
	}
}

func (b *Bootstrapper) ensureWorkdir(ctx context.Context) (StepResult, error) {
	dir := tempDirPath(b.conf)
	if err := workspacefs.EnsureWorkdir(dir); err != nil {
		res := b.report.record(StepResult{
			ID:     StepEnsureWorkdir,
			Status: StatusFailed,
			Detail: fmt.Sprintf("could not create %s: %v", b.conf.TempDir, err),
		})
		return res, err
	}
	return b.report.record(StepResult{
		ID:     StepEnsureWorkdir,
		Status: StatusOK,
		Detail: fmt.Sprintf("%s ready", b.conf.TempDir),
	}), nil
}

// installerError converts a failed pip Outcome into the error main unwraps
// for the process exit status.
func installerError(o Outcome) error {
	if o.Kind == ToolFailed && o.ExitCode > 0 {
		return &ExitStatusError{Code: o.ExitCode, Cause: o.Err()}
	}
	return o.Err()
}

func failureDetail(o Outcome) string {
	if o.Stderr != "" {
		return o.Stderr
	}
	if o.Err() != nil {
		return o.Err().Error()
	}
	return o.Kind.String()
}

func requirementsPath(conf config.SetupConfig) string {
	if filepath.IsAbs(conf.Requirements) {
		return conf.Requirements
	}
	return filepath.Join(conf.WorkDir, conf.Requirements)
}

func tempDirPath(conf config.SetupConfig) string {
	if filepath.IsAbs(conf.TempDir) {
		return conf.TempDir
	}
	return filepath.Join(conf.WorkDir, conf.TempDir)
}
