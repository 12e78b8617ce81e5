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

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ai-keynote/keynote-cli/pkg/bootstrap"
	"github.com/ai-keynote/keynote-cli/pkg/config"
	"github.com/ai-keynote/keynote-cli/pkg/util"
	"github.com/ai-keynote/keynote-cli/pkg/workspacefs"
)

var (
	DoctorCommands = []*cli.Command{
		{
			Name:     "doctor",
			Usage:    "Diagnose the checkout without changing anything",
			Category: "Core",
			Action:   runDoctor,
			Flags: []cli.Flag{
				jsonFlag,
				&cli.BoolFlag{
					Name:  "strict",
					Usage: "Treat warnings as failures",
				},
			},
		},
	}
)

const (
	probeOK   = "ok"
	probeWarn = "warn"
	probeFail = "fail"
)

type probeResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// runDoctor fans the probes out concurrently. Each probe is independent
// and read-only, which is what makes the fan-out safe.
func runDoctor(ctx context.Context, cmd *cli.Command) error {
	conf, err := loadSetupConfig(cmd)
	if err != nil {
		return err
	}

	venv := workspacefs.NewVenv(conf.WorkDir, conf.VenvDir)
	probes := []struct {
		name string
		fn   func(ctx context.Context) probeResult
	}{
		{"python", func(ctx context.Context) probeResult { return probePython(ctx, conf) }},
		{"venv", func(ctx context.Context) probeResult { return probeVenv(conf, venv) }},
		{"packages", func(ctx context.Context) probeResult { return probePackages(ctx, conf, venv) }},
		{"ffmpeg", func(ctx context.Context) probeResult { return probeFFmpeg(ctx) }},
		{"env", func(ctx context.Context) probeResult { return probeEnv(conf) }},
		{"workdir", func(ctx context.Context) probeResult { return probeWorkdir(conf) }},
	}

	results := make([]probeResult, len(probes))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range probes {
		g.Go(func() error {
			results[i] = p.fn(gctx)
			results[i].Name = p.name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if cmd.Bool("json") {
		util.PrintJSON(results)
	} else {
		table := util.CreateTable().
			Headers("Probe", "Status", "Detail")
		for _, res := range results {
			table.Row(res.Name, styledProbeStatus(res.Status), util.EllipsizeTo(res.Detail, 96))
		}
		fmt.Println(table)
	}

	var failed, warned int
	for _, res := range results {
		switch res.Status {
		case probeFail:
			failed++
		case probeWarn:
			warned++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d probe(s) failed", failed)
	}
	if warned > 0 && cmd.Bool("strict") {
		return fmt.Errorf("%d probe(s) warned", warned)
	}
	return nil
}

func styledProbeStatus(status string) string {
	switch status {
	case probeOK:
		return util.Success(status)
	case probeWarn:
		return util.Warning(status)
	default:
		return util.Error(status)
	}
}

func probePython(ctx context.Context, conf config.SetupConfig) probeResult {
	interp, probe := bootstrap.FindInterpreter(ctx, conf.Python)
	if interp == nil {
		detail := "no interpreter found, install Python 3"
		if probe.Kind == bootstrap.ToolFailed {
			detail = fmt.Sprintf("%s did not answer: %s", probe.Tool, probe.Stderr)
		}
		return probeResult{Status: probeFail, Detail: detail}
	}
	if ok, err := bootstrap.IsVersionSatisfied(interp.Version, conf.MinPython); err == nil && !ok {
		return probeResult{
			Status: probeWarn,
			Detail: fmt.Sprintf("Python %s is older than the required %s", interp.Version, conf.MinPython),
		}
	}
	return probeResult{Status: probeOK, Detail: fmt.Sprintf("Python %s [%s]", interp.Version, interp.ResolvePath())}
}

func probeVenv(conf config.SetupConfig, venv workspacefs.Venv) probeResult {
	if !venv.Exists() {
		if venv.DirPresent() {
			return probeResult{Status: probeFail, Detail: fmt.Sprintf("%s exists but is not a virtual environment", conf.VenvDir)}
		}
		return probeResult{Status: probeWarn, Detail: "not created yet, run `kb setup`"}
	}
	detail := conf.VenvDir
	if version := venv.PythonVersion(); version != "" {
		detail = fmt.Sprintf("%s (Python %s)", conf.VenvDir, version)
	}
	return probeResult{Status: probeOK, Detail: detail}
}

func probePackages(ctx context.Context, conf config.SetupConfig, venv workspacefs.Venv) probeResult {
	if !venv.Exists() {
		return probeResult{Status: probeWarn, Detail: "skipped, no virtual environment"}
	}
	reqs, err := workspacefs.ReadRequirements(filepath.Join(conf.WorkDir, conf.Requirements))
	if err != nil {
		return probeResult{Status: probeWarn, Detail: fmt.Sprintf("cannot read %s", conf.Requirements)}
	}
	installed, err := bootstrap.ListInstalled(ctx, conf.WorkDir, venv)
	if err != nil {
		return probeResult{Status: probeFail, Detail: err.Error()}
	}
	if missing := bootstrap.MissingPackages(reqs, installed); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, req := range missing {
			names = append(names, req.Name)
		}
		return probeResult{
			Status: probeFail,
			Detail: fmt.Sprintf("not installed: %s, run `kb setup`", strings.Join(names, ", ")),
		}
	}
	return probeResult{Status: probeOK, Detail: fmt.Sprintf("%d requirements present", len(reqs))}
}

func probeFFmpeg(ctx context.Context) probeResult {
	o := bootstrap.CheckFFmpeg(ctx)
	switch o.Kind {
	case bootstrap.ToolSucceeded:
		detail := "available"
		if version := bootstrap.FFmpegVersion(o); version != "" {
			detail = version
		}
		return probeResult{Status: probeOK, Detail: detail}
	case bootstrap.ToolMissing:
		return probeResult{Status: probeWarn, Detail: "not found, voice disabled. " + bootstrap.FFmpegInstallHint()}
	default:
		return probeResult{Status: probeWarn, Detail: "present but not answering"}
	}
}

func probeEnv(conf config.SetupConfig) probeResult {
	envPath := filepath.Join(conf.WorkDir, conf.EnvFile)
	env, err := workspacefs.ReadEnvFile(envPath)
	if err != nil {
		return probeResult{Status: probeWarn, Detail: fmt.Sprintf("no %s, run `kb env init`", conf.EnvFile)}
	}
	if missing := workspacefs.MissingEnvKeys(env); len(missing) > 0 {
		return probeResult{Status: probeFail, Detail: "missing required keys: " + strings.Join(missing, ", ")}
	}
	if workspacefs.LooseEnvPerms(envPath) {
		return probeResult{Status: probeWarn, Detail: fmt.Sprintf("%s is readable by other users", conf.EnvFile)}
	}
	return probeResult{Status: probeOK, Detail: "required keys set"}
}

func probeWorkdir(conf config.SetupConfig) probeResult {
	dir := tempDir(conf)
	if !util.DirExists(dir) {
		return probeResult{Status: probeWarn, Detail: fmt.Sprintf("%s missing, run `kb setup`", conf.TempDir)}
	}
	if err := workspacefs.ProbeWritable(dir); err != nil {
		return probeResult{Status: probeFail, Detail: fmt.Sprintf("%s is not writable", conf.TempDir)}
	}
	detail := conf.TempDir
	if size, err := workspacefs.DirSize(dir); err == nil {
		detail = fmt.Sprintf("%s (%s used)", conf.TempDir, workspacefs.HumanSize(size))
	}
	return probeResult{Status: probeOK, Detail: detail}
}
