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

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/ai-keynote/keynote-cli/pkg/bootstrap"
	"github.com/ai-keynote/keynote-cli/pkg/util"
	"github.com/ai-keynote/keynote-cli/pkg/workspacefs"
)

var (
	SetupCommands = []*cli.Command{
		{
			Name:     "setup",
			Usage:    "Prepare the checkout: interpreter, virtual environment, dependencies, audio tooling",
			Category: "Core",
			Action:   runSetup,
			Flags: []cli.Flag{
				jsonFlag,
				silentFlag,
			},
		},
	}
)

type setupOutput struct {
	Results  []bootstrap.StepResult `json:"results"`
	Guidance *bootstrap.Guidance    `json:"guidance,omitempty"`
}

func runSetup(ctx context.Context, cmd *cli.Command) error {
	conf, err := loadSetupConfig(cmd)
	if err != nil {
		return err
	}

	b := bootstrap.New(conf)
	jsonOut := cmd.Bool("json")
	live := interactive(cmd) && !jsonOut

	for _, step := range b.Steps() {
		var res bootstrap.StepResult
		stepErr := util.Await(step.Title, ctx, live, func(ctx context.Context) error {
			var err error
			res, err = step.Run(ctx)
			return err
		})
		if !jsonOut {
			printStepResult(res)
		}
		if stepErr != nil && step.Fatal {
			if jsonOut {
				util.PrintJSON(setupOutput{Results: b.Report().Results})
			}
			return stepErr
		}
	}

	if live {
		if err := offerEnvInit(ctx, cmd, conf.WorkDir); err != nil {
			return err
		}
	}

	if jsonOut {
		g := b.Guidance()
		util.PrintJSON(setupOutput{Results: b.Report().Results, Guidance: &g})
		return nil
	}

	fmt.Println()
	fmt.Print(b.Guidance().Render())
	return nil
}

func printStepResult(res bootstrap.StepResult) {
	switch res.Status {
	case bootstrap.StatusOK:
		fmt.Printf("%s %s\n", util.Success("✔"), res.Detail)
	case bootstrap.StatusSkipped:
		fmt.Printf("%s %s\n", util.Dimmed("−"), util.Dimmed(res.Detail))
	case bootstrap.StatusWarned:
		fmt.Printf("%s %s\n", util.Warning("⚠"), res.Detail)
		if res.Hint != "" {
			fmt.Printf("  %s\n", util.Dimmed("hint: "+res.Hint))
		}
	case bootstrap.StatusFailed:
		fmt.Printf("%s %s\n", util.Error("✖"), res.Detail)
		if res.Hint != "" {
			fmt.Printf("  %s\n", util.Dimmed("hint: "+res.Hint))
		}
	}
}

// offerEnvInit proposes creating .env when required credentials are still
// missing after setup. Declining is fine, the guidance block covers the
// manual path.
func offerEnvInit(ctx context.Context, cmd *cli.Command, dir string) error {
	env, err := workspacefs.ReadEnvFile(filepath.Join(dir, workspacefs.EnvFile))
	if err != nil {
		env = map[string]string{}
	}
	if len(workspacefs.MissingEnvKeys(env)) == 0 {
		return nil
	}

	var shouldInit bool
	if err := huh.NewForm(huh.NewGroup(huh.NewConfirm().
		Title("Create " + workspacefs.EnvFile + " with your bot credentials now?").
		Inline(false).
		Value(&shouldInit).
		WithTheme(util.Theme))).
		RunWithContext(ctx); err != nil {
		return err
	}
	if !shouldInit {
		return nil
	}
	return instantiateEnv(ctx, cmd, dir)
}
