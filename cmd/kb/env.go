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
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/ai-keynote/keynote-cli/pkg/util"
	"github.com/ai-keynote/keynote-cli/pkg/workspacefs"
)

var (
	valuesFlag = &cli.StringSliceFlag{
		Name:    "values",
		Aliases: []string{"v"},
		Usage:   "`KEY=VALUE` pairs to set without prompting",
	}

	EnvCommands = []*cli.Command{
		{
			Name:     "env",
			Usage:    "Manage the bot's credentials file",
			Category: "Core",
			Commands: []*cli.Command{
				{
					Name:   "init",
					Usage:  "Create or complete " + workspacefs.EnvFile + " from the checkout's template",
					Action: envInit,
					Flags: []cli.Flag{
						valuesFlag,
						silentFlag,
					},
				},
				{
					Name:   "check",
					Usage:  "Verify required keys are present and file permissions are sane",
					Action: envCheck,
					Flags: []cli.Flag{
						jsonFlag,
					},
				},
				{
					Name:   "show",
					Usage:  "Print the configured keys with values masked",
					Action: envShow,
					Flags: []cli.Flag{
						jsonFlag,
						&cli.BoolFlag{
							Name:  "reveal",
							Usage: "Interactively pick values to print unmasked",
						},
					},
				},
			},
		},
	}
)

func envInit(ctx context.Context, cmd *cli.Command) error {
	conf, err := loadSetupConfig(cmd)
	if err != nil {
		return err
	}
	return instantiateEnv(ctx, cmd, conf.WorkDir)
}

func instantiateEnv(ctx context.Context, cmd *cli.Command, dir string) error {
	substitutions, err := parseKeyValuePairs(cmd, "values")
	if err != nil {
		return err
	}

	var prompt workspacefs.PromptFunc
	if interactive(cmd) {
		prompt = func(key, placeholder string) (string, error) {
			var value string
			input := huh.NewInput().
				Title(key).
				Placeholder(placeholder).
				Value(&value)
			if isSecretKey(key) {
				input = input.EchoMode(huh.EchoModePassword)
			}
			err := huh.NewForm(huh.NewGroup(input)).
				WithTheme(themeBranded).
				RunWithContext(ctx)
			return value, err
		}
	}

	env, err := workspacefs.InstantiateEnvFile(dir, substitutions, prompt)
	if err != nil {
		return err
	}

	envPath := filepath.Join(dir, workspacefs.EnvFile)
	fmt.Printf("Saved credentials to [%s]\n", util.Accented(envPath))
	if missing := workspacefs.MissingEnvKeys(env); len(missing) > 0 {
		fmt.Printf("%s still unset: %s\n", util.Warning("⚠"), strings.Join(missing, ", "))
	}
	return nil
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, "_TOKEN") ||
		strings.HasSuffix(key, "_KEY") ||
		strings.HasSuffix(key, "_SECRET")
}

type envCheckOutput struct {
	Path             string   `json:"path"`
	Present          []string `json:"present"`
	MissingRequired  []string `json:"missing_required"`
	MissingOptional  []string `json:"missing_optional"`
	LoosePermissions bool     `json:"loose_permissions"`
}

func envCheck(ctx context.Context, cmd *cli.Command) error {
	conf, err := loadSetupConfig(cmd)
	if err != nil {
		return err
	}

	envPath := filepath.Join(conf.WorkDir, conf.EnvFile)
	env, err := workspacefs.ReadEnvFile(envPath)
	if err != nil {
		return fmt.Errorf("no credentials file at [%s], run `kb env init` first", envPath)
	}

	out := envCheckOutput{
		Path:             envPath,
		MissingRequired:  workspacefs.MissingEnvKeys(env),
		LoosePermissions: workspacefs.LooseEnvPerms(envPath),
	}
	for key, value := range env {
		if value != "" {
			out.Present = append(out.Present, key)
		}
	}
	sort.Strings(out.Present)
	for _, key := range workspacefs.OptionalEnvKeys {
		if env[key] == "" {
			out.MissingOptional = append(out.MissingOptional, key)
		}
	}

	if cmd.Bool("json") {
		util.PrintJSON(out)
	} else {
		fmt.Printf("Checked [%s]\n", util.Accented(envPath))
		if len(out.Present) > 0 {
			fmt.Printf("%s %s\n", util.Success("✔"), strings.Join(out.Present, ", "))
		}
		if len(out.MissingOptional) > 0 {
			fmt.Printf("%s optional, unset: %s\n", util.Dimmed("−"), strings.Join(out.MissingOptional, ", "))
		}
		if out.LoosePermissions {
			fmt.Printf("%s [%s] is readable by other users, run: chmod 600 %s\n", util.Warning("⚠"), envPath, envPath)
		}
	}

	if len(out.MissingRequired) > 0 {
		return fmt.Errorf("missing required keys: %s",
			strings.Join(util.MapStrings(out.MissingRequired, util.WrapWith("\"")), ", "))
	}
	return nil
}

func envShow(ctx context.Context, cmd *cli.Command) error {
	conf, err := loadSetupConfig(cmd)
	if err != nil {
		return err
	}

	envPath := filepath.Join(conf.WorkDir, conf.EnvFile)
	env, err := workspacefs.ReadEnvFile(envPath)
	if err != nil {
		return fmt.Errorf("no credentials file at [%s], run `kb env init` first", envPath)
	}

	if cmd.Bool("reveal") {
		if !interactive(cmd) {
			return errors.New("--reveal needs a terminal")
		}
		chosen, err := workspacefs.SelectEnvKeys(env)
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(chosen))
		for key := range chosen {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("%s=%s\n", key, chosen[key])
		}
		return nil
	}

	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if cmd.Bool("json") {
		masked := make(map[string]string, len(env))
		for key, value := range env {
			masked[key] = util.MaskSecret(value)
		}
		util.PrintJSON(masked)
		return nil
	}

	table := util.CreateTable().
		Headers("Key", "Value", "Role")
	for _, key := range keys {
		table.Row(key, util.MaskSecret(env[key]), envKeyRole(key))
	}
	fmt.Println(table)
	return nil
}

func envKeyRole(key string) string {
	switch {
	case workspacefs.IsRequiredEnvKey(key):
		return "required"
	case slices.Contains(workspacefs.OptionalEnvKeys, key):
		return "optional"
	default:
		return "extra"
	}
}
