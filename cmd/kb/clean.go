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
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/ai-keynote/keynote-cli/pkg/util"
	"github.com/ai-keynote/keynote-cli/pkg/workspacefs"
)

var (
	CleanCommands = []*cli.Command{
		{
			Name:     "clean",
			Usage:    "Remove voice artifacts from the bot's temp directory",
			Category: "Core",
			Action:   runClean,
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:  "older-than",
					Usage: "Only remove artifacts older than `DURATION`",
					Value: 24 * time.Hour,
				},
				&cli.BoolFlag{
					Name:  "all",
					Usage: "Remove every artifact regardless of age",
				},
				&cli.StringSliceFlag{
					Name:  "keep",
					Usage: "Never remove files matching `PATTERN`, repeatable",
					Value: []string{".gitkeep"},
				},
				&cli.StringFlag{
					Name:  "max-size",
					Usage: "After the age pass, evict oldest artifacts until the directory fits `SIZE` (e.g. 200Mi)",
				},
				&cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Usage:   "Skip the confirmation prompt",
				},
				dryRunFlag,
				jsonFlag,
			},
		},
	}
)

func runClean(ctx context.Context, cmd *cli.Command) error {
	conf, err := loadSetupConfig(cmd)
	if err != nil {
		return err
	}

	dir := tempDir(conf)
	if !util.DirExists(dir) {
		fmt.Printf("Nothing to clean, [%s] does not exist\n", util.Accented(dir))
		return nil
	}

	opts := workspacefs.SweepOptions{
		OlderThan: cmd.Duration("older-than"),
		All:       cmd.Bool("all"),
		Keep:      cmd.StringSlice("keep"),
		DryRun:    true,
	}
	if limit := cmd.String("max-size"); limit != "" {
		if opts.MaxSize, err = workspacefs.ParseSizeLimit(limit); err != nil {
			return err
		}
	}

	// First pass is always dry, so the operator confirms against the
	// actual candidate list.
	preview, err := workspacefs.Sweep(dir, opts)
	if err != nil {
		return err
	}
	if len(preview.Removed) == 0 {
		if cmd.Bool("json") {
			util.PrintJSON(preview)
			return nil
		}
		fmt.Printf("Nothing to remove, %d file(s) (%s) kept\n", preview.KeptFiles, workspacefs.HumanSize(preview.KeptBytes))
		return nil
	}

	if cmd.Bool("dry-run") {
		if cmd.Bool("json") {
			util.PrintJSON(preview)
			return nil
		}
		printSweepResult(preview, true)
		return nil
	}

	if !cmd.Bool("yes") {
		if !interactive(cmd) {
			return errors.New("refusing to remove files without a terminal, pass --yes")
		}
		var confirmed bool
		if err := huh.NewForm(huh.NewGroup(huh.NewConfirm().
			Title(fmt.Sprintf("Remove %d artifact(s) (%s) from [%s]?",
				len(preview.Removed), workspacefs.HumanSize(preview.RemovedBytes), dir)).
			Inline(false).
			Value(&confirmed).
			WithTheme(util.Theme))).
			RunWithContext(ctx); err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	opts.DryRun = false
	result, err := workspacefs.Sweep(dir, opts)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		util.PrintJSON(result)
		return nil
	}
	printSweepResult(result, false)
	return nil
}

func printSweepResult(res *workspacefs.SweepResult, dry bool) {
	verb := "Removed"
	if dry {
		verb = "Would remove"
	}
	for _, rel := range res.Removed {
		fmt.Printf("  %s\n", util.Dimmed(rel))
	}
	fmt.Printf("%s %d artifact(s) (%s), kept %d (%s)\n",
		verb, len(res.Removed), workspacefs.HumanSize(res.RemovedBytes),
		res.KeptFiles, workspacefs.HumanSize(res.KeptBytes))
}
