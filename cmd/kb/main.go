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
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	keynotecli "github.com/ai-keynote/keynote-cli"
	"github.com/ai-keynote/keynote-cli/pkg/bootstrap"
	"github.com/ai-keynote/keynote-cli/pkg/logging"
)

func main() {
	app := &cli.Command{
		Name:                   "kb",
		Usage:                  "Environment bootstrapper for the AI Keynote Bot",
		Description:            "Prepares a keynote-bot checkout for its first run: finds Python, builds the virtual environment, installs dependencies into it, checks the audio tooling, and tells you what is left to configure. Running kb with no arguments performs the full setup.",
		Version:                keynotecli.Version,
		EnableShellCompletion:  true,
		Suggest:                true,
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		Flags:                  globalFlags,
		Commands: []*cli.Command{
			{
				Name:   "generate-fish-completion",
				Action: generateFishCompletion,
				Hidden: true,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
					},
				},
			},
		},
		// bare `kb` runs the whole setup sequence
		Action: runSetup,
		Before: initLogger,
	}

	app.Commands = append(app.Commands, SetupCommands...)
	app.Commands = append(app.Commands, DoctorCommands...)
	app.Commands = append(app.Commands, EnvCommands...)
	app.Commands = append(app.Commands, RunCommands...)
	app.Commands = append(app.Commands, CleanCommands...)
	app.Commands = append(app.Commands, WorkspaceCommands...)
	app.Commands = append(app.Commands, OpenCommands...)

	// Register cleanup hook for SIGINT, SIGTERM, SIGQUIT
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	go func() {
		<-ctx.Done()
		stop()
	}()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitStatus(err))
	}
}

// exitStatus maps an error to the process exit code. A failed installer
// run surfaces the installer's own status so wrapper scripts can react to
// pip's exit codes, everything else is a plain 1.
func exitStatus(err error) int {
	var exitErr *bootstrap.ExitStatusError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}

func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logConfig := &logging.Config{
		Level: "info",
	}
	if cmd.Bool("verbose") {
		logConfig.Level = "debug"
	}
	logging.InitFromConfig(logConfig, "kb")

	return nil, nil
}

func generateFishCompletion(ctx context.Context, cmd *cli.Command) error {
	fishScript, err := cmd.ToFishCompletion()
	if err != nil {
		return err
	}

	outPath := cmd.String("out")
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(fishScript), 0o644); err != nil {
			return err
		}
	} else {
		fmt.Println(fishScript)
	}

	return nil
}
