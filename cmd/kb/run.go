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
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ai-keynote/keynote-cli/pkg/bootstrap"
	"github.com/ai-keynote/keynote-cli/pkg/util"
	"github.com/ai-keynote/keynote-cli/pkg/workspacefs"
)

var (
	RunCommands = []*cli.Command{
		{
			Name:      "run",
			Usage:     "Launch the bot inside its virtual environment",
			Category:  "Core",
			Action:    runBot,
			ArgsUsage: "[ARGS ...] passed through to the bot process",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "entrypoint",
					Usage:   "Python script to launch, relative to the checkout",
					Sources: cli.EnvVars("KB_ENTRYPOINT"),
				},
				&cli.StringFlag{
					Name:  "task",
					Usage: "Taskfile task to run instead of the entrypoint",
				},
			},
		},
	}
)

func runBot(ctx context.Context, cmd *cli.Command) error {
	conf, err := loadSetupConfig(cmd)
	if err != nil {
		return err
	}
	if entrypoint := cmd.String("entrypoint"); entrypoint != "" {
		conf.Entrypoint = entrypoint
	}

	venv := workspacefs.NewVenv(conf.WorkDir, conf.VenvDir)
	if !venv.Exists() {
		return fmt.Errorf("no virtual environment in [%s], run `kb setup` first", conf.WorkDir)
	}

	// The bot writes voice downloads here as soon as it starts.
	if err := workspacefs.EnsureWorkdir(tempDir(conf)); err != nil {
		return err
	}

	warnMissingCredentials(conf.WorkDir, conf.EnvFile)

	// Checkouts that carry a taskfile get their dev loop from it. The
	// plain entrypoint launch stays the default for everything else.
	if util.FileExists(conf.WorkDir, bootstrap.TaskFile) {
		taskName := cmd.String("task")
		if taskName == "" {
			taskName = conf.Task
		}
		return runTask(ctx, cmd, conf.WorkDir, taskName)
	}
	if cmd.IsSet("task") {
		return fmt.Errorf("no %s in [%s]", bootstrap.TaskFile, conf.WorkDir)
	}

	entrypoint := conf.Entrypoint
	if !util.FileExists(conf.WorkDir, entrypoint) {
		return fmt.Errorf("entrypoint [%s] not found, pass --entrypoint or set it in %s", entrypoint, tomlFilename)
	}

	extraEnv, err := venvEnviron(venv)
	if err != nil {
		return err
	}
	extraEnv = mergeDotenv(extraEnv, filepath.Join(conf.WorkDir, conf.EnvFile))

	fmt.Printf("Launching [%s]\n", util.Accented(entrypoint))
	args := append([]string{entrypoint}, cmd.Args().Slice()...)
	return bootstrap.Stream(ctx, conf.WorkDir, extraEnv, venv.Python(), args...)
}

func runTask(ctx context.Context, cmd *cli.Command, dir, taskName string) error {
	tf, err := bootstrap.ParseTaskfile(dir)
	if err != nil {
		return err
	}
	run, err := bootstrap.NewTask(ctx, tf, dir, taskName, cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	fmt.Printf("Running task [%s]\n", util.Accented(taskName))
	return run()
}

// venvEnviron builds the variables an activated shell would export, so
// the child process and anything it spawns resolve tools from the venv.
func venvEnviron(venv workspacefs.Venv) ([]string, error) {
	root, err := filepath.Abs(venv.Root)
	if err != nil {
		return nil, err
	}
	binDir, err := filepath.Abs(venv.BinDir())
	if err != nil {
		return nil, err
	}
	return []string{
		"VIRTUAL_ENV=" + root,
		"PATH=" + binDir + string(os.PathListSeparator) + os.Getenv("PATH"),
	}, nil
}

// mergeDotenv appends entries from the credentials file at path for keys
// the process environment does not already set. Exported variables win
// over file values.
func mergeDotenv(extraEnv []string, path string) []string {
	env, err := workspacefs.ReadEnvFile(path)
	if err != nil {
		return extraEnv
	}
	for key, value := range env {
		if _, exported := os.LookupEnv(key); !exported {
			extraEnv = append(extraEnv, key+"="+value)
		}
	}
	return extraEnv
}

func warnMissingCredentials(dir, envFile string) {
	env, err := workspacefs.ReadEnvFile(filepath.Join(dir, envFile))
	if err != nil {
		fmt.Printf("%s no %s found, run `kb env init` first\n", util.Warning("⚠"), envFile)
		return
	}
	if missing := workspacefs.MissingEnvKeys(env); len(missing) > 0 {
		fmt.Printf("%s %s is missing %s, the bot will not start without them\n",
			util.Warning("⚠"), envFile, strings.Join(missing, ", "))
	}
}
