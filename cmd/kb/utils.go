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
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/ai-keynote/keynote-cli/pkg/config"
	"github.com/ai-keynote/keynote-cli/pkg/util"
	"github.com/ai-keynote/keynote-cli/pkg/workspacefs"
)

var (
	workingDir   string = "."
	tomlFilename string = config.KeynoteTOMLFile

	jsonFlag = &cli.BoolFlag{
		Name:    "json",
		Aliases: []string{"j"},
		Usage:   "Output as JSON",
	}
	silentFlag = &cli.BoolFlag{
		Name:     "silent",
		Usage:    "If set, will not prompt for confirmation",
		Required: false,
		Value:    false,
	}
	dryRunFlag = &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "Report what would happen without doing it",
	}

	openFlag    = util.OpenFlag
	globalFlags = newGlobalFlags()
)

// newGlobalFlags builds a fresh set of the flags every command accepts.
// Flags hold parse state, so a Command never shares them with another.
func newGlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dir",
			Aliases:     []string{"d"},
			Usage:       "`PATH` of the bot checkout to operate on",
			Sources:     cli.EnvVars("KB_DIR"),
			Value:       ".",
			Destination: &workingDir,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Config `TOML` to use in the working directory",
			Value:       config.KeynoteTOMLFile,
			Destination: &tomlFilename,
			Required:    false,
		},
		&cli.StringFlag{
			Name:  "workspace",
			Usage: "`NAME` of a registered bot checkout",
		},
		&cli.StringFlag{
			Name:    "python",
			Usage:   "`INTERPRETER` to create the environment with, instead of searching PATH",
			Sources: cli.EnvVars("KB_PYTHON"),
		},
		&cli.StringFlag{
			Name:    "venv",
			Usage:   "`DIR` of the virtual environment",
			Sources: cli.EnvVars("KB_VENV"),
		},
		&cli.StringFlag{
			Name:    "requirements",
			Aliases: []string{"r"},
			Usage:   "Dependency `MANIFEST` to install from",
			Sources: cli.EnvVars("KB_REQUIREMENTS"),
		},
		&cli.BoolFlag{
			Name:     "verbose",
			Required: false,
		},
	}
}

func optional[T any, C any, VC cli.ValueCreator[T, C]](flag *cli.FlagBase[T, C, VC]) *cli.FlagBase[T, C, VC] {
	newFlag := *flag
	newFlag.Required = false
	return &newFlag
}

func hidden[T any, C any, VC cli.ValueCreator[T, C]](flag *cli.FlagBase[T, C, VC]) *cli.FlagBase[T, C, VC] {
	newFlag := *flag
	newFlag.Hidden = true
	return &newFlag
}

// interactive reports whether prompting the operator makes sense.
func interactive(cmd *cli.Command) bool {
	return !cmd.Bool("silent") && isatty.IsTerminal(os.Stdout.Fd())
}

func extractArg(c *cli.Command) (string, error) {
	if !c.Args().Present() {
		return "", errors.New("no argument provided")
	}
	return c.Args().First(), nil
}

func extractFlagOrArg(c *cli.Command, flag string) (string, error) {
	value := c.String(flag)
	if value == "" {
		argValue := c.Args().First()
		if argValue == "" {
			return "", fmt.Errorf("no option or argument found for \"--%s\"", flag)
		}
		value = argValue
	}
	return value, nil
}

func parseKeyValuePairs(c *cli.Command, flag string) (map[string]string, error) {
	pairs := c.StringSlice(flag)
	if len(pairs) == 0 {
		return nil, nil
	}

	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		if m, err := godotenv.Unmarshal(pair); err != nil {
			return nil, fmt.Errorf("invalid key-value pair: %s: %w", pair, err)
		} else {
			maps.Copy(result, m)
		}
	}
	return result, nil
}

// loadSetupConfig resolves the effective setup configuration. Priority:
//  1. command line flags (or env vars)
//  2. keynote.toml in the working directory
//  3. the workspace registry, when --workspace names a checkout or the
//     working directory is not itself a checkout
//  4. built-in defaults
func loadSetupConfig(c *cli.Command) (config.SetupConfig, error) {
	conf := *config.DefaultSetupConfig()

	dir := workingDir
	if workspace := c.String("workspace"); workspace != "" {
		if c.IsSet("dir") {
			return conf, errors.New("both workspace and dir flags are set")
		}
		w, err := config.LoadWorkspace(workspace)
		if err != nil {
			return conf, err
		}
		dir = w.Path
	} else if !c.IsSet("dir") && !looksLikeCheckout(dir) {
		// an unrecognizable working directory falls back to the default
		// workspace, so registered checkouts work from anywhere
		if w, err := config.LoadDefaultWorkspace(); err == nil {
			dir = w.Path
			if c.Bool("verbose") {
				fmt.Printf("Using default workspace [%s]\n", util.Accented(w.Name))
			}
		}
	}
	conf.WorkDir = dir

	tomlConf, exists, err := config.LoadTOMLFile(dir, tomlFilename)
	if exists {
		if err != nil {
			return conf, err
		}
		conf.ApplyTOML(tomlConf)
		if c.Bool("verbose") {
			fmt.Printf("Using config file [%s]\n", util.Accented(tomlFilename))
		}
	}

	if python := c.String("python"); python != "" {
		conf.Python = python
	}
	if venv := c.String("venv"); venv != "" {
		conf.VenvDir = venv
	}
	if requirements := c.String("requirements"); requirements != "" {
		conf.Requirements = requirements
	}
	return conf, nil
}

// looksLikeCheckout reports whether dir already carries something the
// CLI can work with, a config file or a recognizable Python project.
func looksLikeCheckout(dir string) bool {
	if util.FileExists(dir, tomlFilename) {
		return true
	}
	_, err := workspacefs.DetectProjectType(dir)
	return err == nil
}

// tempDir resolves the voice scratch directory against the checkout. An
// absolute TempDir is taken as-is.
func tempDir(conf config.SetupConfig) string {
	if filepath.IsAbs(conf.TempDir) {
		return conf.TempDir
	}
	return filepath.Join(conf.WorkDir, conf.TempDir)
}
