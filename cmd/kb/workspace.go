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
	"regexp"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/ai-keynote/keynote-cli/pkg/config"
	"github.com/ai-keynote/keynote-cli/pkg/util"
	"github.com/ai-keynote/keynote-cli/pkg/workspacefs"
)

var (
	WorkspaceCommands = []*cli.Command{
		{
			Name:   "workspace",
			Usage:  "Register bot checkouts so other commands find them by name",
			Before: loadWorkspaceRegistry,
			Commands: []*cli.Command{
				{
					Name:      "add",
					Usage:     "Register a bot checkout under a name",
					UsageText: "kb workspace add WORKSPACE_NAME",
					ArgsUsage: "WORKSPACE_NAME",
					Action:    addWorkspace,
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "path",
							Usage: "`PATH` to the bot checkout",
						},
						&cli.BoolFlag{
							Name:  "default",
							Usage: "Set this workspace as the default",
						},
					},
				},
				{
					Name:      "list",
					Usage:     "List all registered workspaces",
					UsageText: "kb workspace list",
					Action:    listWorkspaces,
					Flags:     []cli.Flag{jsonFlag},
				},
				{
					Name:      "remove",
					Usage:     "Remove a workspace from config",
					UsageText: "kb workspace remove WORKSPACE_NAME",
					ArgsUsage: "WORKSPACE_NAME",
					Action:    removeWorkspace,
				},
				{
					Name:      "set-default",
					Usage:     "Set a workspace as default to use with other commands",
					UsageText: "kb workspace set-default WORKSPACE_NAME",
					ArgsUsage: "WORKSPACE_NAME",
					Action:    setDefaultWorkspace,
				},
			},
		},
	}

	workspaceRegistry  *config.CLIConfig
	defaultWorkspace   *config.WorkspaceConfig
	workspaceNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
)

func loadWorkspaceRegistry(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	conf, err := config.LoadOrCreate()
	if err != nil {
		return ctx, err
	}
	workspaceRegistry = conf

	if workspaceRegistry.DefaultWorkspace != "" {
		for _, w := range workspaceRegistry.Workspaces {
			if w.Name == workspaceRegistry.DefaultWorkspace {
				defaultWorkspace = &w
				break
			}
		}
	}
	return ctx, nil
}

func addWorkspace(ctx context.Context, cmd *cli.Command) error {
	w := config.WorkspaceConfig{}
	var err error
	var prompts []huh.Field

	// Name
	validateName := func(val string) error {
		if !workspaceNameRegex.MatchString(val) {
			return errors.New("name can only contain alphanumeric characters, dashes and underscores")
		}
		// cannot conflict with existing workspaces
		if workspaceRegistry.WorkspaceExists(val) {
			return errors.New("name already exists")
		}
		return nil
	}

	if w.Name = cmd.Args().Get(0); w.Name != "" {
		if err = validateName(w.Name); err != nil {
			return err
		}
		fmt.Println("  Workspace Name:", w.Name)
	} else {
		prompts = append(prompts, huh.NewInput().
			Title("Workspace Name").
			Placeholder("keynote-bot").
			Validate(validateName).
			Value(&w.Name))
	}

	// Path must point at a Python checkout, anything else cannot be
	// bootstrapped.
	validatePath := func(val string) error {
		abs, err := filepath.Abs(val)
		if err != nil {
			return err
		}
		if !util.DirExists(abs) {
			return errors.New("no such directory")
		}
		if pt, err := workspacefs.DetectProjectType(abs); err != nil || !pt.IsPython() {
			return errors.New("not a Python checkout, expected requirements.txt or pyproject.toml")
		}
		return nil
	}
	if w.Path = cmd.String("path"); w.Path != "" {
		if err = validatePath(w.Path); err != nil {
			return err
		}
		fmt.Println("  Path:", w.Path)
	} else {
		prompts = append(prompts, huh.NewInput().
			Title("Path").
			Placeholder("~/src/keynote-bot").
			Validate(validatePath).
			Value(&w.Path))
	}

	// the first workspace becomes the default
	makeDefault := cmd.Bool("default") || defaultWorkspace == nil
	if !makeDefault && !cmd.IsSet("default") {
		prompts = append(prompts, huh.NewConfirm().
			Title("Make this workspace default?").
			Value(&makeDefault).
			Inline(true).
			WithTheme(util.Theme))
	}

	if len(prompts) > 0 {
		var groups []*huh.Group
		for _, p := range prompts {
			groups = append(groups, huh.NewGroup(p))
		}
		err = huh.NewForm(groups...).
			WithTheme(util.Theme).
			RunWithContext(ctx)
		if err != nil {
			return err
		}
	}
	// a prompted name is empty until the form has run
	if makeDefault {
		workspaceRegistry.DefaultWorkspace = w.Name
	}

	// registered paths are absolute, the registry is consulted from
	// arbitrary working directories
	if w.Path, err = filepath.Abs(w.Path); err != nil {
		return err
	}

	workspaceRegistry.Workspaces = append(workspaceRegistry.Workspaces, w)

	// save config
	if err = workspaceRegistry.PersistIfNeeded(); err != nil {
		return err
	}

	listWorkspaces(ctx, cmd)

	return nil
}

func listWorkspaces(ctx context.Context, cmd *cli.Command) error {
	if len(workspaceRegistry.Workspaces) == 0 {
		fmt.Println("No workspaces configured, use `kb workspace add` to register a bot checkout.")
		return nil
	}

	baseStyle := util.Theme.Form.Base.Foreground(util.Fg).Padding(0, 1)
	headerStyle := baseStyle.Bold(true)
	selectedStyle := util.Theme.Focused.Title.Padding(0, 1)

	if cmd.Bool("json") {
		util.PrintJSON(workspaceRegistry.Workspaces)
	} else {
		table := util.CreateTable().
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case workspaceRegistry.Workspaces[row].Name == workspaceRegistry.DefaultWorkspace:
					return selectedStyle
				default:
					return baseStyle
				}
			}).
			Headers("Name", "Path", "Type")
		for _, w := range workspaceRegistry.Workspaces {
			var wName string
			if w.Name == workspaceRegistry.DefaultWorkspace {
				wName = "* " + w.Name
			} else {
				wName = "  " + w.Name
			}
			wType, _ := workspacefs.DetectProjectType(w.Path)
			table.Row(wName, w.Path, string(wType))
		}
		fmt.Println(table)
	}

	return nil
}

func removeWorkspace(ctx context.Context, cmd *cli.Command) error {
	name, err := extractArg(cmd)
	if err != nil {
		_ = cli.ShowSubcommandHelp(cmd)
		return errors.New("workspace name is required")
	}
	return workspaceRegistry.RemoveWorkspace(name)
}

func setDefaultWorkspace(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		_ = cli.ShowSubcommandHelp(cmd)
		return errors.New("workspace name is required")
	}
	name := cmd.Args().First()

	for _, w := range workspaceRegistry.Workspaces {
		if w.Name != name {
			continue
		}

		workspaceRegistry.DefaultWorkspace = w.Name
		if err := workspaceRegistry.PersistIfNeeded(); err != nil {
			return err
		}
		fmt.Println("Default workspace set to [" + util.Accented(w.Name) + "]")
		return nil
	}

	return errors.New("workspace not found")
}
