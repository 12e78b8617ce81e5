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

	"github.com/urfave/cli/v3"

	"github.com/ai-keynote/keynote-cli/pkg/util"
)

var (
	OpenCommands = []*cli.Command{
		{
			Name:      "open",
			Usage:     "Open the page where a bot credential is issued",
			Category:  "Core",
			ArgsUsage: "TARGET",
			Description: "Each target maps to the console that issues one of the keys " +
				"in .env: botfather for BOT_TOKEN, openai for OPENAI_API_KEY, " +
				"tavily for TAVILY_API_KEY. docs opens the bot's README.",
			Action: runOpen,
			Flags:  []cli.Flag{openFlag},
		},
	}
)

func runOpen(ctx context.Context, cmd *cli.Command) error {
	target, err := extractFlagOrArg(cmd, "open")
	if err != nil {
		return fmt.Errorf("no target given, supported options: %v", util.OpenTargets)
	}
	return util.Open(util.OpenTarget(target))
}
