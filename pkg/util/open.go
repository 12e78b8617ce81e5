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

package util

import (
	"fmt"
	"slices"

	"github.com/pkg/browser"
	"github.com/urfave/cli/v3"
)

// OpenTarget names a page the CLI can open in the operator's browser,
// covering every credential the bot reads from its .env file.
type OpenTarget string

const (
	OpenTargetBotFather OpenTarget = "botfather"
	OpenTargetOpenAI    OpenTarget = "openai"
	OpenTargetTavily    OpenTarget = "tavily"
	OpenTargetDocs      OpenTarget = "docs"
)

var openTargetURLs = map[OpenTarget]string{
	OpenTargetBotFather: "https://t.me/BotFather",
	OpenTargetOpenAI:    "https://platform.openai.com/api-keys",
	OpenTargetTavily:    "https://app.tavily.com/home",
	OpenTargetDocs:      "https://github.com/ai-keynote/keynote-bot#readme",
}

var (
	OpenTargets = []string{
		string(OpenTargetBotFather),
		string(OpenTargetOpenAI),
		string(OpenTargetTavily),
		string(OpenTargetDocs),
	}
	OpenFlag = &cli.StringFlag{
		Name:  "open",
		Usage: fmt.Sprintf("Open relevant `PAGE` in browser, supported options: %v", OpenTargets),
		Validator: func(input string) error {
			if !slices.Contains(OpenTargets, input) {
				return fmt.Errorf("invalid open target: %s, supported options: %v", input, OpenTargets)
			}
			return nil
		},
	}
)

func Open(target OpenTarget) error {
	url, ok := openTargetURLs[target]
	if !ok {
		return fmt.Errorf("invalid open target: %s, supported options: %v", target, OpenTargets)
	}
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}
