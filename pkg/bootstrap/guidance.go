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

package bootstrap

import (
	"fmt"
	"strings"

	"github.com/ai-keynote/keynote-cli/pkg/workspacefs"
)

// Guidance is what the operator still has to do by hand after a
// successful setup.
type Guidance struct {
	// Activate is the shell line that enters the environment.
	Activate string `json:"activate"`
	// Launch starts the bot without activating first.
	Launch string `json:"launch"`
	// EnvFile is where credentials go.
	EnvFile string `json:"env_file"`
	// RequiredKeys must be filled in before the bot starts.
	RequiredKeys []string `json:"required_keys"`
	// OptionalKeys unlock voice and search features.
	OptionalKeys []string `json:"optional_keys"`
}

// Guidance assembles the post-setup instructions for this checkout.
func (b *Bootstrapper) Guidance() Guidance {
	return Guidance{
		Activate:     b.venv.ActivateCommand(),
		Launch:       fmt.Sprintf("%s %s", b.venv.Python(), b.conf.Entrypoint),
		EnvFile:      b.conf.EnvFile,
		RequiredKeys: workspacefs.RequiredEnvKeys,
		OptionalKeys: workspacefs.OptionalEnvKeys,
	}
}

// Render formats the guidance as the block printed at the end of setup.
func (g Guidance) Render() string {
	var b strings.Builder
	b.WriteString("Next steps:\n")
	fmt.Fprintf(&b, "  1. Activate the environment:  %s\n", g.Activate)
	fmt.Fprintf(&b, "  2. Fill in %s:  %s required; %s optional\n",
		g.EnvFile,
		strings.Join(g.RequiredKeys, ", "),
		strings.Join(g.OptionalKeys, ", "))
	fmt.Fprintf(&b, "  3. Launch the bot:  %s\n", g.Launch)
	return b.String()
}
