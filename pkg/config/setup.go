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

package config

// SetupConfig carries every knob of the environment procedure. The zero
// value is not usable; start from DefaultSetupConfig. Resolution order is
// flags (or env vars), then keynote.toml, then these defaults.
type SetupConfig struct {
	// WorkDir is the bot checkout the procedure operates on.
	WorkDir string
	// Python is an explicit interpreter path. Empty means discover one
	// on PATH.
	Python string
	// MinPython is the lowest interpreter version the bot's dependency
	// set supports.
	MinPython string
	// VenvDir is the isolated environment root, relative to WorkDir.
	VenvDir string
	// Requirements is the dependency manifest, relative to WorkDir.
	Requirements string
	// TempDir is the bot's working storage for voice artifacts, relative
	// to WorkDir.
	TempDir string
	// EnvFile is the runtime credential file, relative to WorkDir.
	EnvFile string
	// Entrypoint is the module launched by `kb run`.
	Entrypoint string
	// Task is the taskfile task preferred by `kb run` when the checkout
	// carries a taskfile.
	Task string
}

func DefaultSetupConfig() *SetupConfig {
	return &SetupConfig{
		WorkDir:      ".",
		MinPython:    "3.10",
		VenvDir:      ".venv",
		Requirements: "requirements.txt",
		TempDir:      "voice/temp",
		EnvFile:      ".env",
		Entrypoint:   "bot/main.py",
		Task:         "dev",
	}
}

// ApplyTOML overlays non-empty keynote.toml fields onto the config.
func (c *SetupConfig) ApplyTOML(t *KeynoteTOML) {
	if t == nil {
		return
	}
	if s := t.Setup; s != nil {
		if s.Python != "" {
			c.Python = s.Python
		}
		if s.MinPython != "" {
			c.MinPython = s.MinPython
		}
		if s.VenvDir != "" {
			c.VenvDir = s.VenvDir
		}
		if s.Requirements != "" {
			c.Requirements = s.Requirements
		}
		if s.TempDir != "" {
			c.TempDir = s.TempDir
		}
		if s.EnvFile != "" {
			c.EnvFile = s.EnvFile
		}
	}
	if b := t.Bot; b != nil {
		if b.Entrypoint != "" {
			c.Entrypoint = b.Entrypoint
		}
		if b.Task != "" {
			c.Task = b.Task
		}
	}
}
