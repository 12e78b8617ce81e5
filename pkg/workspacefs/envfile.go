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

package workspacefs

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/joho/godotenv"

	"github.com/ai-keynote/keynote-cli/pkg/util"
)

const (
	EnvFile        = ".env"
	EnvExampleFile = ".env.example"
)

// RequiredEnvKeys must hold non-empty values before the bot can start.
var RequiredEnvKeys = []string{"BOT_TOKEN"}

// OptionalEnvKeys unlock voice transcription, web search, and debugging
// when set. The bot runs without them.
var OptionalEnvKeys = []string{"OPENAI_API_KEY", "TAVILY_API_KEY", "VOICE_TEMP_PATH", "DEBUG"}

// DefaultEnvTemplate is the seed used when a checkout carries no
// .env.example of its own.
func DefaultEnvTemplate() map[string]string {
	return map[string]string{
		"BOT_TOKEN":       "",
		"OPENAI_API_KEY":  "",
		"TAVILY_API_KEY":  "",
		"VOICE_TEMP_PATH": "./voice/temp",
		"DEBUG":           "false",
	}
}

// ReadEnvFile loads a dotenv file into a map.
func ReadEnvFile(path string) (map[string]string, error) {
	return godotenv.Read(path)
}

// WriteEnvFile persists env to path. The file holds API keys, so it is
// written owner-only.
func WriteEnvFile(path string, env map[string]string) error {
	contents, err := godotenv.Marshal(env)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(contents+"\n"), 0600)
}

// MissingEnvKeys returns the required keys that are absent or empty in env.
func MissingEnvKeys(env map[string]string) []string {
	var missing []string
	for _, key := range RequiredEnvKeys {
		if env[key] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// IsRequiredEnvKey reports whether key is in the required set.
func IsRequiredEnvKey(key string) bool {
	return slices.Contains(RequiredEnvKeys, key)
}

// LooseEnvPerms reports whether the file at path is readable by group or
// world. Always false on Windows, where POSIX bits carry no meaning.
func LooseEnvPerms(path string) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0077 != 0
}

// PromptFunc asks the operator for the value of key, showing the template
// placeholder as a hint.
type PromptFunc func(key string, placeholder string) (string, error)

// InstantiateEnvFile writes dir/.env from the checkout's .env.example, or
// from DefaultEnvTemplate when no example ships. Values already present in
// an existing .env always win, then substitutions, then prompt for
// whatever required keys remain blank. Returns the resulting map.
func InstantiateEnvFile(dir string, substitutions map[string]string, prompt PromptFunc) (map[string]string, error) {
	template := DefaultEnvTemplate()
	examplePath := filepath.Join(dir, EnvExampleFile)
	if _, err := os.Stat(examplePath); err == nil {
		example, err := godotenv.Read(examplePath)
		if err != nil {
			return nil, err
		}
		template = example
	}

	envPath := filepath.Join(dir, EnvFile)
	existing, err := godotenv.Read(envPath)
	if err != nil {
		existing = map[string]string{}
	}

	for key, placeholder := range template {
		if existing[key] != "" {
			template[key] = existing[key]
			continue
		}
		if value, ok := substitutions[key]; ok {
			template[key] = value
			continue
		}
		if prompt != nil && IsRequiredEnvKey(key) {
			value, err := prompt(key, placeholder)
			if err != nil {
				return nil, err
			}
			template[key] = value
		}
	}
	// keys the operator added by hand survive reinstantiation
	for key, value := range existing {
		if _, ok := template[key]; !ok {
			template[key] = value
		}
	}

	// an existing credential file is backed up before it is rewritten
	if len(existing) > 0 {
		if err := util.CopyFile(envPath, envPath+".bak"); err != nil {
			return nil, err
		}
	}

	if err := WriteEnvFile(envPath, template); err != nil {
		return nil, err
	}
	return template, nil
}
