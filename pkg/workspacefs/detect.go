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
	"errors"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/ai-keynote/keynote-cli/pkg/util"
)

type ProjectType string

const (
	ProjectTypePythonPip ProjectType = "python.pip"
	ProjectTypePythonUV  ProjectType = "python.uv"
	ProjectTypeUnknown   ProjectType = "unknown"
)

func (p ProjectType) IsPython() bool {
	return p == ProjectTypePythonPip || p == ProjectTypePythonUV
}

func (p ProjectType) Lang() string {
	if p.IsPython() {
		return "Python"
	}
	return ""
}

func (p ProjectType) DefaultEntrypoint() string {
	if p.IsPython() {
		return filepath.Join("bot", "main.py")
	}
	return ""
}

// DetectProjectType inspects the checkout at dir and reports which
// dependency tooling manages it. A plain requirements.txt wins over
// lock files because that is what the bootstrap installs from.
func DetectProjectType(dir string) (ProjectType, error) {
	if util.FileExists(dir, "requirements.txt") {
		return ProjectTypePythonPip, nil
	}
	if util.FileExists(dir, "uv.lock") {
		return ProjectTypePythonUV, nil
	}
	if util.FileExists(dir, "poetry.lock") || util.FileExists(dir, "Pipfile.lock") {
		return ProjectTypePythonPip, nil // pip-compatible
	}
	if util.FileExists(dir, "pyproject.toml") {
		data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
		if err == nil {
			var doc map[string]any
			if err := toml.Unmarshal(data, &doc); err == nil {
				if tool, ok := doc["tool"].(map[string]any); ok {
					if _, hasUv := tool["uv"]; hasUv {
						return ProjectTypePythonUV, nil
					}
					if _, hasPoetry := tool["poetry"]; hasPoetry {
						return ProjectTypePythonPip, nil
					}
					if _, hasPdm := tool["pdm"]; hasPdm {
						return ProjectTypePythonPip, nil
					}
					if _, hasHatch := tool["hatch"]; hasHatch {
						return ProjectTypePythonPip, nil
					}
				}
			}
		}
		// Default to pip if pyproject.toml is present but not informative
		return ProjectTypePythonPip, nil
	}

	return ProjectTypeUnknown, errors.New("expected requirements.txt, pyproject.toml, or lock files")
}
