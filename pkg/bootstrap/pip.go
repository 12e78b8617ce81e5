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
	"context"
	"encoding/json"
	"fmt"

	"github.com/ai-keynote/keynote-cli/pkg/workspacefs"
)

// Every pip call below goes through the venv's interpreter with -m pip.
// That keeps installs inside the environment no matter what pip shims are
// on PATH or what VIRTUAL_ENV says.

// UpgradePip brings the environment's pip up to date before any install.
func UpgradePip(ctx context.Context, dir string, venv workspacefs.Venv) Outcome {
	return Invoke(ctx, dir, venv.Python(), "-m", "pip", "install", "--upgrade", "pip")
}

// InstallRequirements installs the project manifest into the environment.
func InstallRequirements(ctx context.Context, dir string, venv workspacefs.Venv, requirementsFile string) Outcome {
	return Invoke(ctx, dir, venv.Python(), "-m", "pip", "install", "-r", requirementsFile)
}

// InstalledPackage is one row of pip's package listing.
type InstalledPackage struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ListInstalled reports what the environment currently holds.
func ListInstalled(ctx context.Context, dir string, venv workspacefs.Venv) ([]InstalledPackage, error) {
	o := Invoke(ctx, dir, venv.Python(), "-m", "pip", "list", "--format=json")
	if !o.Succeeded() {
		return nil, fmt.Errorf("pip list failed: %w", o.Err())
	}
	var packages []InstalledPackage
	if err := json.Unmarshal([]byte(o.Stdout), &packages); err != nil {
		return nil, fmt.Errorf("unexpected pip list output: %w", err)
	}
	return packages, nil
}

// MissingPackages compares the manifest against the installed set and
// returns requirements pip has not materialized yet. Version constraints
// are not evaluated, only presence.
func MissingPackages(reqs []workspacefs.Requirement, installed []InstalledPackage) []workspacefs.Requirement {
	present := make(map[string]bool, len(installed))
	for _, pkg := range installed {
		present[workspacefs.NormalizePackageName(pkg.Name)] = true
	}

	var missing []workspacefs.Requirement
	for _, req := range reqs {
		if !present[workspacefs.NormalizePackageName(req.Name)] {
			missing = append(missing, req)
		}
	}
	return missing
}
