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
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Interpreter is a resolved Python binary outside any virtual environment.
// It only ever creates the venv; installs go through the venv's own copy.
type Interpreter struct {
	// Path is the binary that answered, resolvable through PATH.
	Path string
	// Version is the bare version string, "3.11.4".
	Version string
}

// interpreterCandidates is the PATH lookup order when no explicit binary
// is configured. python3 first: on Debian-family systems plain "python"
// is often absent or a 2.x leftover.
var interpreterCandidates = []string{"python3", "python"}

var pythonVersionPattern = regexp.MustCompile(`Python\s+(\d+(?:\.\d+)*[a-zA-Z0-9+]*)`)

// FindInterpreter locates a usable Python. With explicit set, only that
// binary is considered; the generic candidates are not a fallback for a
// misconfigured override. The returned Outcome reports the probe of the
// last candidate tried, so callers can show what went wrong.
func FindInterpreter(ctx context.Context, explicit string) (*Interpreter, Outcome) {
	candidates := interpreterCandidates
	if explicit != "" {
		candidates = []string{explicit}
	}

	var last Outcome
	for _, candidate := range candidates {
		last = Invoke(ctx, "", candidate, "--version")
		if !last.Succeeded() {
			continue
		}
		version, err := parsePythonVersion(versionOutput(last))
		if err != nil {
			last.Kind = ToolFailed
			last.err = err
			continue
		}
		return &Interpreter{Path: candidate, Version: version}, last
	}
	return nil, last
}

// versionOutput joins both streams: Python 2 printed its version banner
// to stderr.
func versionOutput(o Outcome) string {
	if o.Stdout != "" {
		return o.Stdout
	}
	return o.Stderr
}

func parsePythonVersion(banner string) (string, error) {
	matches := pythonVersionPattern.FindStringSubmatch(banner)
	if matches == nil {
		return "", fmt.Errorf("unrecognized interpreter banner %q", strings.TrimSpace(banner))
	}
	return matches[1], nil
}

// ResolvePath reports where PATH resolution lands for the interpreter,
// for display next to the version.
func (i *Interpreter) ResolvePath() string {
	if resolved, err := exec.LookPath(i.Path); err == nil {
		return resolved
	}
	return i.Path
}
