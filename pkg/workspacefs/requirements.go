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
	"bufio"
	"os"
	"regexp"
	"strings"
)

// Requirement is a single entry of a pip requirements file.
type Requirement struct {
	// Name is the distribution name as written, with extras stripped.
	Name string
	// Spec is the version constraint ("==3.4.1", ">=1.2,<2"), empty for latest.
	Spec string
	// Raw is the full line as it appears in the file.
	Raw string
}

var requirementPattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)(\[[^\]]+\])?\s*([^;]*)`)

// ReadRequirements parses the requirements file at path. Blank lines,
// comments, and pip option lines (-r, -e, --index-url, ...) are skipped;
// environment markers after ";" are dropped from the specifier.
func ReadRequirements(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reqs []Requirement
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		req, ok := parseRequirementLine(scanner.Text())
		if ok {
			reqs = append(reqs, req)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}

func parseRequirementLine(line string) (Requirement, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
		return Requirement{}, false
	}
	// inline comments need whitespace before the hash
	if idx := strings.Index(line, " #"); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}

	matches := requirementPattern.FindStringSubmatch(line)
	if matches == nil {
		return Requirement{}, false
	}
	return Requirement{
		Name: matches[1],
		Spec: strings.TrimSpace(matches[3]),
		Raw:  line,
	}, true
}

var normalizeRuns = regexp.MustCompile(`[-_.]+`)

// NormalizePackageName folds a distribution name the way PyPI does, so
// "Python_DotEnv" and "python-dotenv" compare equal.
func NormalizePackageName(name string) string {
	return strings.ToLower(normalizeRuns.ReplaceAllString(name, "-"))
}
