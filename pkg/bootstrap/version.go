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
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// prereleasePattern catches CPython's suffix style: 3.13.0rc1, 3.14.0a2.
var prereleasePattern = regexp.MustCompile(`^(\d+(?:\.\d+)*)([a-zA-Z][a-zA-Z0-9]*.*)$`)

// IsVersionSatisfied reports whether an interpreter version meets the
// configured minimum. Prereleases of the minimum itself count as
// satisfying it, so a 3.13.0rc1 build passes a 3.13.0 floor.
func IsVersionSatisfied(version, minVersion string) (bool, error) {
	if minVersion == "" {
		return true, nil
	}

	v, err := semver.NewVersion(normalizeVersion(version))
	if err != nil {
		return false, fmt.Errorf("invalid version format: %s", version)
	}

	min, err := semver.NewVersion(normalizeVersion(minVersion))
	if err != nil {
		return false, fmt.Errorf("invalid minimum version format: %s", minVersion)
	}

	if !v.LessThan(min) {
		return true, nil
	}

	// same base version with a prerelease tag still satisfies the floor
	vBase, _, _ := strings.Cut(v.String(), "-")
	minBase, _, _ := strings.Cut(min.String(), "-")
	if vBase == minBase {
		return true, nil
	}

	return false, nil
}

// normalizeVersion reshapes a CPython version string into semver form:
// "3.10" gains a patch digit, "3.13.0rc1" becomes "3.13.0-rc1".
func normalizeVersion(version string) string {
	version = strings.Trim(strings.TrimSpace(version), " \"'")
	// some distro builds report "3.11.2+"
	version = strings.TrimSuffix(version, "+")

	if matches := prereleasePattern.FindStringSubmatch(version); matches != nil {
		base := matches[1]
		prerelease := matches[2]

		parts := strings.Split(base, ".")
		for len(parts) < 3 {
			parts = append(parts, "0")
		}
		return strings.Join(parts, ".") + "-" + strings.TrimPrefix(prerelease, "-")
	}

	parts := strings.Split(version, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts, ".")
}
