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
	"testing"
)

const fakeOldPython = `#!/bin/sh
echo "Python 3.9.1"
exit 0
`

func TestFindInterpreterPrefersPython3(t *testing.T) {
	fakeToolDir(t, map[string]string{
		"python3": fakePython,
		"python":  fakeOldPython,
	})

	interp, probe := FindInterpreter(context.Background(), "")
	if interp == nil {
		t.Fatalf("no interpreter found: %+v", probe)
	}
	if interp.Path != "python3" {
		t.Errorf("Path = %q, want python3 to win over python", interp.Path)
	}
	if interp.Version != "3.11.4" {
		t.Errorf("Version = %q", interp.Version)
	}
}

func TestFindInterpreterFallsBackToPython(t *testing.T) {
	fakeToolDir(t, map[string]string{"python": fakeOldPython})

	interp, _ := FindInterpreter(context.Background(), "")
	if interp == nil {
		t.Fatal("plain python should be found when python3 is absent")
	}
	if interp.Path != "python" || interp.Version != "3.9.1" {
		t.Errorf("got %+v", interp)
	}
}

func TestFindInterpreterExplicitOverride(t *testing.T) {
	fakeToolDir(t, map[string]string{
		"python3":   fakeOldPython,
		"python312": fakePython,
	})

	interp, _ := FindInterpreter(context.Background(), "python312")
	if interp == nil || interp.Path != "python312" {
		t.Fatalf("explicit interpreter not honored: %+v", interp)
	}

	// a broken override must not fall back to PATH candidates
	interp, probe := FindInterpreter(context.Background(), "python313")
	if interp != nil {
		t.Fatalf("missing override should fail, found %+v", interp)
	}
	if probe.Kind != ToolMissing {
		t.Errorf("probe kind = %s, want missing", probe.Kind)
	}
	if probe.Tool != "python313" {
		t.Errorf("probe should name the override, got %q", probe.Tool)
	}
}
