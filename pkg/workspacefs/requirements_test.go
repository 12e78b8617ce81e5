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
	"testing"
)

func TestReadRequirements(t *testing.T) {
	dir := t.TempDir()
	manifest := `# Telegram bot stack
aiogram==3.4.1
openai>=1.12,<2   # transcription + GPT
tavily-python
pydub[extras]~=0.25.1
python-dotenv==1.0.1 ; python_version >= "3.8"

-r requirements-dev.txt
--index-url https://pypi.org/simple
`
	path := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	reqs, err := ReadRequirements(path)
	if err != nil {
		t.Fatalf("ReadRequirements returned error: %v", err)
	}

	want := []Requirement{
		{Name: "aiogram", Spec: "==3.4.1"},
		{Name: "openai", Spec: ">=1.12,<2"},
		{Name: "tavily-python", Spec: ""},
		{Name: "pydub", Spec: "~=0.25.1"},
		{Name: "python-dotenv", Spec: "==1.0.1"},
	}
	if len(reqs) != len(want) {
		t.Fatalf("parsed %d requirements, want %d: %+v", len(reqs), len(want), reqs)
	}
	for i, w := range want {
		if reqs[i].Name != w.Name {
			t.Errorf("reqs[%d].Name = %q, want %q", i, reqs[i].Name, w.Name)
		}
		if reqs[i].Spec != w.Spec {
			t.Errorf("reqs[%d].Spec = %q, want %q", i, reqs[i].Spec, w.Spec)
		}
	}
}

func TestReadRequirementsMissing(t *testing.T) {
	if _, err := ReadRequirements(filepath.Join(t.TempDir(), "requirements.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNormalizePackageName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"python-dotenv", "python-dotenv"},
		{"Python_DotEnv", "python-dotenv"},
		{"tavily.python", "tavily-python"},
		{"a--b__c", "a-b-c"},
	}
	for _, tt := range tests {
		if got := NormalizePackageName(tt.in); got != tt.want {
			t.Errorf("NormalizePackageName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
