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
	"regexp"
	"slices"
	"testing"
	"time"
)

func TestEnsureWorkdir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "voice", "temp")
	if err := EnsureWorkdir(dir); err != nil {
		t.Fatalf("EnsureWorkdir returned error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("workdir not created: %v", err)
	}
	// second run is a no-op
	if err := EnsureWorkdir(dir); err != nil {
		t.Errorf("EnsureWorkdir should be idempotent: %v", err)
	}
}

func TestTempArtifactName(t *testing.T) {
	name := TempArtifactName("voice_", ".mp3")
	pattern := regexp.MustCompile(`^voice_\d{8}_\d{6}_[0-9a-f]{8}\.mp3$`)
	if !pattern.MatchString(name) {
		t.Errorf("TempArtifactName produced %q", name)
	}
	if TempArtifactName("voice_", ".mp3") == name {
		t.Error("two artifact names in a row should differ")
	}
}

func TestProbeWritable(t *testing.T) {
	dir := t.TempDir()
	if err := ProbeWritable(dir); err != nil {
		t.Fatalf("ProbeWritable returned error: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("probe file left behind: %v", entries)
	}

	if err := ProbeWritable(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error probing a missing directory")
	}
}

func TestParseSizeLimit(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"200Mi", 200 * 1024 * 1024, false},
		{"1Gi", 1024 * 1024 * 1024, false},
		{"512", 512, false},
		{"lots", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSizeLimit(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSizeLimit(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSizeLimit(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if got := HumanSize(200 * 1024 * 1024); got != "200Mi" {
		t.Errorf("HumanSize = %q, want 200Mi", got)
	}
}

func seedSweepDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := time.Now().Add(-48 * time.Hour)
	for name, age := range map[string]time.Time{
		"voice_20260820_101500_aaaaaaaa.mp3": old,
		"voice_20260820_101501_bbbbbbbb.ogg": old,
		"voice_20260823_090000_cccccccc.mp3": time.Now(),
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, make([]byte, 100), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, age, age); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, ".gitkeep"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestSweepOlderThan(t *testing.T) {
	dir := seedSweepDir(t)

	result, err := Sweep(dir, SweepOptions{OlderThan: 24 * time.Hour, Keep: []string{".gitkeep"}})
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if len(result.Removed) != 2 {
		t.Fatalf("removed %v, want 2 old clips", result.Removed)
	}
	if result.RemovedBytes != 200 {
		t.Errorf("RemovedBytes = %d, want 200", result.RemovedBytes)
	}
	if _, err := os.Stat(filepath.Join(dir, "voice_20260823_090000_cccccccc.mp3")); err != nil {
		t.Error("fresh clip should survive an age sweep")
	}
	if _, err := os.Stat(filepath.Join(dir, ".gitkeep")); err != nil {
		t.Error("kept pattern should survive every sweep")
	}
}

func TestSweepAll(t *testing.T) {
	dir := seedSweepDir(t)

	result, err := Sweep(dir, SweepOptions{All: true, Keep: []string{".gitkeep"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Removed) != 3 {
		t.Errorf("removed %v, want all 3 clips", result.Removed)
	}
	if result.KeptFiles != 1 {
		t.Errorf("KeptFiles = %d, want 1 (.gitkeep)", result.KeptFiles)
	}
}

func TestSweepMaxSize(t *testing.T) {
	dir := seedSweepDir(t)

	// 300 bytes of clips against a 150 byte budget: the two oldest go
	result, err := Sweep(dir, SweepOptions{MaxSize: 150, Keep: []string{".gitkeep"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Removed) != 2 {
		t.Fatalf("removed %v, want the two oldest clips", result.Removed)
	}
	if slices.Contains(result.Removed, "voice_20260823_090000_cccccccc.mp3") {
		t.Error("size budget should evict oldest first, not the fresh clip")
	}
}

func TestSweepDryRun(t *testing.T) {
	dir := seedSweepDir(t)

	result, err := Sweep(dir, SweepOptions{All: true, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Removed) != 4 {
		t.Errorf("dry run reported %v", result.Removed)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("dry run must not remove files, %d left", len(entries))
	}
}
