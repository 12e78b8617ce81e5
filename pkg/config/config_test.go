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

import (
	"os"
	"path/filepath"
	"testing"
)

func useTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home) // windows
	return home
}

func TestLoadOrCreateEmpty(t *testing.T) {
	home := useTempHome(t)

	conf, err := LoadOrCreate()
	if err != nil {
		t.Fatalf("LoadOrCreate returned error: %v", err)
	}
	if len(conf.Workspaces) != 0 || conf.DefaultWorkspace != "" {
		t.Errorf("fresh config should be empty, got %+v", conf)
	}

	// an empty config that was never persisted stays off disk
	if err := conf.PersistIfNeeded(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(home, ".keynote", "cli-config.yaml")); !os.IsNotExist(err) {
		t.Error("empty config should not be written to disk")
	}
}

func TestPersistAndReload(t *testing.T) {
	home := useTempHome(t)

	conf, err := LoadOrCreate()
	if err != nil {
		t.Fatal(err)
	}
	conf.Workspaces = append(conf.Workspaces, WorkspaceConfig{Name: "demo", Path: "/srv/keynote-bot"})
	conf.DefaultWorkspace = "demo"
	if err := conf.PersistIfNeeded(); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(home, ".keynote", "cli-config.yaml")
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}

	reloaded, err := LoadOrCreate()
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.WorkspaceExists("demo") {
		t.Error("persisted workspace missing after reload")
	}
	if !reloaded.WorkspaceExists("DEMO") {
		t.Error("WorkspaceExists should match case-insensitively")
	}

	w, err := LoadDefaultWorkspace()
	if err != nil {
		t.Fatalf("LoadDefaultWorkspace returned error: %v", err)
	}
	if w.Path != "/srv/keynote-bot" {
		t.Errorf("default workspace path = %q", w.Path)
	}
}

func TestLoadWorkspaceNotFound(t *testing.T) {
	useTempHome(t)

	if _, err := LoadWorkspace("ghost"); err == nil {
		t.Error("expected error for unknown workspace")
	}
	if _, err := LoadDefaultWorkspace(); err == nil {
		t.Error("expected error when no default workspace is set")
	}
}

func TestRemoveWorkspace(t *testing.T) {
	useTempHome(t)

	conf, err := LoadOrCreate()
	if err != nil {
		t.Fatal(err)
	}
	conf.Workspaces = []WorkspaceConfig{
		{Name: "one", Path: "/tmp/one"},
		{Name: "two", Path: "/tmp/two"},
	}
	conf.DefaultWorkspace = "one"
	if err := conf.PersistIfNeeded(); err != nil {
		t.Fatal(err)
	}

	if err := conf.RemoveWorkspace("one"); err != nil {
		t.Fatalf("RemoveWorkspace returned error: %v", err)
	}
	if conf.WorkspaceExists("one") {
		t.Error("workspace should be gone after removal")
	}
	if conf.DefaultWorkspace != "" {
		t.Error("removing the default workspace should clear the default")
	}
	if err := conf.RemoveWorkspace("one"); err == nil {
		t.Error("removing a missing workspace should fail")
	}

	reloaded, err := LoadOrCreate()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.WorkspaceExists("one") || !reloaded.WorkspaceExists("two") {
		t.Errorf("unexpected workspaces after removal: %+v", reloaded.Workspaces)
	}
}
