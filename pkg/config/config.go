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
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ai-keynote/keynote-cli/pkg/util"
)

// CLIConfig is the user-level registry of bot checkouts, stored in
// ~/.keynote/cli-config.yaml.
type CLIConfig struct {
	DefaultWorkspace string            `yaml:"default_workspace"`
	Workspaces       []WorkspaceConfig `yaml:"workspaces"`
	// absent from YAML
	hasPersisted bool
}

type WorkspaceConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

func LoadDefaultWorkspace() (*WorkspaceConfig, error) {
	conf, err := LoadOrCreate()
	if err != nil {
		return nil, err
	}

	if conf.DefaultWorkspace != "" {
		for _, w := range conf.Workspaces {
			if w.Name == conf.DefaultWorkspace {
				return &w, nil
			}
		}
	}

	return nil, errors.New("no default workspace set")
}

func LoadWorkspace(name string) (*WorkspaceConfig, error) {
	conf, err := LoadOrCreate()
	if err != nil {
		return nil, err
	}

	for _, w := range conf.Workspaces {
		if w.Name == name {
			return &w, nil
		}
	}

	return nil, errors.New("workspace not found")
}

// LoadOrCreate loads config file from ~/.keynote/cli-config.yaml
// if it doesn't exist, it'll return an empty config file
func LoadOrCreate() (*CLIConfig, error) {
	configPath, err := getConfigLocation()
	if err != nil {
		return nil, err
	}

	c := &CLIConfig{}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return c, nil
	} else if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(content, c)
	if err != nil {
		return nil, err
	}
	c.hasPersisted = true

	return c, nil
}

func (c *CLIConfig) WorkspaceExists(name string) bool {
	for _, w := range c.Workspaces {
		if strings.EqualFold(w.Name, name) {
			return true
		}
	}
	return false
}

func (c *CLIConfig) RemoveWorkspace(name string) error {
	var newWorkspaces []WorkspaceConfig
	for _, w := range c.Workspaces {
		if w.Name == name {
			continue
		}
		newWorkspaces = append(newWorkspaces, w)
	}
	if len(newWorkspaces) == len(c.Workspaces) {
		return errors.New("workspace not found")
	}
	c.Workspaces = newWorkspaces

	if c.DefaultWorkspace == name {
		c.DefaultWorkspace = ""
	}

	if err := c.PersistIfNeeded(); err != nil {
		return err
	}

	fmt.Println("Removed workspace", name)
	return nil
}

func (c *CLIConfig) PersistIfNeeded() error {
	if len(c.Workspaces) == 0 && !c.hasPersisted {
		// doesn't need to be persisted
		return nil
	}

	configPath, err := getConfigLocation()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(path.Dir(configPath), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err = os.WriteFile(configPath, data, 0600); err != nil {
		return err
	}
	fmt.Printf("Saved CLI config to [%s]\n", util.Accented(configPath))
	c.hasPersisted = true
	return nil
}

func getConfigLocation() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return path.Join(dir, ".keynote", "cli-config.yaml"), nil
}
