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
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ai-keynote/keynote-cli/pkg/logging"
	"github.com/ai-keynote/keynote-cli/pkg/util"
)

const (
	KeynoteTOMLFile = "keynote.toml"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration file")
)

// KeynoteTOML is the optional per-checkout configuration. Every field
// overrides the corresponding built-in default; absent fields keep it.
type KeynoteTOML struct {
	Setup *KeynoteTOMLSetupConfig `toml:"setup"`
	Bot   *KeynoteTOMLBotConfig   `toml:"bot"`
}

type KeynoteTOMLSetupConfig struct {
	Python       string `toml:"python"`
	MinPython    string `toml:"min_python"`
	VenvDir      string `toml:"venv_dir"`
	Requirements string `toml:"requirements"`
	TempDir      string `toml:"temp_dir"`
	EnvFile      string `toml:"env_file"`
}

type KeynoteTOMLBotConfig struct {
	Entrypoint string `toml:"entrypoint"`
	Task       string `toml:"task"`
}

func NewKeynoteTOML() *KeynoteTOML {
	return &KeynoteTOML{
		Setup: &KeynoteTOMLSetupConfig{},
		Bot:   &KeynoteTOMLBotConfig{},
	}
}

func (c *KeynoteTOML) SaveTOMLFile(dir string, tomlFileName string) error {
	f, err := os.Create(filepath.Join(dir, tomlFileName))
	if err != nil {
		return err
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("error encoding TOML: %w", err)
	}
	fmt.Printf("Saving config file [%s]\n", util.Accented(tomlFileName))
	return nil
}

func LoadTOMLFile(dir string, tomlFileName string) (*KeynoteTOML, bool, error) {
	logging.Debugw(fmt.Sprintf("loading %s file", tomlFileName))
	var config *KeynoteTOML = nil
	var err error
	var configExists bool = false

	tomlFile := filepath.Join(dir, tomlFileName)

	if _, err = os.Stat(tomlFile); err == nil {
		configExists = true
		if _, err = toml.DecodeFile(tomlFile, &config); err != nil {
			return nil, configExists, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
		}
	} else {
		configExists = !errors.Is(err, fs.ErrNotExist)
	}

	return config, configExists, err
}
