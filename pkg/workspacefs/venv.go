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
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ai-keynote/keynote-cli/pkg/util"
)

// Venv is a Python virtual environment rooted at a directory. The marker
// file pyvenv.cfg distinguishes a real environment from a directory that
// merely shares its name.
type Venv struct {
	Root string
}

// NewVenv resolves venvDir against workDir unless it is already absolute.
func NewVenv(workDir, venvDir string) Venv {
	if filepath.IsAbs(venvDir) {
		return Venv{Root: venvDir}
	}
	return Venv{Root: filepath.Join(workDir, venvDir)}
}

// Exists reports whether Root holds a usable virtual environment.
func (v Venv) Exists() bool {
	return util.FileExists(v.Root, "pyvenv.cfg")
}

// DirPresent reports whether Root exists at all, venv or not. Callers use
// the combination of DirPresent and Exists to refuse clobbering a foreign
// directory.
func (v Venv) DirPresent() bool {
	return util.DirExists(v.Root)
}

// BinDir returns the scripts directory of the environment.
func (v Venv) BinDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.Root, "Scripts")
	}
	return filepath.Join(v.Root, "bin")
}

// Python returns the path of the environment's interpreter. Every install
// runs through this binary so packages never land in the global
// site-packages.
func (v Venv) Python() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.BinDir(), "python.exe")
	}
	return filepath.Join(v.BinDir(), "python")
}

// ActivateCommand returns the shell line an operator types to enter the
// environment.
func (v Venv) ActivateCommand() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.Root, "Scripts", "activate")
	}
	return "source " + filepath.Join(v.Root, "bin", "activate")
}

// Cfg parses pyvenv.cfg into a key/value map. The file format is a flat
// list of "key = value" lines written by the venv module.
func (v Venv) Cfg() (map[string]string, error) {
	f, err := os.Open(filepath.Join(v.Root, "pyvenv.cfg"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		cfg[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return cfg, scanner.Err()
}

// PythonVersion reads the interpreter version recorded in pyvenv.cfg,
// or "" when the file does not carry one.
func (v Venv) PythonVersion() string {
	cfg, err := v.Cfg()
	if err != nil {
		return ""
	}
	if version, ok := cfg["version"]; ok {
		return version
	}
	// newer CPython writes version_info instead
	return cfg["version_info"]
}
