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
	"io"
	"os"
	"path"

	"github.com/go-task/task/v3"
	"github.com/go-task/task/v3/taskfile/ast"
	"gopkg.in/yaml.v3"
)

// Checkouts that ship a taskfile get their tasks surfaced through `kb run`.
const TaskFile = "taskfile.yaml"

const (
	TaskInstall = "install"
	TaskDev     = "dev"
)

func ParseTaskfile(rootPath string) (*ast.Taskfile, error) {
	file, err := os.ReadFile(path.Join(rootPath, TaskFile))
	if err != nil {
		return nil, err
	}
	tf := &ast.Taskfile{}
	if err := yaml.Unmarshal(file, tf); err != nil {
		return nil, err
	}
	return tf, nil
}

func NewTaskExecutor(dir string, verbose bool) *task.Executor {
	var o io.Writer = io.Discard
	var e io.Writer = os.Stderr
	if verbose {
		o = os.Stdout
	}
	return &task.Executor{
		Dir:       dir,
		Force:     false,
		ForceAll:  false,
		Insecure:  false,
		Download:  false,
		Offline:   false,
		Watch:     false,
		Verbose:   false,
		Silent:    !verbose,
		AssumeYes: false,
		Dry:       false,
		Summary:   false,
		Parallel:  false,
		Color:     true,

		Stdin:  os.Stdin,
		Stdout: o,
		Stderr: e,
	}
}

func NewTask(ctx context.Context, tf *ast.Taskfile, dir, taskName string, verbose bool) (func() error, error) {
	exe := NewTaskExecutor(dir, verbose)
	err := exe.Setup()
	if err != nil {
		return nil, err
	}

	return func() error {
		return exe.Run(ctx, &ast.Call{
			Task: taskName,
		})
	}, nil
}
