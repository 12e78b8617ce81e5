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
	"bytes"
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// OutcomeKind classifies how an external tool invocation ended. A missing
// binary and a binary that ran and failed are different conditions and
// callers react differently to each.
type OutcomeKind int

const (
	ToolSucceeded OutcomeKind = iota
	ToolMissing
	ToolFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case ToolSucceeded:
		return "succeeded"
	case ToolMissing:
		return "missing"
	case ToolFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one external tool invocation.
type Outcome struct {
	Kind OutcomeKind
	// Tool is the binary as invoked, before PATH resolution.
	Tool string
	// ExitCode is the tool's exit status, meaningful when Kind is
	// ToolFailed.
	ExitCode int
	// Stdout holds the complete standard output.
	Stdout string
	// Stderr holds the tail of standard error, enough for a diagnostic
	// without flooding the terminal.
	Stderr string

	err error
}

func (o Outcome) Succeeded() bool {
	return o.Kind == ToolSucceeded
}

// Err returns the underlying error for a missing or failed invocation,
// nil on success.
func (o Outcome) Err() error {
	return o.err
}

// stderr tails are capped so a pip dependency-resolver dump stays readable
const stderrTailLimit = 2048

func tailString(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= stderrTailLimit {
		return s
	}
	return "..." + s[len(s)-stderrTailLimit:]
}

// Invoke runs tool with args in dir, capturing output. The binary is
// resolved up front so a missing tool is reported as ToolMissing rather
// than a generic spawn failure.
func Invoke(ctx context.Context, dir string, tool string, args ...string) Outcome {
	o := Outcome{Tool: tool}

	path, err := exec.LookPath(tool)
	if err != nil {
		o.Kind = ToolMissing
		o.err = errors.Wrapf(err, "%s not found", tool)
		return o
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	o.Stdout = strings.TrimSpace(stdout.String())
	o.Stderr = tailString(stderr.Bytes())
	if err == nil {
		o.Kind = ToolSucceeded
		return o
	}

	o.Kind = ToolFailed
	o.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		o.ExitCode = exitErr.ExitCode()
	}
	o.err = errors.Wrapf(err, "could not run %s", tool)
	return o
}

// Stream runs tool attached to the operator's terminal, with extraEnv
// appended to the inherited environment. Used for long-lived child
// processes whose output belongs to the operator, not to us.
func Stream(ctx context.Context, dir string, extraEnv []string, tool string, args ...string) error {
	path, err := exec.LookPath(tool)
	if err != nil {
		return errors.Wrapf(err, "%s not found", tool)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitStatusError{Code: exitErr.ExitCode(), Cause: err}
	}
	return err
}

// CommandExists determines if `cmd` is a binary in PATH or a known alias.
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return (err == nil || CommandIsAlias(cmd))
}

// CommandIsAlias determines if `cmd` is a known alias.
func CommandIsAlias(cmd string) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	out, err := exec.Command("alias", cmd).Output()
	if err != nil {
		return false
	}
	output := strings.TrimSpace(string(out))
	return strings.HasPrefix(output, cmd+"=")
}
