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
	"fmt"

	"github.com/ai-keynote/keynote-cli/pkg/workspacefs"
)

// ErrNotAVenv is returned when the configured environment directory exists
// but was not created by the venv module. Clobbering it could eat real
// files, so the operator has to move it out of the way.
type ErrNotAVenv struct {
	Dir string
}

func (e *ErrNotAVenv) Error() string {
	return fmt.Sprintf("%s exists but is not a virtual environment, move it aside or pick another --venv", e.Dir)
}

// CreateEnv builds the virtual environment with the system interpreter.
// An environment that already exists is left untouched.
func CreateEnv(ctx context.Context, interp *Interpreter, venv workspacefs.Venv) Outcome {
	if venv.Exists() {
		return Outcome{Kind: ToolSucceeded, Tool: interp.Path}
	}
	if venv.DirPresent() {
		return Outcome{
			Kind: ToolFailed,
			Tool: interp.Path,
			err:  &ErrNotAVenv{Dir: venv.Root},
		}
	}
	return Invoke(ctx, "", interp.Path, "-m", "venv", venv.Root)
}
