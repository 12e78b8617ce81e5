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
	"regexp"
	"runtime"
)

// ffmpeg decodes the voice messages the bot transcribes. The bot's text
// features work without it, so its absence is never fatal here.

var ffmpegVersionPattern = regexp.MustCompile(`ffmpeg version (\S+)`)

// CheckFFmpeg probes for ffmpeg on PATH.
func CheckFFmpeg(ctx context.Context) Outcome {
	return Invoke(ctx, "", "ffmpeg", "-version")
}

// FFmpegVersion extracts the version token from a probe's banner, or ""
// when the banner is unrecognizable.
func FFmpegVersion(o Outcome) string {
	matches := ffmpegVersionPattern.FindStringSubmatch(o.Stdout)
	if matches == nil {
		return ""
	}
	return matches[1]
}

// FFmpegInstallHint suggests an install command for a package manager
// actually present on this machine.
func FFmpegInstallHint() string {
	switch runtime.GOOS {
	case "darwin":
		return "brew install ffmpeg"
	case "windows":
		if CommandExists("winget") {
			return "winget install ffmpeg"
		}
		return "choco install ffmpeg"
	default:
		for _, hint := range []struct{ pm, cmd string }{
			{"apt", "sudo apt install ffmpeg"},
			{"dnf", "sudo dnf install ffmpeg"},
			{"pacman", "sudo pacman -S ffmpeg"},
		} {
			if CommandExists(hint.pm) {
				return hint.cmd
			}
		}
		return "install ffmpeg with your distro's package manager"
	}
}
