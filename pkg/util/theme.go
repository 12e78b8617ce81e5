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

package util

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	Theme = func() *huh.Theme {
		t := huh.ThemeBase16()
		t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("7")).Background(lipgloss.Color("5"))
		t.Focused.TextInput.Cursor.Foreground(lipgloss.Color("5"))
		return t
	}()

	Accented = func(text string) string {
		return Theme.Focused.Title.Render(text)
	}
	Dimmed = func(text string) string {
		return Theme.Focused.Description.Render(text)
	}

	Fg = lipgloss.AdaptiveColor{Light: "235", Dark: "252"}

	BaseStyle     = Theme.Form.Base.Foreground(Fg).Padding(0, 1)
	HeaderStyle   = BaseStyle.Bold(true)
	SelectedStyle = Theme.Focused.Title.Padding(0, 1)

	SuccessFg = lipgloss.AdaptiveColor{Light: "#036D26", Dark: "#06DB4D"}
	WarnFg    = lipgloss.AdaptiveColor{Light: "#DB9406", Dark: "#F9B11F"}
	ErrorFg   = lipgloss.AdaptiveColor{Light: "#CE4A3B", Dark: "#FF6352"}

	successStyle = lipgloss.NewStyle().Foreground(SuccessFg)
	warnStyle    = lipgloss.NewStyle().Foreground(WarnFg)
	errorStyle   = lipgloss.NewStyle().Foreground(ErrorFg)
)

func Success(text string) string {
	return successStyle.Render(text)
}

func Warning(text string) string {
	return warnStyle.Render(text)
}

func Error(text string) string {
	return errorStyle.Render(text)
}
