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
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ai-keynote/keynote-cli/pkg/util"
)

var (
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	titleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99"))

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("99")).
				Bold(true)

	regularItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

type keyPickModel struct {
	keys     []string
	values   map[string]string
	cursor   int
	selected map[string]bool
	quitting bool
}

func newKeyPickModel(env map[string]string) keyPickModel {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keyPickModel{
		keys:     keys,
		values:   env,
		selected: make(map[string]bool),
	}
}

func (m keyPickModel) Init() tea.Cmd {
	return nil
}

func (m keyPickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.keys)-1 {
				m.cursor++
			}
		case " ":
			key := m.keys[m.cursor]
			m.selected[key] = !m.selected[key]
		case "enter":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m keyPickModel) View() string {
	var b strings.Builder

	b.WriteString(titleText.Render("Select values to reveal (space to toggle, enter to confirm)") + "\n")

	for i, key := range m.keys {
		cursor := " "
		if m.cursor == i {
			cursor = cursorStyle.Render("→")
		}

		checkbox := "[" + cursorStyle.Render(" ") + "]"
		if m.selected[key] {
			checkbox = "[" + cursorStyle.Render("×") + "]"
		}

		label := key + ": " + util.MaskSecret(m.values[key])
		item := regularItemStyle.Render(label)
		if m.cursor == i {
			item = selectedItemStyle.Render(label)
		}

		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, checkbox, item))
	}

	b.WriteString("\n" + footerStyle.Render("Press q to quit"))

	return b.String()
}

// SelectEnvKeys shows a checkbox picker over env and returns the subset of
// entries the operator chose. Returns an error when the picker is
// cancelled so callers never reveal values by accident.
func SelectEnvKeys(env map[string]string) (map[string]string, error) {
	p := tea.NewProgram(newKeyPickModel(env))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	m := finalModel.(keyPickModel)
	if m.quitting {
		return nil, fmt.Errorf("selection cancelled")
	}

	chosen := make(map[string]string)
	for k, v := range env {
		if m.selected[k] {
			chosen[k] = v
		}
	}
	return chosen, nil
}
