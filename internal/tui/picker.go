// Package tui provides terminal user interface components for nitroctl
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Nitrolaunch/nitroctl/internal/bridge"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionLaunch
	ActionEdit
	ActionStop
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action   Action
	Instance *bridge.Summary
}

// instanceItem implements list.Item for instance display
type instanceItem struct {
	summary bridge.Summary
}

func (i instanceItem) Title() string {
	if i.summary.Name != "" {
		return i.summary.Name
	}
	return i.summary.ID
}

func (i instanceItem) Description() string {
	statusIcon := "●"
	status := "stopped"
	if i.summary.Running {
		statusIcon = "▶"
		status = "running"
	}

	parts := []string{
		fmt.Sprintf("%s %s", statusIcon, status),
		i.summary.ID,
	}
	if i.summary.Pinned {
		parts = append(parts, "pinned")
	}
	if i.summary.Icon != "" {
		parts = append(parts, truncatePath(i.summary.Icon, 30))
	}

	return strings.Join(parts, " | ")
}

func (i instanceItem) FilterValue() string {
	return i.summary.Name + " " + i.summary.ID
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the instance picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	grouped  bool
	width    int
	height   int
}

// NewPicker creates a new instance picker
func NewPicker(instances []bridge.Summary) Model {
	items := make([]list.Item, len(instances))
	for i, inst := range instances {
		items[i] = instanceItem{summary: inst}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "Nitrolaunch - Select Instance"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{
		list: l,
	}
}

// NewGroupedPicker creates an instance picker with running and stopped
// instances in separate sections.
func NewGroupedPicker(instances []bridge.Summary) Model {
	items := buildGroupedItems(instances)

	l := list.New(items, newGroupedDelegate(), 80, 20)
	l.Title = "Nitrolaunch - Select Instance"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	m := Model{
		list:    l,
		grouped: true,
	}
	skipHeaders(&m.list, 1)
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(instanceItem); ok {
				m.result = PickerResult{
					Action:   ActionLaunch,
					Instance: &item.summary,
				}
				m.quitting = true
				return m, tea.Quit
			}

		case "c":
			if item, ok := m.list.SelectedItem().(instanceItem); ok {
				m.result = PickerResult{
					Action:   ActionEdit,
					Instance: &item.summary,
				}
				m.quitting = true
				return m, tea.Quit
			}

		case "s":
			if item, ok := m.list.SelectedItem().(instanceItem); ok && item.summary.Running {
				m.result = PickerResult{
					Action:   ActionStop,
					Instance: &item.summary,
				}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		if m.grouped {
			skipHeaders(&m.list, navigationDirection(msg))
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Launch  [c] Config  [s] Stop  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive instance picker
func RunPicker(instances []bridge.Summary) (PickerResult, error) {
	if len(instances) == 0 {
		return PickerResult{Action: ActionQuit}, nil
	}

	m := NewGroupedPicker(instances)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimplePicker is a non-interactive picker that just lists instances
func SimplePicker(instances []bridge.Summary) string {
	var sb strings.Builder

	sb.WriteString("Nitrolaunch - Instances\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(instances) == 0 {
		sb.WriteString("No instances found.\n")
		sb.WriteString("Create one with: nitroctl config set <id> <field> <value>\n")
		return sb.String()
	}

	for i, inst := range instances {
		statusIcon := "●"
		if inst.Running {
			statusIcon = "▶"
		}

		name := inst.Name
		if name == "" {
			name = inst.ID
		}

		sb.WriteString(fmt.Sprintf("%d. %s %s (%s)\n",
			i+1, statusIcon, name, inst.ID))
	}

	return sb.String()
}
