package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/session"
)

// editorField identifies a field in the config editor.
type editorField int

const (
	fieldName editorField = iota
	fieldVersion
	fieldSide
	fieldLoader
	fieldJava
	fieldMemMin
	fieldMemMax
	editorFieldCount
)

// sideStates are the values the side toggle cycles through.
var sideStates = []config.Side{"", config.SideClient, config.SideServer}

// editorStyles
var (
	editorTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				MarginBottom(1)

	editorValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	editorDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	editorErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196"))

	editorWarnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))
)

// Editor is the bubbletea model for the config edit form. It owns an edit
// session: field edits are applied to the session's working copy, and
// Ctrl+S saves through it.
type Editor struct {
	session *session.Session

	cursor editorField
	inputs map[editorField]*textinput.Model
	side   int

	status   string
	statusOK bool
	quitting bool
	saved    bool

	width  int
	height int
}

// NewEditor creates a config editor over an open session.
func NewEditor(sess *session.Session) *Editor {
	rec := sess.Record()

	inputs := make(map[editorField]*textinput.Model)
	add := func(field editorField, value, placeholder string, width int) {
		ti := textinput.New()
		ti.SetValue(value)
		ti.Placeholder = placeholder
		ti.CharLimit = 128
		ti.Width = width
		inputs[field] = &ti
	}

	add(fieldName, rec.Name, "display name", 40)
	add(fieldVersion, rec.Version, derivedHint(sess.DerivedVersion()), 20)

	loader := ""
	if rec.Loader != nil {
		loader = rec.Loader.Client
	}
	add(fieldLoader, loader, derivedHint(sess.DerivedLoader(config.SideClient)), 20)

	java := ""
	memMin, memMax := "", ""
	if rec.Launch != nil {
		java = rec.Launch.Java
		memMin = rec.Launch.Memory.Min
		memMax = rec.Launch.Memory.Max
	}
	javaHint := config.DefaultJava
	if v, ok := sess.DerivedJava(); ok {
		javaHint = "inherited: " + v
	}
	add(fieldJava, java, javaHint, 20)

	memHint := ""
	if mem, ok := sess.DerivedMemory(); ok {
		memHint = "inherited: " + mem.Min
	}
	add(fieldMemMin, memMin, memHint, 12)
	if mem, ok := sess.DerivedMemory(); ok {
		memHint = "inherited: " + mem.Max
	}
	add(fieldMemMax, memMax, memHint, 12)

	side := 0
	for i, s := range sideStates {
		if rec.Side == s {
			side = i
		}
	}

	e := &Editor{
		session: sess,
		inputs:  inputs,
		side:    side,
	}
	e.focusCurrent()
	return e
}

func derivedHint(v string, ok bool) string {
	if !ok {
		return ""
	}
	return "inherited: " + v
}

func (e *Editor) Init() tea.Cmd {
	return textinput.Blink
}

func (e *Editor) activeInput() *textinput.Model {
	return e.inputs[e.cursor]
}

func (e *Editor) focusCurrent() tea.Cmd {
	for _, ti := range e.inputs {
		ti.Blur()
	}
	if ti := e.activeInput(); ti != nil {
		ti.Focus()
		return textinput.Blink
	}
	return nil
}

func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
		return e, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			e.quitting = true
			return e, tea.Quit
		case tea.KeyCtrlS:
			e.save()
			return e, nil
		case tea.KeyUp, tea.KeyShiftTab:
			e.cursor = (e.cursor - 1 + editorFieldCount) % editorFieldCount
			return e, e.focusCurrent()
		case tea.KeyDown, tea.KeyTab, tea.KeyEnter:
			e.cursor = (e.cursor + 1) % editorFieldCount
			return e, e.focusCurrent()
		}

		if e.cursor == fieldSide {
			if msg.String() == " " {
				e.side = (e.side + 1) % len(sideStates)
			}
			return e, nil
		}

		if ti := e.activeInput(); ti != nil {
			var cmd tea.Cmd
			*ti, cmd = ti.Update(msg)
			return e, cmd
		}
	}

	return e, nil
}

// apply pushes form values into the session. Untouched fields stay
// untouched so the session only goes dirty on real changes.
func (e *Editor) apply() {
	rec := e.session.Record()

	if v := e.value(fieldName); v != rec.Name {
		e.session.SetName(v)
	}
	if v := e.value(fieldVersion); v != rec.Version {
		e.session.SetVersion(v)
	}

	if side := sideStates[e.side]; side != rec.Side {
		e.session.SetSide(side)
	}

	loader := ""
	if rec.Loader != nil {
		loader = rec.Loader.Client
	}
	if v := e.value(fieldLoader); v != loader {
		e.session.SetLoader(v, config.LocationAll)
	}

	java := ""
	memMin, memMax := "", ""
	if rec.Launch != nil {
		java = rec.Launch.Java
		memMin = rec.Launch.Memory.Min
		memMax = rec.Launch.Memory.Max
	}
	if v := e.value(fieldJava); v != java {
		e.session.SetJava(v)
	}
	min, max := e.value(fieldMemMin), e.value(fieldMemMax)
	if min != memMin || max != memMax {
		e.session.SetMemory(min, max)
	}
}

func (e *Editor) value(field editorField) string {
	return strings.TrimSpace(e.inputs[field].Value())
}

func (e *Editor) save() {
	if e.session.Record().FromPlugin {
		e.status = "this config is owned by a plugin and cannot be edited here"
		e.statusOK = false
		return
	}

	e.apply()
	if err := e.session.Save(context.Background()); err != nil {
		e.status = err.Error()
		e.statusOK = false
		return
	}
	e.status = "saved"
	e.statusOK = true
	e.saved = true
}

// Saved reports whether at least one save succeeded.
func (e *Editor) Saved() bool {
	return e.saved
}

func (e *Editor) View() string {
	if e.quitting {
		return ""
	}

	var b strings.Builder

	title := "Edit Config"
	switch e.session.Mode() {
	case config.ModeInstance:
		title = fmt.Sprintf("Edit Instance - %s", e.session.ID())
	case config.ModeTemplate:
		title = fmt.Sprintf("Edit Template - %s", e.session.ID())
	case config.ModeBaseTemplate:
		title = "Edit Base Template"
	}
	if e.session.State() == session.Dirty {
		title += " *"
	}
	b.WriteString(editorTitleStyle.Render(title))
	b.WriteString("\n")

	if e.session.Record().FromPlugin {
		b.WriteString(editorWarnStyle.Render("Provided by a plugin - read only"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(e.renderInput(fieldName, "Name", "Display name shown in the launcher"))
	b.WriteString("\n")
	b.WriteString(e.renderInput(fieldVersion, "Version", "Minecraft version, blank to inherit"))
	b.WriteString("\n")
	b.WriteString(e.renderSide())
	b.WriteString("\n")
	b.WriteString(e.renderInput(fieldLoader, "Loader", "Mod loader, like fabric or paper"))
	b.WriteString("\n")
	b.WriteString(e.renderInput(fieldJava, "Java", "auto, system, adoptium, or a path"))
	b.WriteString("\n")
	b.WriteString(e.renderInput(fieldMemMin, "Min memory", "Initial JVM heap, like 2g"))
	b.WriteString("\n")
	b.WriteString(e.renderInput(fieldMemMax, "Max memory", "Maximum JVM heap, like 4g"))
	b.WriteString("\n\n")

	if e.status != "" {
		style := editorErrorStyle
		if e.statusOK {
			style = editorValueStyle
		}
		b.WriteString(style.Render(e.status))
		b.WriteString("\n")
	}

	b.WriteString(editorDimStyle.Render("Tab/arrows to move, Ctrl+S to save, Esc to close."))

	return b.String()
}

func (e *Editor) renderInput(field editorField, name, desc string) string {
	cursor := " "
	if e.cursor == field {
		cursor = ">"
	}

	line := fmt.Sprintf("  %s %-11s %s", cursor, name+":", e.inputs[field].View())
	if e.cursor == field {
		return selectedStyle.Render(line) + "\n" + editorDimStyle.Render("      "+desc)
	}
	return line + "\n" + editorDimStyle.Render("      "+desc)
}

func (e *Editor) renderSide() string {
	cursor := " "
	if e.cursor == fieldSide {
		cursor = ">"
	}

	val := string(sideStates[e.side])
	if val == "" {
		val = "(inherit)"
		if side, ok := e.session.DerivedSide(); ok {
			val = fmt.Sprintf("(inherit: %s)", side)
		}
	}

	line := fmt.Sprintf("  %s %-11s %s", cursor, "Type:", val)
	desc := "Space to cycle client, server, or inherit"
	if e.cursor == fieldSide {
		return selectedStyle.Render(line) + "\n" + editorDimStyle.Render("      "+desc)
	}
	return line + "\n" + editorDimStyle.Render("      "+desc)
}

// RunEditor opens the interactive config editor and blocks until it
// closes. It reports whether a save happened so the caller can refresh.
func RunEditor(sess *session.Session) (bool, error) {
	p := tea.NewProgram(NewEditor(sess), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	return finalModel.(*Editor).Saved(), nil
}
