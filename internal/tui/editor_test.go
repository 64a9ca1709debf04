package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/session"
)

// fakeBackend is a minimal session backend for editor tests.
type fakeBackend struct {
	records   map[string]*config.Record
	templates map[string]*config.Record
	writes    int
}

func (b *fakeBackend) Config(ctx context.Context, mode config.Mode, id string) (*config.Record, error) {
	return b.records[id], nil
}

func (b *fakeBackend) EditableConfig(ctx context.Context, mode config.Mode, id string) (*config.Record, error) {
	return b.records[id], nil
}

func (b *fakeBackend) WriteConfig(ctx context.Context, mode config.Mode, id string, rec *config.Record) error {
	stored, err := rec.Clone()
	if err != nil {
		return err
	}
	b.records[id] = stored
	b.writes++
	return nil
}

func (b *fakeBackend) TemplateConfig(ctx context.Context, id string) (*config.Record, error) {
	return b.templates[id], nil
}

func (b *fakeBackend) BaseTemplate(ctx context.Context) (*config.Record, error) {
	return nil, nil
}

func openTestSession(t *testing.T, rec *config.Record) (*session.Session, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{
		records:   map[string]*config.Record{"survival": rec},
		templates: map[string]*config.Record{},
	}
	sess, err := session.Open(context.Background(), backend, nil, config.ModeInstance, "survival")
	if err != nil {
		t.Fatal(err)
	}
	return sess, backend
}

func TestNewEditorSeedsFields(t *testing.T) {
	sess, _ := openTestSession(t, &config.Record{
		Name:    "Survival World",
		Side:    config.SideClient,
		Version: "1.20.4",
		Launch: &config.Launch{
			Java:   "adoptium",
			Memory: config.Memory{Min: "2g", Max: "4g"},
		},
	})

	e := NewEditor(sess)

	if got := e.inputs[fieldName].Value(); got != "Survival World" {
		t.Errorf("name = %q, want %q", got, "Survival World")
	}
	if got := e.inputs[fieldVersion].Value(); got != "1.20.4" {
		t.Errorf("version = %q, want %q", got, "1.20.4")
	}
	if got := e.inputs[fieldJava].Value(); got != "adoptium" {
		t.Errorf("java = %q, want %q", got, "adoptium")
	}
	if got := e.inputs[fieldMemMax].Value(); got != "4g" {
		t.Errorf("max memory = %q, want %q", got, "4g")
	}
	if sideStates[e.side] != config.SideClient {
		t.Errorf("side = %q, want client", sideStates[e.side])
	}
}

func TestEditorNavigation(t *testing.T) {
	sess, _ := openTestSession(t, &config.Record{Side: config.SideClient, Version: "1.20.4"})
	e := NewEditor(sess)

	if e.cursor != fieldName {
		t.Fatalf("initial cursor = %v, want fieldName", e.cursor)
	}

	e.Update(tea.KeyMsg{Type: tea.KeyTab})
	if e.cursor != fieldVersion {
		t.Errorf("cursor after tab = %v, want fieldVersion", e.cursor)
	}

	e.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if e.cursor != fieldName {
		t.Errorf("cursor after shift+tab = %v, want fieldName", e.cursor)
	}

	// Wraps around going up from the first field
	e.Update(tea.KeyMsg{Type: tea.KeyUp})
	if e.cursor != fieldMemMax {
		t.Errorf("cursor after wrap = %v, want fieldMemMax", e.cursor)
	}
}

func TestEditorSideToggle(t *testing.T) {
	sess, _ := openTestSession(t, &config.Record{Side: config.SideClient, Version: "1.20.4"})
	e := NewEditor(sess)
	e.cursor = fieldSide

	start := e.side
	e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	if e.side == start {
		t.Error("space should cycle the side toggle")
	}

	// Cycles back around
	for i := 0; i < len(sideStates)-1; i++ {
		e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	}
	if e.side != start {
		t.Errorf("side = %d after full cycle, want %d", e.side, start)
	}
}

func TestEditorSaveAppliesFields(t *testing.T) {
	sess, backend := openTestSession(t, &config.Record{Side: config.SideClient, Version: "1.20.4"})
	e := NewEditor(sess)

	e.inputs[fieldVersion].SetValue("1.21")
	e.inputs[fieldMemMin].SetValue("2g")
	e.inputs[fieldMemMax].SetValue("4g")

	e.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if backend.writes != 1 {
		t.Fatalf("writes = %d, want 1", backend.writes)
	}
	saved := backend.records["survival"]
	if saved.Version != "1.21" {
		t.Errorf("saved Version = %q, want %q", saved.Version, "1.21")
	}
	if saved.Launch == nil || saved.Launch.Memory.Max != "4g" {
		t.Error("saved record should carry the memory setting")
	}
	if !e.Saved() {
		t.Error("Saved() should report true")
	}
	if !e.statusOK || e.status != "saved" {
		t.Errorf("status = %q (ok=%v), want saved", e.status, e.statusOK)
	}
}

func TestEditorSaveErrorShownInline(t *testing.T) {
	sess, backend := openTestSession(t, &config.Record{Side: config.SideClient, Version: "1.20.4"})
	e := NewEditor(sess)

	e.inputs[fieldMemMin].SetValue("lots")
	e.inputs[fieldMemMax].SetValue("lots")

	e.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if backend.writes != 0 {
		t.Errorf("writes = %d, want 0", backend.writes)
	}
	if e.statusOK || e.status == "" {
		t.Error("validation failure should show an error status")
	}
	if e.Saved() {
		t.Error("Saved() should report false")
	}
}

func TestEditorRefusesPluginOwned(t *testing.T) {
	sess, backend := openTestSession(t, &config.Record{
		Side:       config.SideClient,
		Version:    "1.20.4",
		FromPlugin: true,
	})
	e := NewEditor(sess)

	e.inputs[fieldVersion].SetValue("1.21")
	e.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if backend.writes != 0 {
		t.Errorf("writes = %d, want 0", backend.writes)
	}
	if e.statusOK {
		t.Error("plugin-owned save should fail")
	}

	view := e.View()
	if !strings.Contains(view, "read only") {
		t.Error("view should show the plugin read-only banner")
	}
}

func TestEditorView(t *testing.T) {
	sess, _ := openTestSession(t, &config.Record{Side: config.SideClient, Version: "1.20.4"})
	e := NewEditor(sess)

	view := e.View()
	if !strings.Contains(view, "Edit Instance - survival") {
		t.Error("view should contain the instance title")
	}
	if !strings.Contains(view, "Ctrl+S to save") {
		t.Error("view should contain the save help")
	}
	if strings.Contains(view, "*") {
		t.Error("clean session should not show the dirty marker")
	}

	sess.SetVersion("1.21")
	view = e.View()
	if !strings.Contains(view, "*") {
		t.Error("dirty session should show the dirty marker")
	}
}

func TestEditorEscQuits(t *testing.T) {
	sess, _ := openTestSession(t, &config.Record{Side: config.SideClient, Version: "1.20.4"})
	e := NewEditor(sess)

	_, cmd := e.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !e.quitting {
		t.Error("esc should quit")
	}
	if cmd == nil {
		t.Error("should return tea.Quit command")
	}
	if e.View() != "" {
		t.Error("quitting view should be empty")
	}
}

func TestDerivedPlaceholders(t *testing.T) {
	backend := &fakeBackend{
		records: map[string]*config.Record{
			"modded": {Side: config.SideClient, From: config.StringList{"fabric-base"}},
		},
		templates: map[string]*config.Record{
			"fabric-base": {
				Version: "1.20.1",
				Loader:  &config.Loaders{Client: "fabric", Server: "fabric"},
			},
		},
	}
	sess, err := session.Open(context.Background(), backend, nil, config.ModeInstance, "modded")
	if err != nil {
		t.Fatal(err)
	}

	e := NewEditor(sess)

	if got := e.inputs[fieldVersion].Placeholder; got != "inherited: 1.20.1" {
		t.Errorf("version placeholder = %q, want inherited hint", got)
	}
	if got := e.inputs[fieldLoader].Placeholder; got != "inherited: fabric" {
		t.Errorf("loader placeholder = %q, want inherited hint", got)
	}
}
