package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/errors"
	"github.com/Nitrolaunch/nitroctl/internal/events"
)

type writeCall struct {
	mode config.Mode
	id   string
	rec  *config.Record
}

type spyBackend struct {
	editable  map[string]*config.Record
	full      map[string]*config.Record
	templates map[string]*config.Record
	base      *config.Record
	writes    []writeCall
	writeErr  error
}

func (b *spyBackend) Config(ctx context.Context, mode config.Mode, id string) (*config.Record, error) {
	if mode == config.ModeBaseTemplate {
		return b.base, nil
	}
	if rec, ok := b.full[id]; ok {
		return rec, nil
	}
	return b.editable[id], nil
}

func (b *spyBackend) EditableConfig(ctx context.Context, mode config.Mode, id string) (*config.Record, error) {
	if mode == config.ModeBaseTemplate {
		return b.base, nil
	}
	return b.editable[id], nil
}

func (b *spyBackend) WriteConfig(ctx context.Context, mode config.Mode, id string, rec *config.Record) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	stored, err := rec.Clone()
	if err != nil {
		return err
	}
	b.writes = append(b.writes, writeCall{mode: mode, id: id, rec: stored})
	if mode == config.ModeBaseTemplate {
		b.base = stored
	} else {
		b.editable[id] = stored
	}
	return nil
}

func (b *spyBackend) TemplateConfig(ctx context.Context, id string) (*config.Record, error) {
	return b.templates[id], nil
}

func (b *spyBackend) BaseTemplate(ctx context.Context) (*config.Record, error) {
	return b.base, nil
}

func newBackend() *spyBackend {
	return &spyBackend{
		editable: map[string]*config.Record{
			"survival": {
				Side:    config.SideClient,
				Version: "1.20.4",
				Extra: map[string]json.RawMessage{
					"plugin_setting": json.RawMessage(`{"enabled":true}`),
				},
			},
		},
		full:      map[string]*config.Record{},
		templates: map[string]*config.Record{},
		base:      &config.Record{Version: "1.20.1"},
	}
}

func TestOpenMissingInstance(t *testing.T) {
	backend := newBackend()
	_, err := Open(context.Background(), backend, nil, config.ModeInstance, "nope")
	if err == nil {
		t.Fatal("expected error for missing instance")
	}
	if code := errors.GetExitCode(err); code != errors.ExitInstanceNotFound {
		t.Errorf("exit code = %d, want %d", code, errors.ExitInstanceNotFound)
	}
}

func TestOpenInvalidID(t *testing.T) {
	backend := newBackend()
	_, err := Open(context.Background(), backend, nil, config.ModeInstance, "bad id!")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if code := errors.GetExitCode(err); code != errors.ExitValidation {
		t.Errorf("exit code = %d, want %d", code, errors.ExitValidation)
	}
}

func TestMutatorsMarkDirty(t *testing.T) {
	backend := newBackend()
	s, err := Open(context.Background(), backend, nil, config.ModeInstance, "survival")
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != Clean {
		t.Fatalf("state after open = %v, want Clean", s.State())
	}

	s.SetVersion("1.21")
	if s.State() != Dirty {
		t.Errorf("state after SetVersion = %v, want Dirty", s.State())
	}
	if s.Record().Version != "1.21" {
		t.Errorf("Version = %q, want %q", s.Record().Version, "1.21")
	}
}

func TestSaveRoundTripPreservesExtraKeys(t *testing.T) {
	backend := newBackend()
	bus := &events.Bus{}
	s, err := Open(context.Background(), backend, bus, config.ModeInstance, "survival")
	if err != nil {
		t.Fatal(err)
	}

	s.SetVersion("1.21")
	s.SetMemory("2g", "4g")

	if err := s.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.State() != Clean {
		t.Errorf("state after save = %v, want Clean", s.State())
	}
	if len(backend.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(backend.writes))
	}

	written := backend.writes[0].rec
	if written.Version != "1.21" {
		t.Errorf("written Version = %q, want %q", written.Version, "1.21")
	}
	want := map[string]json.RawMessage{
		"plugin_setting": json.RawMessage(`{"enabled":true}`),
	}
	if diff := cmp.Diff(want, written.Extra); diff != "" {
		t.Errorf("written Extra mismatch (-want +got):\n%s", diff)
	}
}

func TestSavePublishesChange(t *testing.T) {
	backend := newBackend()
	bus := &events.Bus{}
	var got []events.Change
	bus.Subscribe(func(c events.Change) { got = append(got, c) })

	s, err := Open(context.Background(), backend, bus, config.ModeInstance, "survival")
	if err != nil {
		t.Fatal(err)
	}
	s.SetName("Survival World")
	if err := s.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []events.Change{{ID: "survival", Mode: config.ModeInstance}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("published changes mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveBaseTemplatePublishesNothing(t *testing.T) {
	backend := newBackend()
	bus := &events.Bus{}
	published := 0
	bus.Subscribe(func(events.Change) { published++ })

	s, err := Open(context.Background(), backend, bus, config.ModeBaseTemplate, "")
	if err != nil {
		t.Fatal(err)
	}
	s.SetVersion("1.21")
	if err := s.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	if published != 0 {
		t.Errorf("published %d changes for base template save, want 0", published)
	}
	if backend.base.Version != "1.21" {
		t.Errorf("base Version = %q, want %q", backend.base.Version, "1.21")
	}
}

func TestSaveRefusesPluginOwned(t *testing.T) {
	backend := newBackend()
	backend.editable["survival"].FromPlugin = true

	s, err := Open(context.Background(), backend, nil, config.ModeInstance, "survival")
	if err != nil {
		t.Fatal(err)
	}
	s.SetVersion("1.21")

	err = s.Save(context.Background())
	if err == nil {
		t.Fatal("expected plugin-owned save to fail")
	}
	if code := errors.GetExitCode(err); code != errors.ExitPluginOwned {
		t.Errorf("exit code = %d, want %d", code, errors.ExitPluginOwned)
	}
	if len(backend.writes) != 0 {
		t.Errorf("backend received %d writes, want 0", len(backend.writes))
	}
	if s.State() != Dirty {
		t.Errorf("state = %v, want Dirty", s.State())
	}
}

func TestSaveFailureStaysDirty(t *testing.T) {
	backend := newBackend()
	backend.writeErr = errors.BridgeError("write_instance_config", context.DeadlineExceeded)

	s, err := Open(context.Background(), backend, nil, config.ModeInstance, "survival")
	if err != nil {
		t.Fatal(err)
	}
	s.SetVersion("1.21")

	if err := s.Save(context.Background()); err == nil {
		t.Fatal("expected save to fail")
	}
	if s.State() != Dirty {
		t.Errorf("state after failed save = %v, want Dirty", s.State())
	}
	if s.Record().Version != "1.21" {
		t.Errorf("working copy lost edit, Version = %q", s.Record().Version)
	}

	backend.writeErr = nil
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if s.State() != Clean {
		t.Errorf("state after retry = %v, want Clean", s.State())
	}
}

func TestSaveFailureWithoutEditsStaysClean(t *testing.T) {
	backend := newBackend()
	backend.writeErr = errors.BridgeError("write_instance_config", context.DeadlineExceeded)

	s, err := Open(context.Background(), backend, nil, config.ModeInstance, "survival")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Save(context.Background()); err == nil {
		t.Fatal("expected save to fail")
	}
	if s.State() != Clean {
		t.Errorf("state after failed no-op save = %v, want Clean", s.State())
	}
}

func TestValidateRequiresSideAndVersion(t *testing.T) {
	backend := newBackend()
	backend.editable["bare"] = &config.Record{}

	s, err := Open(context.Background(), backend, nil, config.ModeInstance, "bare")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Save(context.Background()); err == nil {
		t.Fatal("expected validation to fail")
	} else if code := errors.GetExitCode(err); code != errors.ExitValidation {
		t.Errorf("exit code = %d, want %d", code, errors.ExitValidation)
	}
	if len(backend.writes) != 0 {
		t.Errorf("backend received %d writes, want 0", len(backend.writes))
	}

	s.SetSide(config.SideServer)
	s.SetVersion("1.21")
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("save after fixing fields: %v", err)
	}
}

func TestValidateRejectsBadMemory(t *testing.T) {
	backend := newBackend()
	s, err := Open(context.Background(), backend, nil, config.ModeInstance, "survival")
	if err != nil {
		t.Fatal(err)
	}
	s.SetMemory("lots", "lots")

	if err := s.Save(context.Background()); err == nil {
		t.Fatal("expected bad memory value to fail validation")
	} else if code := errors.GetExitCode(err); code != errors.ExitValidation {
		t.Errorf("exit code = %d, want %d", code, errors.ExitValidation)
	}
}

func TestDerivedHints(t *testing.T) {
	backend := newBackend()
	backend.templates["fabric-base"] = &config.Record{
		Version: "1.20.1",
		Loader:  &config.Loaders{Client: "fabric", Server: "fabric"},
	}
	backend.templates["perf"] = &config.Record{
		Launch: &config.Launch{Java: "adoptium"},
	}
	backend.editable["modded"] = &config.Record{
		Side: config.SideClient,
		From: config.StringList{"fabric-base", "perf"},
	}

	s, err := Open(context.Background(), backend, nil, config.ModeInstance, "modded")
	if err != nil {
		t.Fatal(err)
	}

	if v, ok := s.DerivedVersion(); !ok || v != "1.20.1" {
		t.Errorf("DerivedVersion = %q, %v; want %q, true", v, ok, "1.20.1")
	}
	if l, ok := s.DerivedLoader(config.SideClient); !ok || l != "fabric" {
		t.Errorf("DerivedLoader = %q, %v; want %q, true", l, ok, "fabric")
	}
	if j, ok := s.DerivedJava(); !ok || j != "adoptium" {
		t.Errorf("DerivedJava = %q, %v; want %q, true", j, ok, "adoptium")
	}

	// Local value takes precedence over the derived one.
	if v, ok := s.EffectiveVersion(); !ok || v != "1.20.1" {
		t.Errorf("EffectiveVersion = %q, %v; want derived %q", v, ok, "1.20.1")
	}
	s.SetVersion("1.21")
	if v, _ := s.EffectiveVersion(); v != "1.21" {
		t.Errorf("EffectiveVersion after set = %q, want %q", v, "1.21")
	}
}

func TestSetFromReresolvesParents(t *testing.T) {
	backend := newBackend()
	backend.templates["fabric-base"] = &config.Record{Version: "1.20.1"}

	s, err := Open(context.Background(), backend, nil, config.ModeInstance, "survival")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SetFrom(context.Background(), []string{"fabric-base"}); err != nil {
		t.Fatal(err)
	}
	if len(s.Parents()) != 1 {
		t.Fatalf("parents = %d, want 1", len(s.Parents()))
	}
	if s.State() != Dirty {
		t.Errorf("state = %v, want Dirty", s.State())
	}

	// An unknown template aborts and leaves the list unchanged.
	if err := s.SetFrom(context.Background(), []string{"missing"}); err == nil {
		t.Fatal("expected error for unknown template")
	}
	if got := []string(s.Record().From); !cmp.Equal(got, []string{"fabric-base"}) {
		t.Errorf("From = %v, want [fabric-base]", got)
	}
}

func TestEditIsolatedUntilSave(t *testing.T) {
	backend := newBackend()
	s, err := Open(context.Background(), backend, nil, config.ModeInstance, "survival")
	if err != nil {
		t.Fatal(err)
	}

	s.SetVersion("1.21")
	if backend.editable["survival"].Version != "1.20.4" {
		t.Error("edit leaked into backend record before save")
	}
}
