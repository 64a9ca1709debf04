// Package session manages one config edit session.
//
// A session owns a working copy of a record's editable config from the
// moment the edit UI opens until it is saved or discarded. The working copy
// starts as a deep copy of the editable record, so keys this client never
// touches (the opaque Extra remainder, plugin fields, backend-managed
// fields) ride along into the write payload untouched.
//
// Sessions are single-owner: they are not safe for concurrent use, and no
// two views share one. Other views learn about a save through the events
// bus and refetch on their own.
package session

import (
	"context"
	"fmt"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/derive"
	"github.com/Nitrolaunch/nitroctl/internal/errors"
	"github.com/Nitrolaunch/nitroctl/internal/events"
	"github.com/Nitrolaunch/nitroctl/internal/logging"
)

// Backend is the slice of the bridge a session needs.
type Backend interface {
	derive.TemplateSource
	Config(ctx context.Context, mode config.Mode, id string) (*config.Record, error)
	EditableConfig(ctx context.Context, mode config.Mode, id string) (*config.Record, error)
	WriteConfig(ctx context.Context, mode config.Mode, id string, rec *config.Record) error
}

// State is the edit session lifecycle state.
type State int

const (
	// Clean means the working copy matches what the backend has.
	Clean State = iota
	// Dirty means there are unsaved changes. Dirty persists until an
	// explicit save; there is no autosave.
	Dirty
	// Saving means a write is in flight.
	Saving
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	default:
		return "unknown"
	}
}

// Session is an open edit session for one instance or template config.
type Session struct {
	backend Backend
	bus     *events.Bus

	mode config.Mode
	id   string

	record  *config.Record
	full    *config.Record
	parents []*config.Record

	state State
}

// Open starts an edit session. It fetches the editable record, the
// backend-merged full record, and the full configs of every parent
// template. A missing id is a not-found error; the edit flow must abort
// rather than proceed on an empty record.
func Open(ctx context.Context, backend Backend, bus *events.Bus, mode config.Mode, id string) (*Session, error) {
	if mode != config.ModeBaseTemplate {
		if err := config.ValidateID(id); err != nil {
			return nil, errors.ValidationError(err.Error())
		}
	}

	editable, err := backend.EditableConfig(ctx, mode, id)
	if err != nil {
		return nil, err
	}
	if editable == nil {
		return nil, notFound(mode, id)
	}

	full, err := backend.Config(ctx, mode, id)
	if err != nil {
		return nil, err
	}

	parents, err := derive.ParentConfigs(ctx, backend, editable.From, mode)
	if err != nil {
		return nil, err
	}

	working, err := editable.Clone()
	if err != nil {
		return nil, err
	}

	logging.Debug("opened edit session", "id", id, "mode", mode.String(), "parents", len(parents))

	return &Session{
		backend: backend,
		bus:     bus,
		mode:    mode,
		id:      id,
		record:  working,
		full:    full,
		parents: parents,
		state:   Clean,
	}, nil
}

func notFound(mode config.Mode, id string) error {
	if mode == config.ModeTemplate {
		return errors.TemplateNotFound(id)
	}
	return errors.InstanceNotFound(id)
}

// Record returns the working copy. Mutate it through the setters so the
// session tracks dirtiness.
func (s *Session) Record() *config.Record { return s.record }

// Full returns the backend-merged view of the record as of the last fetch.
func (s *Session) Full() *config.Record { return s.full }

// Parents returns the resolved parent configs, first listed first.
func (s *Session) Parents() []*config.Record { return s.parents }

// State returns the session state.
func (s *Session) State() State { return s.state }

// Mode returns what kind of record is being edited.
func (s *Session) Mode() config.Mode { return s.mode }

// ID returns the record's id. Empty for the base template.
func (s *Session) ID() string { return s.id }

func (s *Session) mark() {
	s.state = Dirty
}

// SetVersion sets the Minecraft version. Empty clears the local value so
// the derived one applies.
func (s *Session) SetVersion(v string) {
	s.record.Version = v
	s.mark()
}

// SetSide sets the instance side.
func (s *Session) SetSide(side config.Side) {
	s.record.Side = side
	s.mark()
}

// SetName sets the display name.
func (s *Session) SetName(name string) {
	s.record.Name = name
	s.mark()
}

// SetIcon sets the icon path.
func (s *Session) SetIcon(icon string) {
	s.record.Icon = icon
	s.mark()
}

// SetDatapackFolder sets where datapacks install to.
func (s *Session) SetDatapackFolder(folder string) {
	s.record.DatapackFolder = folder
	s.mark()
}

// SetLoader sets the loader for one side, or both with LocationAll.
func (s *Session) SetLoader(loader string, loc config.Location) {
	if s.record.Loader == nil {
		s.record.Loader = &config.Loaders{}
	}
	switch loc {
	case config.LocationClient:
		s.record.Loader.Client = loader
	case config.LocationServer:
		s.record.Loader.Server = loader
	default:
		s.record.Loader.Client = loader
		s.record.Loader.Server = loader
	}
	s.mark()
}

// SetJava sets the Java selection.
func (s *Session) SetJava(java string) {
	s.launch().Java = java
	s.mark()
}

// SetMemory sets the JVM memory range. A single value is passed with
// min == max.
func (s *Session) SetMemory(min, max string) {
	s.launch().Memory = config.Memory{Min: min, Max: max, Single: min == max}
	s.mark()
}

// SetEnv sets one launch environment variable.
func (s *Session) SetEnv(key, value string) {
	l := s.launch()
	if l.Env == nil {
		l.Env = make(map[string]string)
	}
	l.Env[key] = value
	s.mark()
}

func (s *Session) launch() *config.Launch {
	if s.record.Launch == nil {
		s.record.Launch = &config.Launch{}
	}
	return s.record.Launch
}

// SetFrom replaces the parent template list and re-resolves parent configs.
func (s *Session) SetFrom(ctx context.Context, from []string) error {
	parents, err := derive.ParentConfigs(ctx, s.backend, from, s.mode)
	if err != nil {
		return err
	}
	s.record.From = config.StringList(from)
	s.parents = parents
	s.mark()
	return nil
}

// AddPackage adds a package to the working copy.
func (s *Session) AddPackage(ref config.PackageRef, loc config.Location) {
	config.AddPackage(s.record, ref, loc)
	s.mark()
}

// RemovePackage removes a package from the working copy.
func (s *Session) RemovePackage(id string, loc config.Location) {
	config.RemovePackage(s.record, id, loc)
	s.mark()
}

// Derived hint accessors. Each reports the value the field inherits from
// the parent chain, for display when the local value is unset.

// DerivedVersion returns the inherited Minecraft version.
func (s *Session) DerivedVersion() (string, bool) {
	return derive.Value(s.parents, derive.Version)
}

// DerivedSide returns the inherited side.
func (s *Session) DerivedSide() (config.Side, bool) {
	return derive.Value(s.parents, derive.Side)
}

// DerivedLoader returns the inherited loader for a side.
func (s *Session) DerivedLoader(side config.Side) (string, bool) {
	return derive.Value(s.parents, derive.Loader(side))
}

// DerivedJava returns the inherited Java selection.
func (s *Session) DerivedJava() (string, bool) {
	return derive.Value(s.parents, derive.Java)
}

// DerivedMemory returns the inherited memory setting.
func (s *Session) DerivedMemory() (config.Memory, bool) {
	return derive.Value(s.parents, derive.Memory)
}

// EffectiveVersion is the local version when set, the derived one
// otherwise.
func (s *Session) EffectiveVersion() (string, bool) {
	if s.record.Version != "" {
		return s.record.Version, true
	}
	return s.DerivedVersion()
}

// EffectiveSide is the local side when set, the derived one otherwise.
func (s *Session) EffectiveSide() (config.Side, bool) {
	if s.record.Side != "" {
		return s.record.Side, true
	}
	return s.DerivedSide()
}

// Validate checks the working copy before a save. Validation failures are
// field-level problems the caller should surface inline.
func (s *Session) Validate() error {
	if s.mode == config.ModeInstance {
		if _, ok := s.EffectiveSide(); !ok {
			return errors.ValidationError("instance type (client or server) is required")
		}
		if _, ok := s.EffectiveVersion(); !ok {
			return errors.ValidationError("Minecraft version is required")
		}
	}

	if s.record.Launch != nil && !s.record.Launch.Memory.IsZero() {
		mem := s.record.Launch.Memory
		for _, v := range []string{mem.Min, mem.Max} {
			if v == "" {
				continue
			}
			if _, ok := config.ParseMemoryMB(v); !ok {
				return errors.ValidationError(fmt.Sprintf("invalid memory value %q (use a b/k/m/g suffix, like 2g)", v))
			}
		}
	}

	return nil
}

// Save validates and writes the working copy, then refetches so dependent
// state reflects what the backend actually stored. A failed write restores
// the prior edit state with the working copy intact so the user can retry
// or cancel. Plugin-owned configs are refused before any backend call.
func (s *Session) Save(ctx context.Context) error {
	if s.record.FromPlugin {
		return errors.PluginOwned(s.displayID())
	}

	if err := s.Validate(); err != nil {
		return err
	}

	prev := s.state
	s.state = Saving

	if err := s.backend.WriteConfig(ctx, s.mode, s.id, s.record); err != nil {
		s.state = prev
		return err
	}

	if s.bus != nil && s.mode != config.ModeBaseTemplate {
		s.bus.Publish(events.Change{ID: s.id, Mode: s.mode})
	}

	if err := s.refresh(ctx); err != nil {
		// The write landed; a refetch failure only leaves the session
		// with stale derived state.
		logging.Warn("failed to refresh after save", "id", s.id, "error", err)
	}

	s.state = Clean
	logging.Debug("saved config", "id", s.id, "mode", s.mode.String())
	return nil
}

func (s *Session) displayID() string {
	if s.id == "" {
		return "base template"
	}
	return s.id
}

func (s *Session) refresh(ctx context.Context) error {
	editable, err := s.backend.EditableConfig(ctx, s.mode, s.id)
	if err != nil {
		return err
	}
	if editable == nil {
		return notFound(s.mode, s.id)
	}

	full, err := s.backend.Config(ctx, s.mode, s.id)
	if err != nil {
		return err
	}

	parents, err := derive.ParentConfigs(ctx, s.backend, editable.From, s.mode)
	if err != nil {
		return err
	}

	working, err := editable.Clone()
	if err != nil {
		return err
	}

	s.record = working
	s.full = full
	s.parents = parents
	return nil
}
