package config

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// idRegex validates instance and template IDs.
// IDs are ASCII without whitespace; the only punctuation the backend accepts
// is underscores, hyphens, dots, and colons.
var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// ValidateID checks if an instance or template ID is valid.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}

	if !idRegex.MatchString(id) {
		return fmt.Errorf("invalid id %q: must contain only ASCII letters, digits, underscores, hyphens, dots, or colons", id)
	}

	return nil
}

// Mode selects which kind of config record an operation targets.
type Mode int

const (
	ModeInstance Mode = iota
	ModeTemplate
	ModeBaseTemplate
)

func (m Mode) String() string {
	switch m {
	case ModeInstance:
		return "instance"
	case ModeTemplate:
		return "template"
	case ModeBaseTemplate:
		return "base template"
	default:
		return "unknown"
	}
}

// Side is the side of the game an instance runs.
type Side string

const (
	SideClient Side = "client"
	SideServer Side = "server"
)

// ParseSide parses a side string.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideClient, SideServer:
		return Side(s), nil
	default:
		return "", fmt.Errorf("invalid side %q: must be client or server", s)
	}
}

// Sentinel version strings resolved by the backend.
const (
	VersionLatest         = "latest"
	VersionLatestSnapshot = "latest_snapshot"
)

// StringList unmarshals from either a single string or a list of strings.
// A single element serializes back to the bare string form.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected a string or a list of strings")
	}
	*l = list
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if len(l) == 1 {
		return json.Marshal(l[0])
	}
	return json.Marshal([]string(l))
}

// Overrides are package override directives: suppressed packages are
// installed but not applied, forced packages are applied unconditionally.
type Overrides struct {
	Suppress []string `json:"suppress,omitempty"`
	Force    []string `json:"force,omitempty"`
}

func (o Overrides) isEmpty() bool {
	return len(o.Suppress) == 0 && len(o.Force) == 0
}

// Record is the declarative configuration of one instance or one template.
//
// A record read in editable form contains only locally-set fields; a record
// read in full form has inherited values already merged in by the backend.
// Keys the model does not know about are kept verbatim in Extra so that
// backend-managed and plugin-managed fields survive a read-modify-write.
type Record struct {
	// Side is the type of the instance. Required for instances once
	// inheritance is resolved, optional on templates.
	Side Side
	// Name is the display name.
	Name string
	// Icon is a path to an icon file.
	Icon string
	// From lists parent templates, nearest override last. Empty means the
	// implicit base template.
	From StringList
	// Version is a Minecraft version or one of the sentinels.
	Version string
	// Loader is the configured loader selection.
	Loader *Loaders
	// PackageStability is the default stability for packages.
	PackageStability string
	// Launch holds game launch options.
	Launch *Launch
	// DatapackFolder is the folder global datapacks install to.
	DatapackFolder string
	// Packages are the configured packages.
	Packages Packages
	// Overrides are package override directives.
	Overrides Overrides
	// FromPlugin marks records owned by a backend plugin. Plugin-owned
	// records are read-only from this client.
	FromPlugin bool
	// Extra holds every unrecognized key, preserved on round-trip.
	Extra map[string]json.RawMessage
}

// Record JSON keys known to the model. Everything else lands in Extra.
const (
	keySide             = "type"
	keyName             = "name"
	keyIcon             = "icon"
	keyFrom             = "from"
	keyVersion          = "version"
	keyLoader           = "loader"
	keyPackageStability = "package_stability"
	keyLaunch           = "launch"
	keyDatapackFolder   = "datapack_folder"
	keyPackages         = "packages"
	keyOverrides        = "overrides"
	keyFromPlugin       = "from_plugin"
)

func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = Record{}

	take := func(key string, dst any) error {
		raw, ok := fields[key]
		if !ok {
			return nil
		}
		delete(fields, key)
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		return nil
	}

	steps := []error{
		take(keySide, &r.Side),
		take(keyName, &r.Name),
		take(keyIcon, &r.Icon),
		take(keyFrom, &r.From),
		take(keyVersion, &r.Version),
		take(keyLoader, &r.Loader),
		take(keyPackageStability, &r.PackageStability),
		take(keyLaunch, &r.Launch),
		take(keyDatapackFolder, &r.DatapackFolder),
		take(keyPackages, &r.Packages),
		take(keyOverrides, &r.Overrides),
		take(keyFromPlugin, &r.FromPlugin),
	}
	for _, err := range steps {
		if err != nil {
			return err
		}
	}

	if len(fields) > 0 {
		r.Extra = fields
	}
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.Extra)+12)
	for k, v := range r.Extra {
		out[k] = v
	}

	var firstErr error
	put := func(key string, v any) {
		raw, err := json.Marshal(v)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("field %q: %w", key, err)
			}
			return
		}
		out[key] = raw
	}

	if r.Side != "" {
		put(keySide, r.Side)
	}
	if r.Name != "" {
		put(keyName, r.Name)
	}
	if r.Icon != "" {
		put(keyIcon, r.Icon)
	}
	if len(r.From) > 0 {
		put(keyFrom, r.From)
	}
	if r.Version != "" {
		put(keyVersion, r.Version)
	}
	if r.Loader != nil && !r.Loader.IsZero() {
		put(keyLoader, r.Loader)
	}
	if r.PackageStability != "" {
		put(keyPackageStability, r.PackageStability)
	}
	if r.Launch != nil && !r.Launch.IsZero() {
		put(keyLaunch, r.Launch)
	}
	if r.DatapackFolder != "" {
		put(keyDatapackFolder, r.DatapackFolder)
	}
	if !r.Packages.IsZero() {
		put(keyPackages, r.Packages)
	}
	if !r.Overrides.isEmpty() {
		put(keyOverrides, r.Overrides)
	}
	if r.FromPlugin {
		put(keyFromPlugin, true)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return json.Marshal(out)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() (*Record, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to copy record: %w", err)
	}

	var out Record
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to copy record: %w", err)
	}
	return &out, nil
}

// Merge merges another record into this one, with the other side taking
// precedence. Scalar fields are replaced when the other record sets them;
// package lists, argument lists, and environment maps are extended.
func (r *Record) Merge(other *Record) {
	if other == nil {
		return
	}

	r.From = append(r.From, other.From...)
	if other.Side != "" {
		r.Side = other.Side
	}
	if other.Name != "" {
		r.Name = other.Name
	}
	if other.Icon != "" {
		r.Icon = other.Icon
	}
	if other.Version != "" {
		r.Version = other.Version
	}
	if other.Loader != nil && !other.Loader.IsZero() {
		if r.Loader == nil {
			l := *other.Loader
			r.Loader = &l
		} else {
			r.Loader.Merge(*other.Loader)
		}
	}
	if other.PackageStability != "" {
		r.PackageStability = other.PackageStability
	}
	if other.Launch != nil {
		if r.Launch == nil {
			r.Launch = &Launch{}
		}
		r.Launch.Merge(other.Launch)
	}
	if other.DatapackFolder != "" {
		r.DatapackFolder = other.DatapackFolder
	}
	r.Packages.Merge(other.Packages)
	r.Overrides.Suppress = append(r.Overrides.Suppress, other.Overrides.Suppress...)
	r.Overrides.Force = append(r.Overrides.Force, other.Overrides.Force...)
	if len(other.Extra) > 0 {
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage, len(other.Extra))
		}
		for k, v := range other.Extra {
			r.Extra[k] = v
		}
	}
	r.FromPlugin = r.FromPlugin || other.FromPlugin
}
