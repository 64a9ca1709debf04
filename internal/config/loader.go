package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Loaders is a per-side loader selection. On disk it is either a single
// string applying to both sides or a {client, server} object; it serializes
// back to the string form whenever both sides agree.
type Loaders struct {
	Client string
	Server string
}

// IsZero reports whether no loader is configured on either side.
func (l Loaders) IsZero() bool {
	return l.Client == "" && l.Server == ""
}

// Get returns the loader configured for a side.
func (l Loaders) Get(side Side) string {
	if side == SideServer {
		return l.Server
	}
	return l.Client
}

// Merge merges another selection into this one, per side, with the other
// side taking precedence.
func (l *Loaders) Merge(other Loaders) {
	if other.Client != "" {
		l.Client = other.Client
	}
	if other.Server != "" {
		l.Server = other.Server
	}
}

func (l *Loaders) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = Loaders{Client: single, Server: single}
		return nil
	}

	var full struct {
		Client string `json:"client"`
		Server string `json:"server"`
	}
	if err := json.Unmarshal(data, &full); err != nil {
		return fmt.Errorf("expected a loader string or a {client, server} object")
	}
	*l = Loaders{Client: full.Client, Server: full.Server}
	return nil
}

func (l Loaders) MarshalJSON() ([]byte, error) {
	if l.Client == l.Server {
		return json.Marshal(l.Client)
	}

	full := struct {
		Client string `json:"client,omitempty"`
		Server string `json:"server,omitempty"`
	}{l.Client, l.Server}
	return json.Marshal(full)
}

// LoaderRef is a parsed loader identifier with its optional version suffix.
type LoaderRef struct {
	Name    string
	Version string
}

// ParseLoader splits a loader string like "fabric@0.15.3" into its name and
// version. The version is empty when no suffix is present.
func ParseLoader(s string) LoaderRef {
	name, version, _ := strings.Cut(s, "@")
	return LoaderRef{Name: name, Version: version}
}

func (l LoaderRef) String() string {
	if l.Version == "" {
		return l.Name
	}
	return l.Name + "@" + l.Version
}
