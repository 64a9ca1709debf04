package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PackageKey is the parsed form of a package reference string: an optional
// repository prefix, the bare ID, and an optional version suffix.
type PackageKey struct {
	Repository string
	ID         string
	Version    string
}

// ParsePackageKey parses a reference string like "modrinth:sodium@1.2.3".
// Both the repository prefix and the version suffix are optional.
func ParsePackageKey(s string) PackageKey {
	idAndRepo, version, _ := strings.Cut(s, "@")

	var repo, id string
	if i := strings.Index(idAndRepo, ":"); i >= 0 {
		repo, id = idAndRepo[:i], idAndRepo[i+1:]
	} else {
		id = idAndRepo
	}

	return PackageKey{Repository: repo, ID: id, Version: version}
}

func (k PackageKey) String() string {
	var b strings.Builder
	if k.Repository != "" {
		b.WriteString(k.Repository)
		b.WriteString(":")
	}
	b.WriteString(k.ID)
	if k.Version != "" {
		b.WriteString("@")
		b.WriteString(k.Version)
	}
	return b.String()
}

// PackageRef is one configured package: on disk either a bare reference
// string or an object carrying the reference under "id" plus additional
// per-package options, which are preserved verbatim.
type PackageRef struct {
	ID     string
	Fields map[string]json.RawMessage
}

// Ref returns a PackageRef for a reference string.
func Ref(id string) PackageRef {
	return PackageRef{ID: id}
}

// Key returns the parsed reference of the package.
func (p PackageRef) Key() PackageKey {
	return ParsePackageKey(p.ID)
}

func (p *PackageRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*p = PackageRef{ID: id}
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("expected a package string or object")
	}

	raw, ok := fields["id"]
	if !ok {
		return fmt.Errorf("package object is missing an id")
	}
	delete(fields, "id")
	if err := json.Unmarshal(raw, &id); err != nil {
		return fmt.Errorf("package id: %w", err)
	}

	*p = PackageRef{ID: id, Fields: fields}
	return nil
}

func (p PackageRef) MarshalJSON() ([]byte, error) {
	if len(p.Fields) == 0 {
		return json.Marshal(p.ID)
	}

	out := make(map[string]json.RawMessage, len(p.Fields)+1)
	for k, v := range p.Fields {
		out[k] = v
	}
	raw, err := json.Marshal(p.ID)
	if err != nil {
		return nil, err
	}
	out["id"] = raw
	return json.Marshal(out)
}

// Location says which partition a package operation targets.
type Location string

const (
	LocationAll    Location = "all"
	LocationClient Location = "client"
	LocationServer Location = "server"
)

// ParseLocation parses a location string.
func ParseLocation(s string) (Location, error) {
	switch Location(s) {
	case LocationAll, LocationClient, LocationServer:
		return Location(s), nil
	default:
		return "", fmt.Errorf("invalid package location %q: must be all, client, or server", s)
	}
}

// Packages holds a record's package lists. On disk it is either a flat list
// applying everywhere or an object partitioned into global/client/server
// lists. Most configs never need side-specific packages, so the flat form is
// the common case and partitioned configs that lose their side-specific
// entries collapse back to it on combine.
type Packages struct {
	Partitioned bool
	Global      []PackageRef
	Client      []PackageRef
	Server      []PackageRef
}

// IsZero reports whether no packages are configured and the flat form is in
// effect.
func (p Packages) IsZero() bool {
	return !p.Partitioned && len(p.Global) == 0 && len(p.Client) == 0 && len(p.Server) == 0
}

func (p *Packages) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var flat []PackageRef
		if err := json.Unmarshal(data, &flat); err != nil {
			return err
		}
		*p = Packages{Global: flat}
		return nil
	}

	var full struct {
		Global []PackageRef `json:"global"`
		Client []PackageRef `json:"client"`
		Server []PackageRef `json:"server"`
	}
	if err := json.Unmarshal(data, &full); err != nil {
		return fmt.Errorf("expected a package list or a {global, client, server} object")
	}
	*p = Packages{
		Partitioned: true,
		Global:      full.Global,
		Client:      full.Client,
		Server:      full.Server,
	}
	return nil
}

func (p Packages) MarshalJSON() ([]byte, error) {
	if !p.Partitioned {
		return json.Marshal(emptyNotNil(p.Global))
	}

	full := struct {
		Global []PackageRef `json:"global"`
		Client []PackageRef `json:"client"`
		Server []PackageRef `json:"server"`
	}{emptyNotNil(p.Global), emptyNotNil(p.Client), emptyNotNil(p.Server)}
	return json.Marshal(full)
}

func emptyNotNil(list []PackageRef) []PackageRef {
	if list == nil {
		return []PackageRef{}
	}
	return list
}

// Merge merges another package set into this one, with the other side's
// entries appended. Merging a partitioned set into a flat one converts the
// result to partitioned form.
func (p *Packages) Merge(other Packages) {
	p.Global = append(p.Global, other.Global...)
	p.Client = append(p.Client, other.Client...)
	p.Server = append(p.Server, other.Server...)
	p.Partitioned = p.Partitioned || other.Partitioned
}

// SplitPackages normalizes a record's package field into its three
// partitions. Missing partitions come back as empty lists. The returned
// slices are copies; mutate the record through AddPackage and RemovePackage.
func SplitPackages(r *Record) (global, client, server []PackageRef) {
	global = append([]PackageRef{}, r.Packages.Global...)
	client = append([]PackageRef{}, r.Packages.Client...)
	server = append([]PackageRef{}, r.Packages.Server...)
	return global, client, server
}

// CombinePackages is the inverse of SplitPackages. Instances always collapse
// to the flat form; templates collapse to it only when both side-specific
// lists are empty.
func CombinePackages(global, client, server []PackageRef, isInstance bool) Packages {
	if isInstance {
		flat := append([]PackageRef{}, global...)
		flat = append(flat, client...)
		flat = append(flat, server...)
		return Packages{Global: flat}
	}

	if len(client) == 0 && len(server) == 0 {
		return Packages{Global: append([]PackageRef{}, global...)}
	}

	return Packages{
		Partitioned: true,
		Global:      append([]PackageRef{}, global...),
		Client:      append([]PackageRef{}, client...),
		Server:      append([]PackageRef{}, server...),
	}
}

// AddPackage puts a package into the record's package set at the given
// location, replacing any existing entry in the target partition that has
// the same bare ID. Matching ignores the repository prefix and the version
// suffix, so re-adding a package from another repository or at another
// version replaces the previous entry.
//
// LocationAll targets the global partition (the flat list when the set is
// flat). The side locations force the set into partitioned form, moving a
// prior flat list under global.
func AddPackage(r *Record, ref PackageRef, loc Location) {
	p := &r.Packages

	if loc != LocationAll && !p.Partitioned {
		p.Partitioned = true
	}

	id := ref.Key().ID
	switch loc {
	case LocationClient:
		p.Client = append(removeByID(p.Client, id), ref)
	case LocationServer:
		p.Server = append(removeByID(p.Server, id), ref)
	default:
		p.Global = append(removeByID(p.Global, id), ref)
	}
}

// RemovePackage removes every package whose bare ID matches from the target
// partition, or from all partitions with LocationAll.
func RemovePackage(r *Record, id string, loc Location) {
	p := &r.Packages
	id = ParsePackageKey(id).ID

	switch loc {
	case LocationClient:
		p.Client = removeByID(p.Client, id)
	case LocationServer:
		p.Server = removeByID(p.Server, id)
	default:
		p.Global = removeByID(p.Global, id)
		p.Client = removeByID(p.Client, id)
		p.Server = removeByID(p.Server, id)
	}
}

func removeByID(list []PackageRef, id string) []PackageRef {
	out := list[:0]
	for _, ref := range list {
		if ref.Key().ID != id {
			out = append(out, ref)
		}
	}
	return out
}
