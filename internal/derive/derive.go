// Package derive computes inherited config values from parent templates.
//
// A record's unset fields take their effective value from its parents: the
// last listed parent is the nearest override, so parents are scanned in
// reverse order and the first defined value wins. Derivation only looks at
// fully-merged parent configs fetched from the backend; it never recurses
// past one level of "from" on the client side.
package derive

import (
	"context"
	"fmt"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/errors"
)

// TemplateSource fetches fully-merged template configs.
type TemplateSource interface {
	// TemplateConfig returns a template's full config, or nil when the
	// template does not exist.
	TemplateConfig(ctx context.Context, id string) (*config.Record, error)
	// BaseTemplate returns the implicit base template's config.
	BaseTemplate(ctx context.Context) (*config.Record, error)
}

// ParentConfigs resolves the parent configs a record inherits from, in the
// order listed (first listed first). The base template never has parents;
// an empty parent list means the single implicit base template parent. Any
// missing template or failed fetch aborts the whole resolution.
func ParentConfigs(ctx context.Context, src TemplateSource, from []string, mode config.Mode) ([]*config.Record, error) {
	if mode == config.ModeBaseTemplate {
		return nil, nil
	}

	if len(from) == 0 {
		base, err := src.BaseTemplate(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch base template: %w", err)
		}
		if base == nil {
			base = &config.Record{}
		}
		return []*config.Record{base}, nil
	}

	parents := make([]*config.Record, 0, len(from))
	for _, id := range from {
		parent, err := src.TemplateConfig(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch parent template %s: %w", id, err)
		}
		if parent == nil {
			return nil, errors.TemplateNotFound(id)
		}
		parents = append(parents, parent)
	}

	return parents, nil
}

// Value scans parents from last to first and returns the first value the
// accessor reports as defined. The bool result is false when no parent
// defines the field.
func Value[T any](parents []*config.Record, accessor func(*config.Record) (T, bool)) (T, bool) {
	for i := len(parents) - 1; i >= 0; i-- {
		if v, ok := accessor(parents[i]); ok {
			return v, true
		}
	}

	var zero T
	return zero, false
}

// Accessors for the fields the configuration UI derives hints for.

// Version reads a record's Minecraft version.
func Version(r *config.Record) (string, bool) {
	return r.Version, r.Version != ""
}

// Side reads a record's instance side.
func Side(r *config.Record) (config.Side, bool) {
	return r.Side, r.Side != ""
}

// Loader returns an accessor reading the loader configured for a side.
func Loader(side config.Side) func(*config.Record) (string, bool) {
	return func(r *config.Record) (string, bool) {
		if r.Loader == nil {
			return "", false
		}
		l := r.Loader.Get(side)
		return l, l != ""
	}
}

// Memory reads a record's JVM memory setting.
func Memory(r *config.Record) (config.Memory, bool) {
	if r.Launch == nil || r.Launch.Memory.IsZero() {
		return config.Memory{}, false
	}
	return r.Launch.Memory, true
}

// Java reads a record's Java selection.
func Java(r *config.Record) (string, bool) {
	if r.Launch == nil || r.Launch.Java == "" {
		return "", false
	}
	return r.Launch.Java, true
}

// DatapackFolder reads a record's global datapack folder.
func DatapackFolder(r *config.Record) (string, bool) {
	return r.DatapackFolder, r.DatapackFolder != ""
}

// Icon reads a record's icon path.
func Icon(r *config.Record) (string, bool) {
	return r.Icon, r.Icon != ""
}
