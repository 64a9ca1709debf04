package bridge

import (
	"context"

	"github.com/Nitrolaunch/nitroctl/internal/config"
)

// Backend command names. Arguments are key-value records, results are
// JSON-serializable values; a missing instance or template comes back as a
// null result, distinct from a command error.
const (
	cmdGetInstances              = "get_instances"
	cmdGetTemplates              = "get_templates"
	cmdGetInstanceConfig         = "get_instance_config"
	cmdGetEditableInstanceConfig = "get_editable_instance_config"
	cmdGetTemplateConfig         = "get_template_config"
	cmdGetEditableTemplateConfig = "get_editable_template_config"
	cmdGetBaseTemplate           = "get_base_template"
	cmdWriteInstanceConfig       = "write_instance_config"
	cmdWriteTemplateConfig       = "write_template_config"
	cmdWriteBaseTemplate         = "write_base_template"
	cmdLaunchInstance            = "launch_instance"
	cmdStopInstance              = "stop_instance"
	cmdDeleteInstance            = "delete_instance"
	cmdDeleteTemplate            = "delete_template"
)

type idParams struct {
	ID string `json:"id"`
}

type writeParams struct {
	ID     string         `json:"id,omitempty"`
	Config *config.Record `json:"config"`
}

// Summary is one row of an instance or template listing.
type Summary struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Icon    string `json:"icon,omitempty"`
	Running bool   `json:"running,omitempty"`
	Pinned  bool   `json:"pinned,omitempty"`
}

// Instances lists instance summaries.
func (c *Client) Instances(ctx context.Context) ([]Summary, error) {
	var out []Summary
	if err := c.call(ctx, cmdGetInstances, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Templates lists template summaries.
func (c *Client) Templates(ctx context.Context) ([]Summary, error) {
	var out []Summary
	if err := c.call(ctx, cmdGetTemplates, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Config returns a fully-merged config record, with inheritance already
// resolved by the backend. A nil record means the id does not exist.
func (c *Client) Config(ctx context.Context, mode config.Mode, id string) (*config.Record, error) {
	switch mode {
	case config.ModeTemplate:
		return c.fetch(ctx, cmdGetTemplateConfig, id)
	case config.ModeBaseTemplate:
		return c.fetch(ctx, cmdGetBaseTemplate, "")
	default:
		return c.fetch(ctx, cmdGetInstanceConfig, id)
	}
}

// EditableConfig returns a config record holding only locally-set fields.
// The base template has no parents, so its editable and full forms agree.
func (c *Client) EditableConfig(ctx context.Context, mode config.Mode, id string) (*config.Record, error) {
	switch mode {
	case config.ModeTemplate:
		return c.fetch(ctx, cmdGetEditableTemplateConfig, id)
	case config.ModeBaseTemplate:
		return c.fetch(ctx, cmdGetBaseTemplate, "")
	default:
		return c.fetch(ctx, cmdGetEditableInstanceConfig, id)
	}
}

// WriteConfig persists a config record.
func (c *Client) WriteConfig(ctx context.Context, mode config.Mode, id string, rec *config.Record) error {
	var method string
	switch mode {
	case config.ModeTemplate:
		method = cmdWriteTemplateConfig
	case config.ModeBaseTemplate:
		method = cmdWriteBaseTemplate
	default:
		method = cmdWriteInstanceConfig
	}
	return c.call(ctx, method, writeParams{ID: id, Config: rec}, nil)
}

// TemplateConfig returns a template's full config. Satisfies
// derive.TemplateSource.
func (c *Client) TemplateConfig(ctx context.Context, id string) (*config.Record, error) {
	return c.Config(ctx, config.ModeTemplate, id)
}

// BaseTemplate returns the base template's config. Satisfies
// derive.TemplateSource.
func (c *Client) BaseTemplate(ctx context.Context) (*config.Record, error) {
	return c.Config(ctx, config.ModeBaseTemplate, "")
}

// LaunchInstance asks the backend to launch an instance.
func (c *Client) LaunchInstance(ctx context.Context, id string) error {
	return c.call(ctx, cmdLaunchInstance, idParams{ID: id}, nil)
}

// StopInstance asks the backend to stop a running instance.
func (c *Client) StopInstance(ctx context.Context, id string) error {
	return c.call(ctx, cmdStopInstance, idParams{ID: id}, nil)
}

// DeleteInstance removes an instance and its config.
func (c *Client) DeleteInstance(ctx context.Context, id string) error {
	return c.call(ctx, cmdDeleteInstance, idParams{ID: id}, nil)
}

// DeleteTemplate removes a template.
func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	return c.call(ctx, cmdDeleteTemplate, idParams{ID: id}, nil)
}

func (c *Client) fetch(ctx context.Context, method, id string) (*config.Record, error) {
	var rec *config.Record
	var params any
	if id != "" {
		params = idParams{ID: id}
	}
	if err := c.call(ctx, method, params, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}
