package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Nitrolaunch/nitroctl/internal/app"
	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/errors"
	"github.com/Nitrolaunch/nitroctl/internal/session"
)

// commandContext returns a context bounded by the configured command
// timeout. The caller must call cancel.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), app.Default.Settings.CommandTimeout())
}

// backend connects to the daemon, dialing on first use.
func backend(ctx context.Context) (app.Backend, error) {
	b, err := app.Default.Backend(ctx)
	if err != nil {
		endpoint := app.Default.Settings.URL
		if endpoint == "" {
			endpoint = app.Default.Settings.Socket
		}
		return nil, errors.ConnectError(endpoint, err)
	}
	return b, nil
}

// recordMode resolves the --template / --base-template flag pair.
func recordMode(template, baseTemplate bool) config.Mode {
	switch {
	case baseTemplate:
		return config.ModeBaseTemplate
	case template:
		return config.ModeTemplate
	default:
		return config.ModeInstance
	}
}

// openSession opens an edit session for one record.
func openSession(ctx context.Context, mode config.Mode, id string) (*session.Session, error) {
	b, err := backend(ctx)
	if err != nil {
		return nil, err
	}
	return session.Open(ctx, b, app.Default.Bus, mode, id)
}

// useJSON reports whether results should print as JSON, from the --json
// flag or the configured output format.
func useJSON() bool {
	return jsonOutput || app.Default.Settings.Output == "json"
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
