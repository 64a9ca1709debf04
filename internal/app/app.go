// Package app provides the application context for nitroctl.
// It allows dependency injection for testing.
package app

import (
	"context"

	"github.com/Nitrolaunch/nitroctl/internal/bridge"
	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/events"
	"github.com/Nitrolaunch/nitroctl/internal/logging"
	"github.com/Nitrolaunch/nitroctl/internal/settings"
)

// Backend is the daemon surface the commands use. *bridge.Client satisfies
// it; tests substitute a fake.
type Backend interface {
	Instances(ctx context.Context) ([]bridge.Summary, error)
	Templates(ctx context.Context) ([]bridge.Summary, error)
	Config(ctx context.Context, mode config.Mode, id string) (*config.Record, error)
	EditableConfig(ctx context.Context, mode config.Mode, id string) (*config.Record, error)
	WriteConfig(ctx context.Context, mode config.Mode, id string, rec *config.Record) error
	TemplateConfig(ctx context.Context, id string) (*config.Record, error)
	BaseTemplate(ctx context.Context) (*config.Record, error)
	LaunchInstance(ctx context.Context, id string) error
	StopInstance(ctx context.Context, id string) error
	DeleteInstance(ctx context.Context, id string) error
	DeleteTemplate(ctx context.Context, id string) error
	Close() error
}

// App holds the application dependencies
type App struct {
	// Settings is the loaded client configuration
	Settings *settings.Settings

	// Bus carries config-change notifications between views
	Bus *events.Bus

	backend Backend
}

// Option is a function that configures the App
type Option func(*App)

// WithSettings sets custom settings
func WithSettings(s *settings.Settings) Option {
	return func(a *App) {
		a.Settings = s
	}
}

// WithBackend sets a pre-connected backend
func WithBackend(b Backend) Option {
	return func(a *App) {
		a.backend = b
	}
}

// New creates a new App with the given options.
// If settings are not provided via WithSettings, they are loaded from the
// default config file, falling back to defaults when it cannot be read.
func New(opts ...Option) *App {
	app := &App{
		Bus: &events.Bus{},
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.Settings == nil {
		path, err := settings.Path()
		var loaded *settings.Settings
		if err == nil {
			loaded, err = settings.Load(path)
		}
		if err != nil {
			logging.Debug("failed to load settings", "error", err)
			loaded = settings.Default()
		}
		app.Settings = loaded
	}

	return app
}

// Backend returns the daemon connection, dialing on first use. The
// websocket URL takes precedence over the unix socket when both are set.
func (a *App) Backend(ctx context.Context) (Backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}

	var (
		client *bridge.Client
		err    error
	)
	if a.Settings.URL != "" {
		client, err = bridge.DialWebSocket(ctx, a.Settings.URL, a.Bus)
	} else {
		client, err = bridge.DialUnix(ctx, a.Settings.Socket, a.Bus)
	}
	if err != nil {
		return nil, err
	}

	a.backend = client
	return a.backend, nil
}

// Close disconnects from the daemon if a connection was made.
func (a *App) Close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Close()
	a.backend = nil
	return err
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
