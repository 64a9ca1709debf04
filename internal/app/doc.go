// Package app provides the application context for nitroctl.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Settings *settings.Settings // Client configuration
//	    Bus      *events.Bus        // Config-change notifications
//	}
//
// plus a lazily-dialed daemon connection behind the Backend interface.
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage
//	a := app.New()
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithSettings(testSettings),
//	    app.WithBackend(fakeBackend),
//	)
//
// # Available Options
//
//	WithSettings(s) // Custom client configuration
//	WithBackend(b)  // Pre-connected backend, skips dialing
package app
