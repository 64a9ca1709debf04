// Package logging provides logging utilities for nitroctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("opening edit session", "id", id, "mode", mode)
//	logging.Warn("backend notification dropped", "method", method)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Fetching config for %s...", id)
//	logging.UserSuccess("Config for %s saved", id)
//	logging.UserWarning("Instance %s is already running", id)
//	logging.UserError("Failed to save config: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
