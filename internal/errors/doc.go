// Package errors provides typed errors with exit codes for nitroctl.
//
// # Error Types
//
// CtlError is the base error type that wraps an error with an exit code:
//
//	type CtlError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
// Defined exit codes for different error categories:
//
//	ExitSuccess          = 0  // Success
//	ExitGeneralError     = 1  // General/unknown errors
//	ExitInstanceNotFound = 2  // Instance does not exist
//	ExitTemplateNotFound = 3  // Template does not exist
//	ExitBridgeError      = 4  // Backend command failed
//	ExitConfigError      = 5  // Configuration error
//	ExitValidation       = 6  // Input validation failure
//	ExitPluginOwned      = 7  // Config is owned by a plugin
//
// # Error Constructors
//
// Use the provided constructors for consistent error creation:
//
//	errors.InstanceNotFound("survival")
//	errors.TemplateNotFound("modded")
//	errors.BridgeError("get_instances", err)
//	errors.PluginOwned("backup-aux")
//
// # Extracting Exit Codes
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
