// Package errors provides typed errors with exit codes for dev-tools.
//
// # Error Types
//
// DevToolsError is the base error type that wraps an error with an exit code:
//
//	type DevToolsError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess             = 0 // Success
//	ExitGeneralError        = 1 // General/unknown errors
//	ExitEnvironmentNotFound = 2 // Path is not inside a provisioned environment
//	ExitSuffixAllocation    = 3 // Suffix pool exhausted, taken or invalid
//	ExitDockerFailed        = 4 // docker compose / docker exec failed
//	ExitConfigError         = 5 // Settings could not be loaded or validated
//	ExitStateCorrupt        = 6 // projectsConfig.json is unreadable
//	ExitHostsError          = 7 // Hosts file could not be updated
//	ExitComposerFailed      = 8 // composer command failed in the container
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
