// Package logging provides logging utilities for dev-tools.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("taking suffix", "suffix", suffix, "env", name)
//	logging.Warn("compose status unavailable", "dir", dockerDir)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserStep("Spinning up docker")
//	logging.UserInfo("Using recipe %s", recipe)
//	logging.UserSuccess("Env %s successfully destroyed", name)
//	logging.UserWarning("Couldn't add hosts entry: %s", line)
//	logging.UserError("Failed to create environment: %v", err)
//
// Output destinations:
//   - UserStep, UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
//   - → (step)
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
//
// Indicators are colored with lipgloss when the destination is a terminal.
package logging
