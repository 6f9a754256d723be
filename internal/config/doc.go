// Package config locates dev-tools' files and loads developer settings.
//
// # Paths
//
// Everything dev-tools persists lives under one install directory:
//
//	$DT_HOME (default ~/.dev-tools)
//	├── projectsConfig.json   suffix pool and free-form config
//	├── dev-tools.toml        developer settings
//	├── .env                  DT_* variables, optional
//	└── events/               lifecycle audit logs
//
// # Settings
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults
//  2. dev-tools.toml
//  3. DT_* environment variables, with .env loaded first so that
//     variables already set in the process environment take precedence
//
// The merged result is validated before use.
package config
