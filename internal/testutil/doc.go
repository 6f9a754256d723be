// Package testutil provides test fixtures and utilities.
//
// # TestEnv
//
// NewTestEnv builds an app.App over a MockFS and MockExecutor and installs
// it as app.Default for the duration of a test:
//
//	env := testutil.NewTestEnv(t)
//	defer env.Cleanup()
//
//	shop := env.AddFreestanding("shop_03")     // www, logs, docker-03, suffix taken
//	legacy := env.AddAttached("/srv/legacy", "legacy_07")
//
// The projects path is /projects and the hosts file /etc/hosts, both inside
// the mock filesystem. docker compose ps reports both containers running.
//
// # Fixtures
//
// Fixtures are embedded using go:embed:
//
//	fixtures/valid_settings.toml
//	fixtures/invalid_settings.toml
//	fixtures/state_taken.json
//	fixtures/state_corrupt.json
//	fixtures/compose_ps_array.json
//	fixtures/compose_ps_lines.json
//
// Helper functions load and parse fixtures into typed values:
//
//	s, err := testutil.ValidSettings()
//	doc, err := testutil.TakenState()
//	out := testutil.ComposePSArray()
package testutil
