// Package environment resolves filesystem paths to provisioned environments.
//
// Two environment shapes exist on disk:
//
//	proj_07/              freestanding
//	├── docker-07/
//	├── logs/
//	└── www/
//
//	my-project/           attached
//	├── .dev-tools-env    contains "my-project_42"
//	└── ...
//
// Locator.Find walks upward from any path inside either shape and returns
// the enclosing environment. Every other fact about the environment (IP
// address, hostname, database port, web root) is derived from its base
// directory, name and suffix.
package environment
