package environment

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/firefly-engineering/dev-tools/internal/suffix"
)

// MarkerFile is the file that identifies an attached environment. Its
// content is the environment name.
const MarkerFile = ".dev-tools-env"

const (
	webRootDir      = "www"
	logsDir         = "logs"
	dockerDirPrefix = "docker-"
)

// Environment is a provisioned development environment.
type Environment struct {
	BaseDir    string `json:"baseDir"`
	Name       string `json:"name"`
	Suffix     string `json:"suffix"`
	Attached   bool   `json:"attached"`
	HostSuffix string `json:"hostSuffix"`
}

func newEnvironment(baseDir, name string, attached bool, hostSuffix string) (*Environment, error) {
	s := lastTwo(name)
	if err := suffix.Validate(s); err != nil {
		return nil, fmt.Errorf("environment name %q does not end in a suffix: %w", name, err)
	}
	return &Environment{
		BaseDir:    baseDir,
		Name:       name,
		Suffix:     s,
		Attached:   attached,
		HostSuffix: hostSuffix,
	}, nil
}

func lastTwo(name string) string {
	if len(name) < 2 {
		return name
	}
	return name[len(name)-2:]
}

// Number is the suffix as an integer, 0 to 99.
func (e *Environment) Number() int {
	n, _ := strconv.Atoi(e.Suffix)
	return n
}

// WebRoot is the project directory served by the web server.
func (e *Environment) WebRoot() string {
	if e.Attached {
		return e.BaseDir
	}
	return filepath.Join(e.BaseDir, webRootDir)
}

// DockerDir holds the generated docker compose context.
func (e *Environment) DockerDir() string {
	return filepath.Join(e.BaseDir, dockerDirPrefix+e.Suffix)
}

// LogsDir receives container logs.
func (e *Environment) LogsDir() string {
	return filepath.Join(e.BaseDir, logsDir)
}

// MarkerPath is the location of the attached marker file.
func (e *Environment) MarkerPath() string {
	return filepath.Join(e.BaseDir, MarkerFile)
}

// IPPrefix is the first three octets of the environment subnet.
func (e *Environment) IPPrefix() string {
	return fmt.Sprintf("10.0.%d", e.Number())
}

// IPAddress is the web server address inside the environment subnet.
func (e *Environment) IPAddress() string {
	return e.IPPrefix() + ".50"
}

// Subnet is the docker network CIDR.
func (e *Environment) Subnet() string {
	return e.IPPrefix() + ".0/24"
}

func (e *Environment) Hostname() string {
	return e.Name + "." + e.HostSuffix
}

func (e *Environment) BaseURL() string {
	return "http://" + e.Hostname()
}

// DatabasePort is the host port forwarded to the database container.
func (e *Environment) DatabasePort() int {
	return 3300 + e.Number()
}

// WebserverContainer is the container name of the web server service.
func (e *Environment) WebserverContainer() string {
	return e.Name + "_webserver"
}

// DatabaseContainer is the container name of the database service.
func (e *Environment) DatabaseContainer() string {
	return e.Name + "_database"
}

// ComposeFile is the docker compose file of the environment.
func (e *Environment) ComposeFile() string {
	return filepath.Join(e.DockerDir(), "docker-compose.yml")
}
