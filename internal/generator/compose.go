package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DatabasePassword is the superuser password of every environment database.
const DatabasePassword = "root"

const networkName = "devtools"

// ComposeFile is the subset of the compose specification dev-tools writes.
type ComposeFile struct {
	Name     string                    `yaml:"name"`
	Services map[string]ComposeService `yaml:"services"`
	Networks map[string]ComposeNetwork `yaml:"networks,omitempty"`
	Volumes  map[string]struct{}       `yaml:"volumes,omitempty"`
}

// ComposeService is a single service definition.
type ComposeService struct {
	Build         *ComposeBuild             `yaml:"build,omitempty"`
	Image         string                    `yaml:"image,omitempty"`
	ContainerName string                    `yaml:"container_name,omitempty"`
	Hostname      string                    `yaml:"hostname,omitempty"`
	Environment   map[string]string         `yaml:"environment,omitempty"`
	Volumes       []string                  `yaml:"volumes,omitempty"`
	Ports         []string                  `yaml:"ports,omitempty"`
	DependsOn     []string                  `yaml:"depends_on,omitempty"`
	NetworkMode   string                    `yaml:"network_mode,omitempty"`
	Networks      map[string]ServiceNetwork `yaml:"networks,omitempty"`
	Restart       string                    `yaml:"restart,omitempty"`
}

// ComposeBuild points at the build context.
type ComposeBuild struct {
	Context    string            `yaml:"context"`
	Dockerfile string            `yaml:"dockerfile,omitempty"`
	Args       map[string]string `yaml:"args,omitempty"`
}

// PHPVersionArg is the web server build argument holding the PHP version.
const PHPVersionArg = "PHP_VERSION"

// ServiceNetwork pins a service to a fixed address.
type ServiceNetwork struct {
	IPv4Address string `yaml:"ipv4_address"`
}

// ComposeNetwork declares a network with a fixed subnet.
type ComposeNetwork struct {
	IPAM IPAM `yaml:"ipam"`
}

// IPAM holds the address pools of a network.
type IPAM struct {
	Config []IPAMConfig `yaml:"config"`
}

// IPAMConfig is one address pool.
type IPAMConfig struct {
	Subnet string `yaml:"subnet"`
}

// BuildCompose assembles the compose document for an environment. The web
// server sits at .50 of the environment subnet, the database at .51, and
// mailhog shares the web server's network so it is reachable on the same
// address at :8025.
func BuildCompose(d *TemplateData) *ComposeFile {
	webserver := ComposeService{
		Build: &ComposeBuild{
			Context:    ".",
			Dockerfile: "Dockerfile",
			Args:       map[string]string{PHPVersionArg: d.PHPVersion},
		},
		ContainerName: d.ProjectName + "_webserver",
		Hostname:      d.HostName,
		Volumes: []string{
			d.WebRoot + ":/var/www",
			filepath.Join(d.LogsDir, "apache2") + ":/var/log/apache2",
		},
		DependsOn: []string{"database"},
		Networks: map[string]ServiceNetwork{
			networkName: {IPv4Address: d.IPAddress},
		},
		Restart: "unless-stopped",
	}

	database := ComposeService{
		Image:         databaseImage(d),
		ContainerName: d.ProjectName + "_database",
		Environment:   databaseEnv(d),
		Volumes:       []string{"dbdata:" + databaseDataDir(d)},
		Ports:         []string{fmt.Sprintf("%d:%d", d.DBPort, d.DatabaseInternalPort())},
		Networks: map[string]ServiceNetwork{
			networkName: {IPv4Address: d.IPPrefix + ".51"},
		},
		Restart: "unless-stopped",
	}

	mailhog := ComposeService{
		Image:         "mailhog/mailhog",
		ContainerName: d.ProjectName + "_mailhog",
		NetworkMode:   "service:webserver",
		DependsOn:     []string{"webserver"},
		Restart:       "unless-stopped",
	}

	return &ComposeFile{
		Name: "docker-" + d.Suffix,
		Services: map[string]ComposeService{
			"webserver": webserver,
			"database":  database,
			"mailhog":   mailhog,
		},
		Networks: map[string]ComposeNetwork{
			networkName: {IPAM: IPAM{Config: []IPAMConfig{{Subnet: d.Subnet}}}},
		},
		Volumes: map[string]struct{}{"dbdata": {}},
	}
}

// RenderCompose marshals the compose document.
func RenderCompose(d *TemplateData) ([]byte, error) {
	out, err := yaml.Marshal(BuildCompose(d))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal docker-compose.yml: %w", err)
	}
	return out, nil
}

// ParseCompose reads back a document written by RenderCompose.
func ParseCompose(data []byte) (*ComposeFile, error) {
	var c ComposeFile
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse docker-compose.yml: %w", err)
	}
	return &c, nil
}

// Database returns the database kind from the database service image,
// empty when there is no database service.
func (c *ComposeFile) Database() string {
	db, ok := c.Services["database"]
	if !ok {
		return ""
	}
	kind, _, _ := strings.Cut(db.Image, ":")
	return kind
}

// DatabaseVersion returns the database image tag, empty when there is no
// database service.
func (c *ComposeFile) DatabaseVersion() string {
	db, ok := c.Services["database"]
	if !ok {
		return ""
	}
	_, version, _ := strings.Cut(db.Image, ":")
	return version
}

// PHPVersion returns the PHP version the web server is built with.
func (c *ComposeFile) PHPVersion() string {
	web, ok := c.Services["webserver"]
	if !ok || web.Build == nil {
		return ""
	}
	return web.Build.Args[PHPVersionArg]
}

func databaseImage(d *TemplateData) string {
	version := d.DBVersion
	if version == "" {
		version = "latest"
	}
	return d.Database + ":" + version
}

func databaseEnv(d *TemplateData) map[string]string {
	if d.IsPostgres() {
		return map[string]string{
			"POSTGRES_PASSWORD": DatabasePassword,
		}
	}
	if d.Database == "mariadb" {
		return map[string]string{
			"MARIADB_ROOT_PASSWORD": DatabasePassword,
		}
	}
	return map[string]string{
		"MYSQL_ROOT_PASSWORD": DatabasePassword,
	}
}

func databaseDataDir(d *TemplateData) string {
	if d.IsPostgres() {
		return "/var/lib/postgresql/data"
	}
	return "/var/lib/mysql"
}
