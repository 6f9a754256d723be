package generator

import (
	"github.com/firefly-engineering/dev-tools/internal/environment"
)

// Options are the per-environment choices that are not derived from the
// environment itself.
type Options struct {
	Database   string
	DBVersion  string
	PHPVersion string
}

// TemplateData holds everything templates and the compose document need.
type TemplateData struct {
	ProjectName string
	Suffix      string
	HostName    string
	HostSuffix  string
	IPPrefix    string
	IPAddress   string
	Subnet      string
	Database    string
	DBVersion   string
	DBPort      int
	PHPVersion  string
	Attached    bool
	WebRoot     string
	LogsDir     string
}

// NewTemplateData derives template variables from env.
func NewTemplateData(env *environment.Environment, opts Options) *TemplateData {
	return &TemplateData{
		ProjectName: env.Name,
		Suffix:      env.Suffix,
		HostName:    env.Hostname(),
		HostSuffix:  env.HostSuffix,
		IPPrefix:    env.IPPrefix(),
		IPAddress:   env.IPAddress(),
		Subnet:      env.Subnet(),
		Database:    opts.Database,
		DBVersion:   opts.DBVersion,
		DBPort:      env.DatabasePort(),
		PHPVersion:  opts.PHPVersion,
		Attached:    env.Attached,
		WebRoot:     env.WebRoot(),
		LogsDir:     env.LogsDir(),
	}
}

// IsPostgres reports whether the environment uses PostgreSQL.
func (d *TemplateData) IsPostgres() bool {
	return d.Database == "postgres"
}

// DatabaseClass is the framework's database adapter class.
func (d *TemplateData) DatabaseClass() string {
	if d.IsPostgres() {
		return "PostgreSQLDatabase"
	}
	return "MySQLDatabase"
}

// DatabaseUser is the superuser of the database image.
func (d *TemplateData) DatabaseUser() string {
	if d.IsPostgres() {
		return "postgres"
	}
	return "root"
}

// DatabaseInternalPort is the port the database listens on in its container.
func (d *TemplateData) DatabaseInternalPort() int {
	if d.IsPostgres() {
		return 5432
	}
	return 3306
}

// DatabaseName is the schema created for the project.
func (d *TemplateData) DatabaseName() string {
	return SchemaName(d.ProjectName)
}

// SchemaName is the database schema the framework creates for project.
func SchemaName(project string) string {
	return "SS_" + project
}
