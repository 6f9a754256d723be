package generator

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/dev-tools/internal/logging"
	"github.com/firefly-engineering/dev-tools/internal/system"
)

// ComposeFileName is the compose file written into the docker directory.
const ComposeFileName = "docker-compose.yml"

//go:embed all:templates
var templateFS embed.FS

const (
	dockerTemplates  = "templates/docker"
	webrootTemplates = "templates/webroot"
)

var funcs = template.FuncMap{
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}

// Generator writes rendered files through a FileSystem.
type Generator struct {
	fs system.FileSystem
}

// New creates a Generator.
func New(fs system.FileSystem) *Generator {
	return &Generator{fs: fs}
}

// RenderDockerDir writes the compose file and docker templates into dir.
func (g *Generator) RenderDockerDir(dir string, d *TemplateData) ([]string, error) {
	compose, err := RenderCompose(d)
	if err != nil {
		return nil, err
	}
	if err := g.write(dir, ComposeFileName, compose); err != nil {
		return nil, err
	}

	written, err := g.renderTree(dockerTemplates, dir, d, true)
	if err != nil {
		return nil, err
	}
	return append([]string{filepath.Join(dir, ComposeFileName)}, written...), nil
}

// RenderWebRoot writes the web root templates into dir. Files that already
// exist in an attached project are left alone.
func (g *Generator) RenderWebRoot(dir string, d *TemplateData) ([]string, error) {
	return g.renderTree(webrootTemplates, dir, d, !d.Attached)
}

func (g *Generator) renderTree(root, dir string, d *TemplateData, overwrite bool) ([]string, error) {
	var written []string
	err := fs.WalkDir(templateFS, root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}

		rel := strings.TrimSuffix(strings.TrimPrefix(p, root+"/"), ".tmpl")
		dest, err := securejoin.SecureJoin(dir, filepath.FromSlash(rel))
		if err != nil {
			return fmt.Errorf("invalid output path %s: %w", rel, err)
		}
		if !overwrite && g.fs.Exists(dest) {
			logging.Debug("keeping existing file", "path", dest)
			return nil
		}

		content, err := Render(p, d)
		if err != nil {
			return err
		}
		if err := g.write(dir, rel, content); err != nil {
			return err
		}
		written = append(written, dest)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

// Render executes the embedded template at name.
func Render(name string, d *TemplateData) ([]byte, error) {
	content, err := templateFS.ReadFile(name)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(path.Base(name)).Funcs(funcs).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) write(dir, rel string, content []byte) error {
	dest, err := securejoin.SecureJoin(dir, filepath.FromSlash(rel))
	if err != nil {
		return fmt.Errorf("invalid output path %s: %w", rel, err)
	}
	if err := g.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}
	if err := g.fs.WriteFile(dest, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	logging.Debug("rendered file", "path", dest)
	return nil
}
