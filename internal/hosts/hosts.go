// Package hosts maps environment hostnames to their addresses in the
// system hosts file.
package hosts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"github.com/firefly-engineering/dev-tools/internal/logging"
	"github.com/firefly-engineering/dev-tools/internal/system"
)

// File edits a hosts file. Writes that are denied fall back to sudo tee.
type File struct {
	Path string
	fs   system.FileSystem
	exec system.CommandExecutor
}

// New creates a File for path.
func New(path string, fs system.FileSystem, exec system.CommandExecutor) *File {
	return &File{Path: path, fs: fs, exec: exec}
}

// Entry formats a hosts line.
func Entry(ip, hostname string) string {
	return ip + "    " + hostname
}

// Has reports whether a line maps ip to hostname.
func (f *File) Has(ip, hostname string) (bool, error) {
	content, err := f.read()
	if err != nil {
		return false, err
	}
	return hasEntry(content, ip, hostname), nil
}

func hasEntry(content, ip, hostname string) bool {
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != ip {
			continue
		}
		for _, h := range fields[1:] {
			if h == hostname {
				return true
			}
		}
	}
	return false
}

// Add appends an entry for hostname unless one already exists. It returns
// false when nothing was written.
func (f *File) Add(ctx context.Context, ip, hostname string) (bool, error) {
	content, err := f.read()
	if err != nil {
		return false, err
	}
	if hasEntry(content, ip, hostname) {
		logging.Debug("hosts entry already present", "ip", ip, "hostname", hostname)
		return false, nil
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += Entry(ip, hostname) + "\n"
	if err := f.write(ctx, content); err != nil {
		return false, err
	}
	return true, nil
}

// Remove drops every line mapping ip to a hostname under name, i.e.
// "<ip> <name>.<anything>". It returns false when nothing matched.
func (f *File) Remove(ctx context.Context, ip, name string) (bool, error) {
	content, err := f.read()
	if err != nil {
		return false, err
	}

	re := regexp.MustCompile(`^` + regexp.QuoteMeta(ip) + `[ \t]+` + regexp.QuoteMeta(name) + `\..*$`)
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	removed := false
	for _, line := range lines {
		if re.MatchString(line) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return false, nil
	}

	if err := f.write(ctx, strings.Join(kept, "\n")); err != nil {
		return false, err
	}
	return true, nil
}

func (f *File) read() (string, error) {
	data, err := f.fs.ReadFile(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading %s: %w", f.Path, err)
	}
	return string(data), nil
}

func (f *File) write(ctx context.Context, content string) error {
	err := f.fs.WriteFile(f.Path, []byte(content), 0644)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}

	logging.Debug("hosts file not writable, retrying with sudo", "path", f.Path)
	if out, err := f.exec.ExecuteWithStdin(ctx, content, "sudo", "tee", f.Path); err != nil {
		return &system.CommandError{Command: "sudo tee " + f.Path, Output: string(out), Err: err}
	}
	return nil
}
