package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/gosimple/slug"
)

const upTemplate = `-- Migration: {{.Name}}
-- Created: {{.Timestamp}}
{{- if .Description}}
-- Description: {{.Description}}
{{- end}}

`

const downTemplate = `-- Migration: {{.Name}} (Rollback)
-- Created: {{.Timestamp}}

`

// versionWidth matches the zero padded prefix of 000001_init_schema
const versionWidth = 6

// Migration is one up/down file pair
type Migration struct {
	Version     uint
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// BaseName is the shared file prefix, e.g. 000002_add_sku
func (m Migration) BaseName() string {
	return fmt.Sprintf("%0*d_%s", versionWidth, m.Version, m.Name)
}

// CreateMigration writes the next sequential file pair into dir
func CreateMigration(dir, name, description string) (*Migration, error) {
	fileName := sanitizeName(name)
	if fileName == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if n := len(existing); n > 0 {
		next = existing[n-1].Version + 1
	}

	m := &Migration{
		Version:     next,
		Name:        fileName,
		Description: description,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	m.UpPath = filepath.Join(dir, m.BaseName()+".up.sql")
	m.DownPath = filepath.Join(dir, m.BaseName()+".down.sql")

	if err := writeTemplate(m.UpPath, upTemplate, m); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := writeTemplate(m.DownPath, downTemplate, m); err != nil {
		_ = os.Remove(m.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return m, nil
}

func writeTemplate(path, content string, data *Migration) error {
	tmpl, err := template.New("migration").Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()
	return tmpl.Execute(f, data)
}

// sanitizeName turns free text into a snake_case file name
func sanitizeName(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

// ListMigrations returns the up migrations in fsys ordered by version
func ListMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		base, ok := strings.CutSuffix(e.Name(), ".up.sql")
		if e.IsDir() || !ok {
			continue
		}
		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, Migration{
			Version:  uint(v),
			Name:     name,
			UpPath:   e.Name(),
			DownPath: base + ".down.sql",
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
