package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// Catalog is the set of known templates, keyed by id
type Catalog struct {
	templates map[string]*Template
}

// Default returns the catalog of embedded templates
func Default() (*Catalog, error) {
	c := &Catalog{templates: make(map[string]*Template)}
	if err := c.loadFS(defaultsFS, "defaults"); err != nil {
		return nil, fmt.Errorf("failed to load embedded templates: %w", err)
	}
	return c, nil
}

// Load returns the embedded catalog extended with templates from dir.
// Templates in dir override embedded templates with the same id. An empty
// dir yields the embedded catalog unchanged.
func Load(dir string) (*Catalog, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return c, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", entry.Name(), err)
		}
		if err := c.add(data); err != nil {
			return nil, fmt.Errorf("failed to load template %s: %w", entry.Name(), err)
		}
	}
	return c, nil
}

// Get looks up a template by id
func (c *Catalog) Get(id string) (*Template, error) {
	t, ok := c.templates[id]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", id)
	}
	return t, nil
}

// List returns all templates sorted by id
func (c *Catalog) List() []*Template {
	out := make([]*Template, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Catalog) loadFS(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		data, err := fs.ReadFile(fsys, root+"/"+entry.Name())
		if err != nil {
			return err
		}
		if err := c.add(data); err != nil {
			return fmt.Errorf("%s: %w", entry.Name(), err)
		}
	}
	return nil
}

func (c *Catalog) add(data []byte) error {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	c.templates[t.ID] = &t
	return nil
}
