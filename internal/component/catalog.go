package component

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bassista/go_preview/internal/apperror"
)

// Catalog reads the components directory: which components exist and the
// mock data each one is previewed with.
type Catalog struct {
	dir         string
	fixtureFile string
}

// NewCatalog creates a catalog rooted at dir. fixtureFile is the name of the
// mock data file inside each component directory.
func NewCatalog(dir, fixtureFile string) (*Catalog, error) {
	if dir == "" {
		return nil, errors.New("components directory is required")
	}
	if fixtureFile == "" {
		return nil, errors.New("fixture file name is required")
	}
	return &Catalog{dir: dir, fixtureFile: fixtureFile}, nil
}

// Dir returns the components root.
func (c *Catalog) Dir() string {
	return c.dir
}

// List returns the names of the directories directly under the root, sorted.
// Plain files are not components.
func (c *Catalog) List() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, apperror.FileSystem("list components", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
			continue
		}
		// follow symlinked component directories
		if entry.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(c.dir, entry.Name())); err == nil && info.IsDir() {
				names = append(names, entry.Name())
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// FixturePath returns the mock data file of a component.
func (c *Catalog) FixturePath(component string) string {
	return filepath.Join(c.dir, component, c.fixtureFile)
}

// Fixture reads and decodes the mock data of a component. A missing or
// malformed fixture is a render error: previews never fall back to empty data.
func (c *Catalog) Fixture(ctx context.Context, component string) (map[string]any, error) {
	op := "load fixture " + component
	if err := ctx.Err(); err != nil {
		return nil, apperror.Render(op, err)
	}

	file, err := os.Open(c.FixturePath(component))
	if err != nil {
		return nil, apperror.Render(op, fmt.Errorf("open fixture: %w", err))
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	var data map[string]any
	if err := decoder.Decode(&data); err != nil {
		return nil, apperror.Render(op, fmt.Errorf("decode fixture: %w", err))
	}
	if data == nil {
		return nil, apperror.Render(op, errors.New("fixture must be a JSON object"))
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, apperror.Render(op, errors.New("fixture has trailing data"))
	}
	return data, nil
}
