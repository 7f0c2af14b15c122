package template

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source fetches template definitions by handle.
type Source interface {
	Load(ctx context.Context, handle string) (Definition, error)
}

// LoadFile reads a template definition from a JSON or YAML file.
func LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, err
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse template %s: %w", path, err)
	}
	if def.Handle == "" {
		def.Handle = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return def, nil
}

// SaveFile writes a template definition as YAML.
func SaveFile(path string, def Definition) error {
	data, err := yaml.Marshal(&def)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var templateExts = []string{".yaml", ".yml", ".json"}

// DirSource loads templates from <Dir>/<handle>.{yaml,yml,json}.
type DirSource struct {
	Dir string
}

// Load implements Source.
func (s DirSource) Load(ctx context.Context, handle string) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return Definition{}, err
	}
	if handle == "" || strings.ContainsAny(handle, `/\`) {
		return Definition{}, fmt.Errorf("%w: bad handle %q", ErrInvalidTemplate, handle)
	}
	for _, ext := range templateExts {
		path := filepath.Join(s.Dir, handle+ext)
		def, err := LoadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return def, err
	}
	return Definition{}, fmt.Errorf("template %q not found in %s: %w", handle, s.Dir, os.ErrNotExist)
}

// Handles lists the template handles present in the directory.
func (s DirSource) Handles() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var handles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		for _, want := range templateExts {
			if ext == want {
				h := strings.TrimSuffix(e.Name(), ext)
				if !seen[h] {
					seen[h] = true
					handles = append(handles, h)
				}
			}
		}
	}
	sort.Strings(handles)
	return handles, nil
}

// MemorySource serves definitions from a map keyed by handle.
type MemorySource map[string]Definition

// Load implements Source.
func (m MemorySource) Load(_ context.Context, handle string) (Definition, error) {
	def, ok := m[handle]
	if !ok {
		return Definition{}, fmt.Errorf("template %q: %w", handle, os.ErrNotExist)
	}
	return def, nil
}
