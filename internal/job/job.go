// Package job reads render-job files: a template, a product, a starting
// draft and the actions to replay on it.
package job

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"card-editor/internal/draft"
	"card-editor/internal/product"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the job file format version written by Save.
const CurrentVersion = 1

// Theme seeds the draft from a theme and its illustration assets.
type Theme struct {
	draft.Theme `yaml:",inline"`
	// Assets[i] supplies the asset for Illustrations[i].
	Assets []*draft.Illustration `yaml:"assets"`
}

// File is a render job (.cardjob).
type File struct {
	Version     int                 `yaml:"version"`
	Name        string              `yaml:"name,omitempty"`
	Created     time.Time           `yaml:"created,omitempty"`
	Product     product.Handle      `yaml:"product"`
	Orientation product.Orientation `yaml:"orientation"`
	Template    string              `yaml:"template"`

	// Paths relative to the job file
	TemplateDir   string `yaml:"template_dir,omitempty"`
	Output        string `yaml:"output,omitempty"`
	MessageOutput string `yaml:"message_output,omitempty"`

	// Draft is an EditorDraft in its JSON field names. Theme is used when
	// Draft is absent.
	Draft map[string]any `yaml:"draft,omitempty"`
	Theme *Theme         `yaml:"theme,omitempty"`

	// Actions are replayed in order, each an object tagged by "type".
	Actions []map[string]any `yaml:"actions,omitempty"`
}

// New creates a job for a blank card.
func New(name string, h product.Handle, o product.Orientation, templateHandle string) *File {
	return &File{
		Version:     CurrentVersion,
		Name:        name,
		Created:     time.Now(),
		Product:     h,
		Orientation: o,
		Template:    templateHandle,
	}
}

// Load reads a job file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("job %s: %w", path, err)
	}
	if f.Orientation == "" {
		f.Orientation = product.Landscape
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("job %s: %w", path, err)
	}
	return &f, nil
}

// Save writes the job as YAML.
func (f *File) Save(path string) error {
	if f.Version == 0 {
		f.Version = CurrentVersion
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the fields needed to render.
func (f *File) Validate() error {
	if f.Product == "" {
		return fmt.Errorf("product is required")
	}
	if !f.Orientation.Valid() {
		return fmt.Errorf("invalid orientation %q", f.Orientation)
	}
	if f.Template == "" && f.Draft == nil && (f.Theme == nil || f.Theme.TemplateHandle == "") {
		return fmt.Errorf("template is required")
	}
	return nil
}

// InitialDraft builds the draft the actions are replayed on.
func (f *File) InitialDraft() (draft.EditorDraft, error) {
	if f.Draft != nil {
		var d draft.EditorDraft
		if err := viaJSON(f.Draft, &d); err != nil {
			return draft.EditorDraft{}, fmt.Errorf("draft: %w", err)
		}
		if d.ProductHandle == "" {
			d.ProductHandle = f.Product
		}
		if d.Orientation == "" {
			d.Orientation = f.Orientation
		}
		if d.TemplateHandle == "" {
			d.TemplateHandle = f.Template
		}
		return d, nil
	}

	var theme draft.Theme
	var assets []*draft.Illustration
	if f.Theme != nil {
		theme, assets = f.Theme.Theme, f.Theme.Assets
	}
	if theme.TemplateHandle == "" {
		theme.TemplateHandle = f.Template
	}
	return draft.NewFromTheme(theme, assets, f.Product, f.Orientation)
}

// DecodeActions decodes the action list.
func (f *File) DecodeActions() ([]draft.Action, error) {
	out := make([]draft.Action, 0, len(f.Actions))
	for i, raw := range f.Actions {
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		a, err := draft.DecodeAction(data)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// AddAction appends an action in its wire form.
func (f *File) AddAction(a draft.Action) error {
	data, err := draft.EncodeAction(a)
	if err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Actions = append(f.Actions, raw)
	return nil
}

// viaJSON converts a YAML-decoded value into a type with JSON tags.
func viaJSON(in any, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// GetTemplateDir returns the absolute template directory, or "" when unset.
func (f *File) GetTemplateDir(jobPath string) string {
	return resolve(jobPath, f.TemplateDir)
}

// GetOutputPath returns the absolute path of the card raster. It defaults to
// the job path with a .jpg extension.
func (f *File) GetOutputPath(jobPath string) string {
	if f.Output == "" {
		base := jobPath[:len(jobPath)-len(filepath.Ext(jobPath))]
		return base + ".jpg"
	}
	return resolve(jobPath, f.Output)
}

// GetMessageOutputPath returns the absolute path of the message raster, or
// "" when none is requested.
func (f *File) GetMessageOutputPath(jobPath string) string {
	return resolve(jobPath, f.MessageOutput)
}

func resolve(jobPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(jobPath), p)
}
