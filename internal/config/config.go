// Package config loads editor settings from a YAML or JSON file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"card-editor/internal/placement"
	"card-editor/pkg/geometry"

	"gopkg.in/yaml.v3"
)

const (
	appDir     = "card-editor"
	configFile = "config.yaml"
)

// Defaults for keys missing from the settings file.
const (
	DefaultJPEGQuality     = 100
	DefaultLoadTimeout     = 30 * time.Second
	DefaultContainerWidth  = 1200
	DefaultContainerHeight = 800
)

// Container is the on-screen area the canvas is fitted into.
type Container struct {
	Width  float64              `yaml:"width"`
	Height float64              `yaml:"height"`
	Mode   placement.SizingMode `yaml:"mode"`
}

// Size returns the container dimensions.
func (c Container) Size() geometry.Size {
	return geometry.Size{Width: c.Width, Height: c.Height}
}

// Config holds the editor settings.
type Config struct {
	AssetsRoot     string        `yaml:"assets_root"`
	TemplateDir    string        `yaml:"template_dir"`
	UploadDir      string        `yaml:"upload_dir"`
	UploadBaseURL  string        `yaml:"upload_base_url"`
	ProductCatalog string        `yaml:"product_catalog"`
	JPEGQuality    int           `yaml:"jpeg_quality"`
	DeviceScale    float64       `yaml:"device_scale"`
	Container      Container     `yaml:"container"`
	FontPath       string        `yaml:"font_path"`
	LoadTimeout    time.Duration `yaml:"load_timeout"`

	path string
}

// Default returns settings rooted at the user's config directory.
func Default() *Config {
	dir := configDir()
	return &Config{
		AssetsRoot:  filepath.Join(dir, "assets"),
		TemplateDir: filepath.Join(dir, "templates"),
		UploadDir:   filepath.Join(dir, "uploads"),
		JPEGQuality: DefaultJPEGQuality,
		DeviceScale: 1,
		Container: Container{
			Width:  DefaultContainerWidth,
			Height: DefaultContainerHeight,
			Mode:   placement.Contain,
		},
		LoadTimeout: DefaultLoadTimeout,
		path:        filepath.Join(dir, configFile),
	}
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, appDir)
}

// DefaultPath returns ~/.config/card-editor/config.yaml or the platform
// equivalent.
func DefaultPath() string {
	return filepath.Join(configDir(), configFile)
}

// Load reads settings from path over the defaults. A missing file is not an
// error. Relative paths in the file are resolved against its directory.
func Load(path string) (*Config, error) {
	c := Default()
	c.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	c.resolve(filepath.Dir(path))
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) resolve(base string) {
	for _, p := range []*string{&c.AssetsRoot, &c.TemplateDir, &c.UploadDir, &c.ProductCatalog, &c.FontPath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality %d out of range 1-100", c.JPEGQuality)
	}
	if c.DeviceScale <= 0 {
		return fmt.Errorf("device_scale must be positive, got %g", c.DeviceScale)
	}
	if c.Container.Width <= 0 {
		return fmt.Errorf("container width must be positive, got %g", c.Container.Width)
	}
	switch c.Container.Mode {
	case placement.Contain, placement.Expand:
	case "":
		c.Container.Mode = placement.Contain
	default:
		return fmt.Errorf("unknown container mode %q", c.Container.Mode)
	}
	if c.Container.Mode == placement.Contain && c.Container.Height <= 0 {
		return fmt.Errorf("container height must be positive in contain mode")
	}
	if c.LoadTimeout < 0 {
		return fmt.Errorf("load_timeout must not be negative")
	}
	return nil
}

// Path returns the file the settings were loaded from.
func (c *Config) Path() string {
	return c.path
}

// Save writes the settings as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
