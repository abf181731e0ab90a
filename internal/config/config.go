// Package config reads the optional ois-config.yml file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/api3dao/ois/internal/fs"
	"github.com/api3dao/ois/internal/ois"
	"github.com/api3dao/ois/internal/report"
	"github.com/api3dao/ois/internal/source"
)

const (
	ConfigFile = "ois-config.yml"
	// ConfigEnvVar names a config file to use instead of the one in the working directory.
	ConfigEnvVar = "OIS_CONFIG"
)

const DefaultConfigContent = `# OIS validator configuration

# REFERENCE VERSION
#
# Documents must declare an oisFormat with the same major.minor as this version.
# Leave it unset to use the version built into the validator.
# referenceVersion: "2.3.2"

# OUTPUT
#
# Report format used by "ois validate": text or json.
output: text

# WORKERS
#
# Number of documents validated at the same time. 0 uses one worker per CPU.
workers: 0

# EXTENSIONS
#
# Files with these extensions are validated when a directory is given.
# Only .json, .yaml and .yml can be loaded.
extensions:
  - .json
  - .yaml
  - .yml
`

type Config struct {
	ReferenceVersion string   `yaml:"referenceVersion"`
	Output           string   `yaml:"output"`
	Workers          int      `yaml:"workers"`
	Extensions       []string `yaml:"extensions"`
	Path             string   `yaml:"-"` // set when the config was read from a file.
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	c := &Config{}
	_ = c.Validate()
	return c
}

// New reads the config file named by $OIS_CONFIG, or ois-config.yml in dir.
// A missing ois-config.yml in dir is not an error and gives the Default config.
func New(dir string, env fs.EnvProvider) (*Config, error) {
	if path := env.Get(ConfigEnvVar); path != "" {
		return Load(path)
	}

	c, err := Load(filepath.Join(dir, ConfigFile))
	var missing *MissingConfigError
	if errors.As(err, &missing) {
		return Default(), nil
	}
	return c, err
}

// Load reads the config file at path, which must exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingConfigError{Path: path}
		}
		return nil, err
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	c.Path = path
	return c, nil
}

// Parse decodes and validates config file content. Unknown properties are rejected.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, &InvalidYAMLError{Wrapped: err}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate fills unset properties with their defaults and checks the rest.
func (c *Config) Validate() error {
	if c.ReferenceVersion == "" {
		c.ReferenceVersion = ois.Version
	}
	if err := ois.ValidateSemver(c.ReferenceVersion); err != nil {
		return &InvalidPropertyError{Property: "referenceVersion", Value: c.ReferenceVersion, Wrapped: err}
	}

	if c.Output == "" {
		c.Output = string(report.FormatText)
	}
	if !slices.Contains(report.SupportedFormats(), c.Output) {
		return &InvalidOutputError{Value: c.Output, Supported: report.SupportedFormats()}
	}

	if c.Workers < 0 {
		return &InvalidPropertyError{
			Property: "workers",
			Value:    fmt.Sprint(c.Workers),
			Wrapped:  errors.New("must not be negative"),
		}
	}

	if len(c.Extensions) == 0 {
		c.Extensions = slices.Clone(fs.DefaultExtensions)
	}
	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return &InvalidPropertyError{
				Property: fmt.Sprintf("extensions[%d]", i),
				Value:    ext,
				Wrapped:  errors.New("must start with '.'"),
			}
		}
		if _, err := source.FormatOf(ext); err != nil {
			return &InvalidPropertyError{
				Property: fmt.Sprintf("extensions[%d]", i),
				Value:    ext,
				Wrapped:  fmt.Errorf("must be one of %s", strings.Join(fs.DefaultExtensions, ", ")),
			}
		}
	}

	return nil
}

// WriteDefault creates an ois-config.yml with DefaultConfigContent in dir.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return "", &ConfigExistsError{Path: path}
	}
	if err := os.WriteFile(path, []byte(DefaultConfigContent), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
