// Package config loads the engine configuration from engine-config.yaml.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/saranshbhandari/TaskManagerUtil/vars"
)

const fileName = "engine-config.yaml"

// EngineConfig is the engine-config.yaml structure.
type EngineConfig struct {
	Name                  string         `yaml:"name"`
	MissingVariablePolicy string         `yaml:"missingVariablePolicy" default:"keep_as_is" validate:"oneof=keep_as_is replace_with_empty throw_error"`
	Workflow              string         `yaml:"workflow"`
	Server                ServerConfig   `yaml:"server"`
	Database              DatabaseConfig `yaml:"database"`
	Properties            map[string]any `yaml:"properties"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port string `yaml:"port" default:"8080" validate:"numeric"`
}

// DatabaseConfig configures the stored-procedure task's connection. An
// empty DSN disables the task.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" validate:"omitempty,dsn"`
}

var validate = validator.New()

func init() {
	// dsn accepts either URL form (postgres://...) or user:pass@host/db
	validate.RegisterValidation("dsn", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if strings.Contains(s, "://") {
			u, err := url.Parse(s)
			return err == nil && u.Scheme != ""
		}
		return strings.Contains(s, "@") && strings.Contains(s, "/")
	})
}

// Load reads and validates engine-config.yaml from the given directory. A
// missing file yields the defaults.
func Load(dir string) (*EngineConfig, error) {
	cfg := &EngineConfig{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	path := filepath.Join(dir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}

	return cfg, nil
}

// Policy maps the configured policy name to its store value.
func (c *EngineConfig) Policy() vars.MissingVariablePolicy {
	switch c.MissingVariablePolicy {
	case "replace_with_empty":
		return vars.ReplaceWithEmpty
	case "throw_error":
		return vars.ThrowError
	default:
		return vars.KeepAsIs
	}
}
