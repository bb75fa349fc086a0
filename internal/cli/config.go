package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config describes a form: its fields, where their values come from, and
// how they are validated.
type Config struct {
	// ID names the form in signals and spans. Default: a random UUID.
	ID string `mapstructure:"id"`
	// Debounce is the interval used by fields without their own.
	Debounce time.Duration `mapstructure:"debounce"`
	// Filter lists values excluded from the aggregate. Default: null.
	Filter []any `mapstructure:"filter"`
	// Concurrency limits parallel validator calls during a full check
	// (0 = unlimited).
	Concurrency int `mapstructure:"concurrency"`
	// Fields are registered in order.
	Fields []FieldConfig `mapstructure:"fields"`

	filterSet bool
}

// FieldConfig describes one field.
type FieldConfig struct {
	Name string `mapstructure:"name"`
	// File holds the field value; .json and .yaml files are decoded, any
	// other file is read as trimmed text.
	File string `mapstructure:"file"`
	// Rule is a go-playground/validator tag expression, e.g. "required,email".
	Rule string `mapstructure:"rule"`
	// Debounce overrides the form interval for this field.
	Debounce time.Duration `mapstructure:"debounce"`
	// Default is the value the field starts with and resets to.
	Default any `mapstructure:"default"`
}

var errNoFields = errors.New("config defines no fields")

// LoadConfig reads a YAML (or any viper-supported) config file. Relative
// field paths are resolved against the config file's directory.
// FORMZ_* environment variables override top-level keys.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("debounce", "300ms")
	v.SetEnvPrefix("FORMZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.filterSet = v.IsSet("filter")

	if len(cfg.Fields) == 0 {
		return nil, errNoFields
	}
	seen := make(map[string]bool, len(cfg.Fields))
	dir := filepath.Dir(path)
	for i := range cfg.Fields {
		f := &cfg.Fields[i]
		if f.Name == "" {
			return nil, fmt.Errorf("field %d: name is required", i)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("field %q: defined more than once", f.Name)
		}
		seen[f.Name] = true
		if f.File != "" && !filepath.IsAbs(f.File) {
			f.File = filepath.Join(dir, f.File)
		}
	}

	return &cfg, nil
}

// Rules returns the validation rule of every field that has one.
func (c *Config) Rules() map[string]string {
	rules := make(map[string]string)
	for _, f := range c.Fields {
		if f.Rule != "" {
			rules[f.Name] = f.Rule
		}
	}
	return rules
}
