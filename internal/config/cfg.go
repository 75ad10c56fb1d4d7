package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	yaml "gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultConfig []byte

type (
	StorageConfig struct {
		Path         string `yaml:"path" validate:"required"`
		MaxRevisions int    `yaml:"max_revisions" validate:"min=1,max=1000"`
	}

	EditorConfig struct {
		HistoryLimit int `yaml:"history_limit" validate:"min=1,max=1000"`
	}

	ExportConfig struct {
		Minify bool `yaml:"minify"`
	}

	PublishConfig struct {
		Dir            string        `yaml:"dir" validate:"required"`
		Schedule       string        `yaml:"schedule" validate:"omitempty,cron"`
		WatchDir       string        `yaml:"watch_dir"`
		Debounce       time.Duration `yaml:"debounce" validate:"gte=0"`
		PublishImports bool          `yaml:"publish_imports"`
	}

	HTTPConfig struct {
		Listen       string        `yaml:"listen" validate:"required,hostname_port"`
		ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gte=0"`
		WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Storage StorageConfig `yaml:"storage"`
		Editor  EditorConfig  `yaml:"editor"`
		Export  ExportConfig  `yaml:"export"`
		Publish PublishConfig `yaml:"publish"`
		HTTP    HTTPConfig    `yaml:"http"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// cron accepts what the scheduler accepts: five fields or a descriptor
	_ = v.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
		_, err := cron.ParseStandard(fl.Field().String())
		return err == nil
	})
	return v
}

// expand substitutes environment variables, falling back to the user's
// home directory for HOME.
func expand(data []byte) []byte {
	return []byte(os.Expand(string(data), func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		if key == "HOME" {
			if home, err := os.UserHomeDir(); err == nil {
				return home
			}
		}
		return ""
	}))
}

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// Only fields we defined are accepted, so yaml.Unmarshal is not enough
	dec := yaml.NewDecoder(bytes.NewReader(expand(data)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

// LoadConfiguration superimposes the file at path, if any, on the built-in
// defaults and validates the result.
func LoadConfiguration(path string) (*Config, error) {
	cfg, err := unmarshalConfig(defaultConfig, &Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}

	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if cfg, err = unmarshalConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Prepare returns the default configuration file with comments.
func Prepare() []byte {
	return bytes.Clone(defaultConfig)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
