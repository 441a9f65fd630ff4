// Package config loads the optional mdimages YAML configuration file.
//
// Every key has a built-in default, so a missing default file is not an
// error. Environment variables in the file are expanded before parsing.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdimages/internal/convert"
	"git.home.luguber.info/inful/mdimages/internal/deprule"
	"git.home.luguber.info/inful/mdimages/internal/docmodel"
	ferrors "git.home.luguber.info/inful/mdimages/internal/foundation/errors"
	"git.home.luguber.info/inful/mdimages/internal/variants"
)

// DefaultFile is read when no configuration file is named explicitly.
const DefaultFile = ".mdimages.yaml"

// Config represents the application configuration.
type Config struct {
	// SuffixPreferences orders image variants, most preferred first.
	SuffixPreferences []string `yaml:"suffix_preferences"`
	// Selection is the default selection policy; empty keeps each command's own default.
	Selection string `yaml:"selection"`
	KeepGoing bool   `yaml:"keep_going"`
	// InputFormat forces one input format for all documents.
	InputFormat string `yaml:"input_format"`
	// Suffixes are the default target patterns for rules.
	Suffixes []string `yaml:"suffixes"`
	// IndividualDependencies, when set, writes each document's rules to a
	// file with this suffix.
	IndividualDependencies string        `yaml:"individual_dependencies"`
	Logging                LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SuffixPreferences: append([]string(nil), variants.DefaultPreferences...),
		Logging: LoggingConfig{
			Level:  string(LogLevelInfo),
			Format: string(LogFormatText),
		},
	}
}

// Load reads the configuration at path. When path is empty DefaultFile is
// tried and its absence yields Default(); a missing explicit path is an
// error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, ferrors.ConfigError(path, "cannot read configuration file", err).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, ferrors.ConfigError(path, "invalid configuration", err).Build()
	}
	return cfg, nil
}

// Parse decodes YAML configuration on top of Default() and validates it.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(cfg.SuffixPreferences) == 0 {
		cfg.SuffixPreferences = append([]string(nil), variants.DefaultPreferences...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validSuffix(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	return deprule.ValidateSuffix(s)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.SuffixPreferences, validation.Each(validation.By(validSuffix))),
		validation.Field(&c.Selection, validation.By(func(any) error {
			if c.Selection == "" {
				return nil
			}
			_, err := docmodel.ParsePolicy(c.Selection)
			return err
		})),
		validation.Field(&c.InputFormat, validation.By(func(any) error {
			_, err := convert.ParseFormat(c.InputFormat)
			return err
		})),
		validation.Field(&c.Suffixes, validation.Each(validation.By(func(v any) error {
			s, _ := v.(string)
			return deprule.ValidatePattern(s)
		}))),
		validation.Field(&c.IndividualDependencies, validation.By(validSuffix)),
	); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// Validate validates the logging configuration.
func (c *LoggingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.By(func(any) error {
			_, err := logLevelNormalizer.NormalizeWithValidation(c.Level)
			return err
		})),
		validation.Field(&c.Format, validation.By(func(any) error {
			_, err := logFormatNormalizer.NormalizeWithValidation(c.Format)
			return err
		})),
	)
}

// Ranks returns the suffix rank table built from SuffixPreferences.
func (c *Config) Ranks() variants.SuffixRanks {
	return variants.NewSuffixRanks(c.SuffixPreferences...)
}

// Format returns the parsed input format override.
func (c *Config) Format() convert.Format {
	f, _ := convert.ParseFormat(c.InputFormat)
	return f
}

// SelectionOr returns the configured policy, or fallback when none is set.
func (c *Config) SelectionOr(fallback docmodel.Policy) docmodel.Policy {
	if c.Selection == "" {
		return fallback
	}
	p, err := docmodel.ParsePolicy(c.Selection)
	if err != nil {
		return fallback
	}
	return p
}
