// Package config provides configuration types, defaults and loading for spigen.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/olehluchkiv/spigen/internal/analyzer"
	"github.com/olehluchkiv/spigen/internal/contract"
	"github.com/olehluchkiv/spigen/internal/hierarchy"
	"github.com/olehluchkiv/spigen/internal/processor"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".spigen.yaml"

// EnvPrefix prefixes environment overrides, e.g. SPIGEN_OUTPUT.
const EnvPrefix = "SPIGEN"

// Config holds all configuration options for spigen.
type Config struct {
	Output          string        `mapstructure:"output"`
	NoContract      string        `mapstructure:"no_contract"`      // "skip" (default) or "fail"
	ClassCandidates string        `mapstructure:"class_candidates"` // "none", "direct" (default) or "all"
	RootType        string        `mapstructure:"root_type"`        // overrides the manifest root
	Atomic          bool          `mapstructure:"atomic"`
	Marker          string        `mapstructure:"marker"`
	Patterns        []string      `mapstructure:"patterns"`
	IncludeStdlib   bool          `mapstructure:"include_stdlib"`
	LogFile         string        `mapstructure:"log_file"`
	LogLevel        string        `mapstructure:"log_level"`
	Diagram         string        `mapstructure:"diagram"`
	WatchDebounce   time.Duration `mapstructure:"watch_debounce"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Output:          "build/classes",
		NoContract:      "skip",
		ClassCandidates: "direct",
		Atomic:          true,
		Marker:          analyzer.DefaultMarker,
		Patterns:        []string{"./..."},
		LogLevel:        "info",
		WatchDebounce:   500 * time.Millisecond,
	}
}

// SetDefaults registers Defaults on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("output", d.Output)
	v.SetDefault("no_contract", d.NoContract)
	v.SetDefault("class_candidates", d.ClassCandidates)
	v.SetDefault("root_type", d.RootType)
	v.SetDefault("atomic", d.Atomic)
	v.SetDefault("marker", d.Marker)
	v.SetDefault("patterns", d.Patterns)
	v.SetDefault("include_stdlib", d.IncludeStdlib)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("diagram", d.Diagram)
	v.SetDefault("watch_debounce", d.WatchDebounce)
}

// Load reads cfgFile (or DefaultFile when present), applies SPIGEN_*
// environment overrides and unmarshals the result.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			cfgFile = DefaultFile
		}
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config %s: %w", cfgFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated options.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("output directory must not be empty")
	}
	if _, err := contract.ParseNoContractPolicy(c.NoContract); err != nil {
		return err
	}
	if _, err := hierarchy.ParseClassCandidates(c.ClassCandidates); err != nil {
		return err
	}
	return nil
}

// ProcessorOptions builds processor options. hostRoot is the root type the
// input model declares; RootType overrides it when set.
func (c Config) ProcessorOptions(hostRoot string) (processor.Options, error) {
	policy, err := contract.ParseNoContractPolicy(c.NoContract)
	if err != nil {
		return processor.Options{}, err
	}
	classes, err := hierarchy.ParseClassCandidates(c.ClassCandidates)
	if err != nil {
		return processor.Options{}, err
	}
	root := hostRoot
	if c.RootType != "" {
		root = c.RootType
	}
	return processor.Options{RootType: root, Classes: classes, NoContract: policy}, nil
}

// AnalyzeOptions builds options for the Go source host.
func (c Config) AnalyzeOptions() analyzer.AnalyzeOptions {
	return analyzer.AnalyzeOptions{
		Patterns:      c.Patterns,
		Marker:        c.Marker,
		IncludeStdlib: c.IncludeStdlib,
	}
}
