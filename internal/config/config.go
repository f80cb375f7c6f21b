// Package config defines the benchmark specification and loads it from the
// pairscale.yaml config file, PAIRSCALE_* environment variables, and CLI
// flag overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the working
// directory when no --config flag is given.
const DefaultConfigFile = "pairscale.yaml"

// BenchSpec is the immutable benchmark configuration. The zero-value fields
// of the original script were hardcoded constants; they are promoted here to
// explicit configuration with the same defaults.
type BenchSpec struct {
	// CommandTemplate is the workload command line with {binfile} and
	// {threads} placeholders. The template is split on whitespace before
	// substitution, so placeholders may be embedded in flag tokens.
	CommandTemplate string `mapstructure:"command_template" yaml:"command_template"`

	// BinfilePath is the radial bin-edge table passed to the workload.
	BinfilePath string `mapstructure:"binfile_path" yaml:"binfile_path"`

	// StorePath is the append-only timing sample log.
	StorePath string `mapstructure:"store_path" yaml:"store_path"`

	// MinThreads and MaxThreads bound the sweep, inclusive.
	MinThreads int `mapstructure:"min_threads" yaml:"min_threads"`
	MaxThreads int `mapstructure:"max_threads" yaml:"max_threads"`

	// TrialsPerSetting is how many times each thread count is measured.
	// MAD is undefined on a single point, so this must be at least 2.
	TrialsPerSetting int `mapstructure:"trials_per_setting" yaml:"trials_per_setting"`

	// StrictWorkload aborts the sweep when a workload invocation fails.
	// The default mirrors the original fire-and-measure behavior: the
	// elapsed time is recorded even for a failed run.
	StrictWorkload bool `mapstructure:"strict_workload" yaml:"strict_workload"`

	// OutputDir receives the plot and the generated reports.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// HistoryPath is the SQLite database of past completed runs.
	HistoryPath string `mapstructure:"history_path" yaml:"history_path"`
}

// Default returns the spec with the original hardcoded constants.
func Default() *BenchSpec {
	return &BenchSpec{
		CommandTemplate:  "./countpairs {binfile} {threads}",
		BinfilePath:      "rbins.txt",
		StorePath:        "timings.dat",
		MinThreads:       1,
		MaxThreads:       16,
		TrialsPerSetting: 5,
		StrictWorkload:   false,
		OutputDir:        "pairscale-results",
		HistoryPath:      "pairscale-history.db",
	}
}

// Load reads the spec from configFile (or DefaultConfigFile in the working
// directory when configFile is empty), applying PAIRSCALE_* environment
// overrides on top of the defaults. A missing default config file is fine;
// an explicitly named file must exist.
func Load(configFile string) (*BenchSpec, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("command_template", def.CommandTemplate)
	v.SetDefault("binfile_path", def.BinfilePath)
	v.SetDefault("store_path", def.StorePath)
	v.SetDefault("min_threads", def.MinThreads)
	v.SetDefault("max_threads", def.MaxThreads)
	v.SetDefault("trials_per_setting", def.TrialsPerSetting)
	v.SetDefault("strict_workload", def.StrictWorkload)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("history_path", def.HistoryPath)

	v.SetEnvPrefix("PAIRSCALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	spec := &BenchSpec{}
	if err := v.Unmarshal(spec); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Validate enforces the spec invariants.
func (s *BenchSpec) Validate() error {
	if s.CommandTemplate == "" {
		return errors.New("command_template must not be empty")
	}
	if !strings.Contains(s.CommandTemplate, "{binfile}") || !strings.Contains(s.CommandTemplate, "{threads}") {
		return errors.New("command_template must contain {binfile} and {threads} placeholders")
	}
	if s.BinfilePath == "" {
		return errors.New("binfile_path must not be empty")
	}
	if s.StorePath == "" {
		return errors.New("store_path must not be empty")
	}
	if s.MinThreads < 1 {
		return fmt.Errorf("min_threads must be at least 1, got %d", s.MinThreads)
	}
	if s.MaxThreads < s.MinThreads {
		return fmt.Errorf("max_threads (%d) must be at least min_threads (%d)", s.MaxThreads, s.MinThreads)
	}
	if s.TrialsPerSetting < 2 {
		return fmt.Errorf("trials_per_setting must be at least 2, got %d", s.TrialsPerSetting)
	}
	return nil
}

// ThreadSettings returns the number of thread counts in the sweep.
func (s *BenchSpec) ThreadSettings() int {
	return s.MaxThreads - s.MinThreads + 1
}

// TotalInvocations returns how many times the workload will run.
func (s *BenchSpec) TotalInvocations() int {
	return s.ThreadSettings() * s.TrialsPerSetting
}

// WriteDefault writes a starter config file for spec at path. It refuses to
// overwrite an existing file.
func WriteDefault(spec *BenchSpec, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	header := "# pairscale benchmark configuration.\n" +
		"# The workload command template substitutes {binfile} and {threads}.\n"
	if err := os.WriteFile(path, []byte(header+string(data)), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
