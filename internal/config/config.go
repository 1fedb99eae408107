// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/iwvelando/carescore/internal/benchmarks"
	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/iwvelando/carescore/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for carescore.
type Configuration struct {
	Logging        LoggingConfig         `mapstructure:"logging" yaml:"logging,omitempty"`
	Output         OutputConfig          `mapstructure:"output" yaml:"output,omitempty"`
	Batch          BatchConfig           `mapstructure:"batch" yaml:"batch,omitempty"`
	BenchmarksFile string                `mapstructure:"benchmarksFile" yaml:"benchmarksFile,omitempty"`
	Benchmarks     benchmarks.Benchmarks `mapstructure:"benchmarks" yaml:"benchmarks,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json, markdown, html
}

// BatchConfig holds batch scoring options
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency,omitempty"`
}

// Default returns a configuration with every section at its default.
func Default() Configuration {
	return Configuration{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Format: constants.OutputFormatPretty,
		},
		Batch: BatchConfig{
			Concurrency: constants.DefaultBatchConcurrency,
		},
		Benchmarks: benchmarks.Default(),
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A .env file next to the config is loaded first so that
// CARESCORE_* variables it defines can override file values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	loadEnvFile(filepath.Join(filepath.Dir(configPath), ".env"))

	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	conf, err := decode(v, filepath.Dir(configPath))
	if err != nil {
		return nil, err
	}
	return conf, nil
}

// LoadConfigurationFromReader loads YAML configuration from r. Relative
// benchmark file paths are resolved against the working directory.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v, "")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("batch.concurrency", d.Batch.Concurrency)
	v.SetDefault("benchmarksFile", "")
	return v
}

func loadEnvFile(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}
}

func decode(v *viper.Viper, baseDir string) (*Configuration, error) {
	configuration := Default()

	if file := v.GetString("benchmarksFile"); file != "" {
		if !filepath.IsAbs(file) && baseDir != "" {
			file = filepath.Join(baseDir, file)
		}
		bm, err := benchmarks.LoadFile(file)
		if err != nil {
			return nil, err
		}
		configuration.Benchmarks = bm
	}

	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	// Lists replace their defaults rather than merging element-wise.
	if v.IsSet("benchmarks.market.gradeScale") {
		var scale []benchmarks.GradeThreshold
		if err := v.UnmarshalKey("benchmarks.market.gradeScale", &scale); err != nil {
			return nil, fmt.Errorf("unable to decode grade scale, %w", err)
		}
		configuration.Benchmarks.Market.GradeScale = scale
	}
	if v.IsSet("benchmarks.deal.marketTrends") {
		configuration.Benchmarks.Deal.MarketTrends = v.GetStringSlice("benchmarks.deal.marketTrends")
	}

	configuration.Benchmarks.Normalize()
	if err := configuration.Benchmarks.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Hard errors are reported by LoadConfiguration.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("Unknown logging level '%s', info will be used", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		warnings = append(warnings, fmt.Sprintf("Unknown logging format '%s', console will be used", c.Logging.Format))
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	if c.Batch.Concurrency < 1 {
		warnings = append(warnings, fmt.Sprintf("Batch concurrency %d is below 1, %d will be used", c.Batch.Concurrency, constants.DefaultBatchConcurrency))
	}

	deal := c.Benchmarks.Deal
	for _, state := range sortedKeys(deal.StateRiskAdjustments) {
		if !validation.IsStateCode(state) {
			warnings = append(warnings, fmt.Sprintf("State risk adjustment key '%s' is not a two-letter state code", state))
		}
	}
	for _, state := range sortedKeys(deal.Reimbursement) {
		if !validation.IsStateCode(state) {
			warnings = append(warnings, fmt.Sprintf("Reimbursement key '%s' is not a two-letter state code", state))
		}
	}
	if deal.DefaultCapRate < deal.PublicREITMinYield {
		warnings = append(warnings, fmt.Sprintf("Default cap rate %.4f is below the public REIT minimum yield %.4f", deal.DefaultCapRate, deal.PublicREITMinYield))
	}

	scale := c.Benchmarks.Market.GradeScale
	if len(scale) > 0 && scale[len(scale)-1].Min <= constants.MinScore {
		warnings = append(warnings, fmt.Sprintf("Lowest grade threshold '%s' is at or below 0, grade F is unreachable", scale[len(scale)-1].Letter))
	}

	return warnings
}

// WriteExample writes the effective benchmark set to path, refusing to
// overwrite an existing file.
func (c *Configuration) WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing file %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := c.Benchmarks.WriteYAML(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
