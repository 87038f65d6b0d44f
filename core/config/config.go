// Package config holds the directory layout and runtime settings shared by
// every edakit component.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	ekerrors "github.com/YuminosukeSato/edakit/pkg/errors"
	"github.com/YuminosukeSato/edakit/pkg/log"
)

// Defaults for the project directory layout.
const (
	RandomSeed = 0
	CacheDir   = ".cache"
	ResultsDir = "results"
	DataDir    = "data"
	FigsDir    = "figs"
	ExpLogDir  = "results"
)

// DefaultFile is the config file looked up when no path is given.
const DefaultFile = "edakit.yaml"

// Config is the resolved edakit configuration.
type Config struct {
	DataDir    string `mapstructure:"data_dir" yaml:"data_dir"`
	ResultsDir string `mapstructure:"results_dir" yaml:"results_dir"`
	FigsDir    string `mapstructure:"figs_dir" yaml:"figs_dir"`
	CacheDir   string `mapstructure:"cache_dir" yaml:"cache_dir"`
	ExpLogDir  string `mapstructure:"exp_log_dir" yaml:"exp_log_dir"`
	RandomSeed int    `mapstructure:"random_seed" yaml:"random_seed"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat  string `mapstructure:"log_format" yaml:"log_format"` // console or json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:    DataDir,
		ResultsDir: ResultsDir,
		FigsDir:    FigsDir,
		CacheDir:   CacheDir,
		ExpLogDir:  ExpLogDir,
		RandomSeed: RandomSeed,
		LogLevel:   "info",
		LogFormat:  "console",
	}
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string][]string{
	"data_dir":    {"EDAKIT_DATA_DIR"},
	"results_dir": {"EDAKIT_RESULTS_DIR"},
	"figs_dir":    {"EDAKIT_FIGS_DIR"},
	"cache_dir":   {"EDAKIT_CACHE_DIR"},
	"exp_log_dir": {"EDAKIT_EXP_LOG_DIR"},
	"random_seed": {"EDAKIT_RANDOM_SEED"},
	"log_level":   {"EDAKIT_LOG_LEVEL"},
	"log_format":  {"EDAKIT_LOG_FORMAT"},
}

// Load reads the config from filePath when it exists, otherwise starts from
// the defaults. Environment variables override both.
func Load(filePath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if filePath != "" {
		v.SetConfigFile(filePath)
		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return nil, ekerrors.Wrapf(err, "read config %s", filePath)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, ekerrors.Wrap(err, "decode config")
	}
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("results_dir", d.ResultsDir)
	v.SetDefault("figs_dir", d.FigsDir)
	v.SetDefault("cache_dir", d.CacheDir)
	v.SetDefault("exp_log_dir", d.ExpLogDir)
	v.SetDefault("random_seed", d.RandomSeed)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)
		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that every directory is set and the log settings are known.
func (c *Config) Validate() error {
	dirs := map[string]string{
		"data_dir":    c.DataDir,
		"results_dir": c.ResultsDir,
		"figs_dir":    c.FigsDir,
		"cache_dir":   c.CacheDir,
		"exp_log_dir": c.ExpLogDir,
	}
	for name, dir := range dirs {
		if dir == "" {
			return ekerrors.NewValidationError(name, "directory must not be empty", dir)
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return ekerrors.NewValidationError("log_level", "unknown level", c.LogLevel)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return ekerrors.NewValidationError("log_format", "must be console or json", c.LogFormat)
	}
	return nil
}

// EnsureDirs creates every configured directory. It is idempotent.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.CacheDir, c.ResultsDir, c.DataDir, c.FigsDir, c.ExpLogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ekerrors.Wrapf(err, "create directory %s", dir)
		}
	}
	return nil
}

// SummaryPath is the location of the EDA summary table.
func (c *Config) SummaryPath() string {
	return filepath.Join(c.ResultsDir, "edas.csv")
}

// Write dumps the config as YAML to path.
func (c *Config) Write(path string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return ekerrors.Wrap(err, "encode config")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ekerrors.Wrapf(err, "create directory %s", dir)
		}
	}
	return os.WriteFile(path, out, 0o644)
}
