package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ehsaniara/makelab/pkg/errors"
)

// Config is the makelab tool configuration. It only controls how labs are
// written out; the lab itself is always described by the topology file.
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Compiler CompilerConfig `yaml:"compiler" json:"compiler"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// OutputConfig holds the layout of the generated lab directory
type OutputConfig struct {
	Directory     string `yaml:"directory" json:"directory"`
	LabFile       string `yaml:"lab_file" json:"lab_file"`
	HostsFile     string `yaml:"hosts_file" json:"hosts_file"`
	DiagramFile   string `yaml:"diagram_file" json:"diagram_file"`
	StartupSuffix string `yaml:"startup_suffix" json:"startup_suffix"`
	Diagram       bool   `yaml:"diagram" json:"diagram"`
}

// CompilerConfig holds compiler settings
type CompilerConfig struct {
	DevicePrefix string `yaml:"device_prefix" json:"device_prefix"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	Version: "1.0",
	Output: OutputConfig{
		Directory:     ".",
		LabFile:       "lab.conf",
		HostsFile:     "shared/hosts",
		DiagramFile:   "topology.dot",
		StartupSuffix: ".startup",
		Diagram:       true,
	},
	Compiler: CompilerConfig{
		DevicePrefix: "eth",
	},
	Logging: LoggingConfig{
		Level:  "INFO",
		Format: "text",
	},
}

// DefaultsSource is reported as the config path when no file was found.
const DefaultsSource = "built-in defaults (no config file found)"

// LoadConfig loads configuration from the first file found in:
//
//  1. configPath, when not empty (it must exist)
//  2. $MAKELAB_CONFIG
//  3. ./makelab.yml
//  4. ./config/makelab.yml
//  5. ~/.makelab/makelab.yml
//
// MAKELAB_LOG_LEVEL, MAKELAB_LOG_FORMAT and MAKELAB_OUTPUT_DIR override the
// file. Returns (config, configPath, error).
func LoadConfig(configPath string) (*Config, string, error) {
	config := DefaultConfig

	path, err := loadFromFile(&config, configPath)
	if err != nil {
		return nil, "", err
	}

	if val := os.Getenv("MAKELAB_LOG_LEVEL"); val != "" {
		config.Logging.Level = val
	}
	if val := os.Getenv("MAKELAB_LOG_FORMAT"); val != "" {
		config.Logging.Format = val
	}
	if val := os.Getenv("MAKELAB_OUTPUT_DIR"); val != "" {
		config.Output.Directory = val
	}

	if e := config.Validate(); e != nil {
		return nil, "", e
	}

	return &config, path, nil
}

func loadFromFile(config *Config, explicit string) (string, error) {
	if explicit != "" {
		return explicit, readInto(config, explicit)
	}

	configPaths := []string{
		os.Getenv("MAKELAB_CONFIG"),
		"./makelab.yml",
		"./config/makelab.yml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(home, ".makelab", "makelab.yml"))
	}

	for _, path := range configPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		return path, readInto(config, path)
	}

	return DefaultsSource, nil
}

func readInto(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewConfigError("file", "", fmt.Errorf("read %s: %w", path, err))
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.NewConfigError("file", "", fmt.Errorf("parse %s: %w", path, err))
	}
	return nil
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Directory) == "" {
		return errors.NewConfigError("output", "directory", fmt.Errorf("must not be empty"))
	}

	for field, name := range map[string]string{
		"lab_file":     c.Output.LabFile,
		"hosts_file":   c.Output.HostsFile,
		"diagram_file": c.Output.DiagramFile,
	} {
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return errors.NewConfigError("output", field, fmt.Errorf("%q must be a relative path inside the lab directory", name))
		}
	}

	if strings.ContainsAny(c.Output.StartupSuffix, `/\`) {
		return errors.NewConfigError("output", "startup_suffix", fmt.Errorf("%q must not contain a path separator", c.Output.StartupSuffix))
	}

	if c.Compiler.DevicePrefix == "" {
		return errors.NewConfigError("compiler", "device_prefix", fmt.Errorf("must not be empty"))
	}

	validLevels := map[string]bool{
		"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true,
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Logging.Level] {
		return errors.NewConfigError("logging", "level", fmt.Errorf("invalid log level: %s", c.Logging.Level))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return errors.NewConfigError("logging", "format", fmt.Errorf("invalid log format: %s", c.Logging.Format))
	}

	return nil
}
