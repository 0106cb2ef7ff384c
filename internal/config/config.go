// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Run configuration with precedence: CLI > ENV > config file > defaults

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides (PMR_WORKERS, ...)
const EnvPrefix = "PMR"

// Defaults reproduce the layout FoldX batch runs have always used
const (
	DefaultInput           = "input_file.txt"
	DefaultInstructionFile = "individual_list.txt"
	DefaultStructure       = "3PWN_Repair.pdb"
	DefaultRotabase        = "rotabase.txt"
	DefaultWorkers         = 3
	DefaultSimulationDir   = "foldx_models"
	DefaultFoldX           = "foldx"
	DefaultTemplates       = "."
	DefaultModelIndex      = 1
	DefaultTemplate        = "LL1{},LL2{},YL3{},GL4{},FL5{},VL6{},NL7{},YL8{},IL9{};"
)

// Config holds everything a run needs
type Config struct {
	Input              string        `mapstructure:"input" json:"input"`
	InstructionFile    string        `mapstructure:"instruction_file" json:"instruction_file"`
	Structure          string        `mapstructure:"structure" json:"structure"`
	Rotabase           string        `mapstructure:"rotabase" json:"rotabase"`
	Templates          string        `mapstructure:"templates" json:"templates"`         // template bundle: directory or git URL
	TemplateFile       string        `mapstructure:"template_file" json:"template_file"` // YAML sites file, relative to the bundle
	Template           string        `mapstructure:"template" json:"template"`           // legacy format string
	Workers            int           `mapstructure:"workers" json:"workers"`
	SimulationDir      string        `mapstructure:"simulation_dir" json:"simulation_dir"`
	FoldX              string        `mapstructure:"foldx" json:"foldx"`
	Timeout            time.Duration `mapstructure:"timeout" json:"timeout"`
	ModelIndex         int           `mapstructure:"model_index" json:"model_index"`
	StrictAlphabet     bool          `mapstructure:"strict_alphabet" json:"strict_alphabet"`
	SkipStructureCheck bool          `mapstructure:"skip_structure_check" json:"skip_structure_check"`
	DryRun             bool          `mapstructure:"dry_run" json:"dry_run"`
	Verbose            bool          `mapstructure:"verbose" json:"verbose"`
}

// Default returns a config holding only default values
func Default() *Config {
	return &Config{
		Input:           DefaultInput,
		InstructionFile: DefaultInstructionFile,
		Structure:       DefaultStructure,
		Rotabase:        DefaultRotabase,
		Templates:       DefaultTemplates,
		Template:        DefaultTemplate,
		Workers:         DefaultWorkers,
		SimulationDir:   DefaultSimulationDir,
		FoldX:           DefaultFoldX,
		ModelIndex:      DefaultModelIndex,
	}
}

// ConfigPaths returns the paths to check for config files in order
func ConfigPaths() []string {
	var paths []string

	// Current directory
	paths = append(paths, ".peptide-runner.yaml", ".peptide-runner.yml")

	// XDG config directory
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths,
			filepath.Join(xdg, "peptide-runner", "config.yaml"),
			filepath.Join(xdg, "peptide-runner", "config.yml"),
		)
	}

	// Home directory
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "peptide-runner", "config.yaml"),
			filepath.Join(home, ".peptide-runner.yaml"),
		)
	}

	return paths
}

// Load resolves the configuration. configFile, when set, must exist; otherwise
// the first file found in ConfigPaths is used, if any. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("input", def.Input)
	v.SetDefault("instruction_file", def.InstructionFile)
	v.SetDefault("structure", def.Structure)
	v.SetDefault("rotabase", def.Rotabase)
	v.SetDefault("templates", def.Templates)
	v.SetDefault("template_file", def.TemplateFile)
	v.SetDefault("template", def.Template)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("simulation_dir", def.SimulationDir)
	v.SetDefault("foldx", def.FoldX)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("model_index", def.ModelIndex)
	v.SetDefault("strict_alphabet", false)
	v.SetDefault("skip_structure_check", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindFlags binds every flag whose dashed name maps onto a config key
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !isKey(key) {
			return
		}
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("failed to bind flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

func readConfigFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		return nil
	}

	for _, path := range ConfigPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	return nil // No config file found, not an error
}

var keys = map[string]bool{
	"input": true, "instruction_file": true, "structure": true, "rotabase": true,
	"templates": true, "template_file": true, "template": true, "workers": true,
	"simulation_dir": true, "foldx": true, "timeout": true, "model_index": true,
	"strict_alphabet": true, "skip_structure_check": true, "dry_run": true, "verbose": true,
}

func isKey(key string) bool {
	return keys[key]
}

// Validate rejects values no run can work with
func (c *Config) Validate() error {
	var errs []error

	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %v", c.Timeout))
	}
	if c.ModelIndex < 1 {
		errs = append(errs, fmt.Errorf("model_index must be at least 1, got %d", c.ModelIndex))
	}

	required := map[string]string{
		"input":            c.Input,
		"instruction_file": c.InstructionFile,
		"structure":        c.Structure,
		"rotabase":         c.Rotabase,
		"simulation_dir":   c.SimulationDir,
		"foldx":            c.FoldX,
	}
	for _, name := range []string{"input", "instruction_file", "structure", "rotabase", "simulation_dir", "foldx"} {
		if strings.TrimSpace(required[name]) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}

	if strings.ContainsAny(c.InstructionFile, `/\`) {
		errs = append(errs, fmt.Errorf("instruction_file must be a bare file name, got %q", c.InstructionFile))
	}
	if c.Template == "" && c.TemplateFile == "" {
		errs = append(errs, errors.New("one of template or template_file must be set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
