// Package config provides Viper-based configuration loading for the skirmish simulator.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SimulationConfig holds the per-trial combat constants.
type SimulationConfig struct {
	// HitPoints is every actor's starting HP.
	HitPoints int `mapstructure:"hit_points"`
	// AttackPower is every actor's base attack.
	AttackPower int `mapstructure:"attack_power"`
	// MaxRounds aborts a simulation after this many rounds; 0 means unlimited.
	MaxRounds int `mapstructure:"max_rounds"`
}

// SearchConfig holds boost search settings.
type SearchConfig struct {
	// Faction is the boosted side: "elf" or "goblin".
	Faction string `mapstructure:"faction"`
	// StartBoost is the first boost tried.
	StartBoost int `mapstructure:"start_boost"`
	// MaxBoost is the last boost tried, inclusive; -1 derives it from hit points
	// and attack power.
	MaxBoost int `mapstructure:"max_boost"`
	// Workers is the number of trials run concurrently.
	Workers int `mapstructure:"workers"`
	// StopOnLoss ends a trial as soon as the boosted faction loses an actor.
	StopOnLoss bool `mapstructure:"stop_on_loss"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Search     SearchConfig     `mapstructure:"search"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSearch(c.Search); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.HitPoints < 1 {
		errs = append(errs, fmt.Sprintf("simulation.hit_points must be >= 1, got %d", s.HitPoints))
	}
	if s.AttackPower < 1 {
		errs = append(errs, fmt.Sprintf("simulation.attack_power must be >= 1, got %d", s.AttackPower))
	}
	if s.MaxRounds < 0 {
		errs = append(errs, fmt.Sprintf("simulation.max_rounds must be >= 0, got %d", s.MaxRounds))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateSearch(s SearchConfig) error {
	var errs []string
	validFactions := map[string]bool{"elf": true, "goblin": true}
	if !validFactions[s.Faction] {
		errs = append(errs, fmt.Sprintf("search.faction must be one of [elf, goblin], got %q", s.Faction))
	}
	if s.StartBoost < 0 {
		errs = append(errs, fmt.Sprintf("search.start_boost must be >= 0, got %d", s.StartBoost))
	}
	if s.MaxBoost < -1 {
		errs = append(errs, fmt.Sprintf("search.max_boost must be >= -1, got %d", s.MaxBoost))
	}
	if s.MaxBoost >= 0 && s.MaxBoost < s.StartBoost {
		errs = append(errs, "search.max_boost must not be below search.start_boost")
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("search.workers must be >= 1, got %d", s.Workers))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Precondition: path must be empty or a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.Search.Faction = strings.ToLower(cfg.Search.Faction)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
//
// Postcondition: Default().Validate() == nil.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic("config: built-in defaults are invalid: " + err.Error())
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.hit_points", 200)
	v.SetDefault("simulation.attack_power", 3)
	v.SetDefault("simulation.max_rounds", 0)

	v.SetDefault("search.faction", "elf")
	v.SetDefault("search.start_boost", 0)
	v.SetDefault("search.max_boost", -1)
	v.SetDefault("search.workers", 1)
	v.SetDefault("search.stop_on_loss", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
