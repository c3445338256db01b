// Package config loads specmodel settings from defaults, an optional YAML
// file, SPECMODEL_* environment variables and bound command-line flags, in
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/katalvlaran/specmodel/fitting"
)

// EnvPrefix prefixes environment overrides: SPECMODEL_FIT_FITTER sets fit.fitter.
const EnvPrefix = "SPECMODEL"

// Keys.
const (
	KeyLogLevel        = "log.level"
	KeyLogDevelopment  = "log.development"
	KeyFitFitter       = "fit.fitter"
	KeyFitMaxIter      = "fit.max_iterations"
	KeyFitFTol         = "fit.ftol"
	KeyFitXTol         = "fit.xtol"
	KeyFitGTol         = "fit.gtol"
	KeySessionBaseline = "session.protect_baseline"
)

// Config is the resolved configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Fit     FitConfig     `mapstructure:"fit"`
	Session SessionConfig `mapstructure:"session"`
}

// LogConfig selects the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // debug, info, warn, error
	Development bool   `mapstructure:"development"` // console encoder, stack traces on warn
}

// FitConfig seeds fitting.Options.
type FitConfig struct {
	Fitter        string  `mapstructure:"fitter"`
	MaxIterations int     `mapstructure:"max_iterations"`
	FTol          float64 `mapstructure:"ftol"`
	XTol          float64 `mapstructure:"xtol"`
	GTol          float64 `mapstructure:"gtol"`
}

// SessionConfig configures interactive sessions.
type SessionConfig struct {
	ProtectBaseline bool `mapstructure:"protect_baseline"`
}

// SetDefaults registers the defaults on v.
func SetDefaults(v *viper.Viper) {
	d := fitting.DefaultOptions()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDevelopment, false)
	v.SetDefault(KeyFitFitter, fitting.NameLevenbergMarquardt)
	v.SetDefault(KeyFitMaxIter, d.MaxIterations)
	v.SetDefault(KeyFitFTol, d.FTol)
	v.SetDefault(KeyFitXTol, d.XTol)
	v.SetDefault(KeyFitGTol, d.GTol)
	v.SetDefault(KeySessionBaseline, false)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves the configuration. file may be empty; flags may be nil.
// Flags are bound by key name, so a flag named "fit.fitter" overrides
// that key when set.
func Load(v *viper.Viper, file string, flags *pflag.FlagSet) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	var errs []error
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	if _, err := fitting.Lookup(c.Fit.Fitter); err != nil {
		errs = append(errs, fmt.Errorf("fit.fitter: %w", err))
	}
	if c.Fit.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("fit.max_iterations must be >= 0, got %d", c.Fit.MaxIterations))
	}
	for _, tol := range []struct {
		key string
		v   float64
	}{{KeyFitFTol, c.Fit.FTol}, {KeyFitXTol, c.Fit.XTol}, {KeyFitGTol, c.Fit.GTol}} {
		if tol.v < 0 {
			errs = append(errs, fmt.Errorf("%s must be >= 0, got %g", tol.key, tol.v))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// FitOptions returns fitting options built from c on top of the defaults.
func (c *Config) FitOptions() fitting.Options {
	o := fitting.DefaultOptions()
	o.MaxIterations = c.Fit.MaxIterations
	o.FTol = c.Fit.FTol
	o.XTol = c.Fit.XTol
	o.GTol = c.Fit.GTol
	return o
}
