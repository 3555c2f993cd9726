package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys understood in config files and as QUICKARSC_* environment variables.
const (
	KeyThreads          = "threads"
	KeyDecimalPlaces    = "decimal_places"
	KeyLogFile          = "log_file"
	KeyLogLevel         = "log_level"
	KeyProdigal         = "prodigal"
	KeyProdigalMode     = "prodigal_mode"
	KeyGenepredTimeout  = "genepred_timeout"
	KeyDetectSampleSize = "detect_sample_size"
	KeyDetectThreshold  = "detect_threshold"
)

// EnvPrefix is prepended to upper-cased keys when reading the environment.
const EnvPrefix = "QUICKARSC"

// flagKeys maps config keys to the command-line flag that overrides them.
var flagKeys = map[string]string{
	KeyThreads:       "threads",
	KeyDecimalPlaces: "decimal-places",
	KeyProdigal:      "prodigal",
}

type Config struct {
	Threads          int           `mapstructure:"threads"`
	DecimalPlaces    int           `mapstructure:"decimal_places"`
	LogFile          string        `mapstructure:"log_file"`
	LogLevel         string        `mapstructure:"log_level"`
	Prodigal         string        `mapstructure:"prodigal"`
	ProdigalMode     string        `mapstructure:"prodigal_mode"`
	GenepredTimeout  time.Duration `mapstructure:"genepred_timeout"`
	DetectSampleSize int           `mapstructure:"detect_sample_size"`
	DetectThreshold  float64       `mapstructure:"detect_threshold"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyThreads, 1)
	v.SetDefault(KeyDecimalPlaces, 6)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyProdigal, "prodigal")
	v.SetDefault(KeyProdigalMode, "single")
	v.SetDefault(KeyGenepredTimeout, time.Duration(0))
	v.SetDefault(KeyDetectSampleSize, 1000)
	v.SetDefault(KeyDetectThreshold, 0.95)
}

// Load resolves the configuration. Precedence, highest first: flags that
// were set explicitly, QUICKARSC_* environment variables, the config file,
// defaults. With an empty path, quickarsc.{yaml,json,toml} in the working
// directory is used if present; a missing default file is not an error.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quickarsc")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
	}
	if c.DecimalPlaces < 0 {
		return fmt.Errorf("decimal_places must not be negative, got %d", c.DecimalPlaces)
	}
	switch c.ProdigalMode {
	case "single", "meta":
	default:
		return fmt.Errorf("prodigal_mode must be single or meta, got %q", c.ProdigalMode)
	}
	if c.GenepredTimeout < 0 {
		return fmt.Errorf("genepred_timeout must not be negative")
	}
	if c.DetectSampleSize < 1 {
		return fmt.Errorf("detect_sample_size must be positive, got %d", c.DetectSampleSize)
	}
	if c.DetectThreshold <= 0 || c.DetectThreshold > 1 {
		return fmt.Errorf("detect_threshold must be in (0, 1], got %g", c.DetectThreshold)
	}
	return nil
}
