package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName   = "osuexport"
	envPrefix = "OSUEXPORT"

	defaultMirrorURL = "https://txy1.sayobot.cn/beatmaps/download/full/%d?server=auto"
)

type Config struct {
	SourceDir   string         `mapstructure:"source_dir"`
	DownloadDir string         `mapstructure:"download_dir"`
	CatalogPath string         `mapstructure:"catalog_path"`
	DBPath      string         `mapstructure:"db_path"`
	FailDir     string         `mapstructure:"fail_dir"`
	Workers     int            `mapstructure:"workers"`
	Download    DownloadConfig `mapstructure:"download"`
	Parser      ParserConfig   `mapstructure:"parser"`
}

type DownloadConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// MirrorURL is a printf template taking the set id.
	MirrorURL   string        `mapstructure:"mirror_url"`
	RateLimit   int           `mapstructure:"rate_limit"` // requests per minute
	Concurrency int           `mapstructure:"concurrency"`
	MaxRetries  int           `mapstructure:"max_retries"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type ParserConfig struct {
	NumericBooleans  bool `mapstructure:"numeric_booleans"`
	DecodeHitObjects bool `mapstructure:"decode_hit_objects"`
}

// newViper returns a viper instance with every default set and the
// environment wired in. No config file is read yet.
func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("source_dir", "../")
	v.SetDefault("download_dir", "../../Songs")
	v.SetDefault("catalog_path", "beatmaps")
	v.SetDefault("db_path", "osuexport.db")
	v.SetDefault("fail_dir", "")
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("download.enabled", true)
	v.SetDefault("download.mirror_url", defaultMirrorURL)
	v.SetDefault("download.rate_limit", 30)
	v.SetDefault("download.concurrency", 2)
	v.SetDefault("download.max_retries", 5)
	v.SetDefault("download.timeout", 10*time.Minute)
	v.SetDefault("parser.numeric_booleans", false)
	v.SetDefault("parser.decode_hit_objects", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// readConfigFile loads cfgFile if given, otherwise looks for osuexport.{yaml,toml,json}
// in the working directory and the user config directory. A missing
// default file is not an error.
func readConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}

	v.SetConfigName(appName)
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, appName))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Download.Enabled {
		if c.Download.MirrorURL == "" {
			return errors.New("download.mirror_url is empty")
		}
		if c.Download.Concurrency < 1 {
			return fmt.Errorf("download.concurrency must be at least 1, got %d", c.Download.Concurrency)
		}
		if c.Download.RateLimit < 1 {
			return fmt.Errorf("download.rate_limit must be at least 1, got %d", c.Download.RateLimit)
		}
	}
	return nil
}
