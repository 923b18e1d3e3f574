// Package config loads process configuration through viper: defaults first,
// then an optional config file, then TGINFO_* environment variables, which
// win. Attribution strings ride along here so the response envelopes are
// parameterized rather than hard-coded.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the fully resolved application configuration.
type Config struct {
	Port      int
	LogLevel  string
	BotToken  string
	BotAPI    string
	CachePath string
	CacheTTL  time.Duration

	RateLimitPerSec  float64
	RateLimitBurst   int
	DefaultPhotoSize int

	APIOwner   string
	APIUpdates string
	Version    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Port", 8080)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("BotAPI", "")
	v.SetDefault("CachePath", "data/tginfo.db")
	v.SetDefault("CacheTTLSeconds", 600)
	v.SetDefault("RateLimitPerSec", 5.0)
	v.SetDefault("RateLimitBurst", 10)
	v.SetDefault("DefaultPhotoSize", 320)
	v.SetDefault("APIOwner", "@nkka404")
	v.SetDefault("APIUpdates", "t.me/premium_channel_404")
	v.SetDefault("Version", "2.0.0")
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply. BOT_TOKEN has no default; startup fails
// later without it.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TGINFO")
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:             v.GetInt("Port"),
		LogLevel:         v.GetString("LogLevel"),
		BotToken:         v.GetString("BotToken"),
		BotAPI:           v.GetString("BotAPI"),
		CachePath:        v.GetString("CachePath"),
		CacheTTL:         time.Duration(v.GetInt("CacheTTLSeconds")) * time.Second,
		RateLimitPerSec:  v.GetFloat64("RateLimitPerSec"),
		RateLimitBurst:   v.GetInt("RateLimitBurst"),
		DefaultPhotoSize: v.GetInt("DefaultPhotoSize"),
		APIOwner:         v.GetString("APIOwner"),
		APIUpdates:       v.GetString("APIUpdates"),
		Version:          v.GetString("Version"),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("config: invalid port %d", cfg.Port)
	}
	if cfg.DefaultPhotoSize <= 0 {
		return nil, fmt.Errorf("config: invalid default photo size %d", cfg.DefaultPhotoSize)
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("config: cache TTL must be positive")
	}
	return cfg, nil
}
