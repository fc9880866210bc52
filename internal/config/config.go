package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// CredentialConfig holds one provider API key together with its limits.
type CredentialConfig struct {
	Key               string `mapstructure:"key"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"` // per-minute throughput limit
	DailyQuota        int    `mapstructure:"daily_quota"`         // requests per UTC day
}

// ProviderConfig holds the MT provider endpoint settings.
type ProviderConfig struct {
	Endpoint       string             `mapstructure:"endpoint"`
	AuthScheme     string             `mapstructure:"auth_scheme"` // e.g. "DeepL-Auth-Key"
	Model          string             `mapstructure:"model"`       // recorded on persisted translations
	RequestTimeout time.Duration      `mapstructure:"request_timeout"`
	Credentials    []CredentialConfig `mapstructure:"credentials"`
}

// SchedulerConfig controls how queued requests are coalesced into
// provider calls.
type SchedulerConfig struct {
	MaxBatchSize    int           `mapstructure:"max_batch_size"`    // distinct texts per provider call
	InterBatchDelay time.Duration `mapstructure:"inter_batch_delay"` // pause between provider rounds
}

// Config holds the full service configuration.
type Config struct {
	DefaultTargetLang string          `mapstructure:"default_target_lang"`
	SourceLang        string          `mapstructure:"source_lang"`
	DBPath            string          `mapstructure:"db_path"`
	GlossaryPath      string          `mapstructure:"glossary_path"`
	Debug             bool            `mapstructure:"debug"`
	Provider          ProviderConfig  `mapstructure:"provider"`
	Scheduler         SchedulerConfig `mapstructure:"scheduler"`
}

// Load reads configuration from the given file path, falling back to
// $HOME/.uitranslator.yaml and then the working directory. Environment
// variables prefixed with UITRANSLATOR_ override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".uitranslator")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("UITRANSLATOR")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file is fine: defaults plus environment apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// A single key may come from the environment instead of a file.
	if len(cfg.Provider.Credentials) == 0 {
		if key := v.GetString("provider_key"); key != "" {
			cfg.Provider.Credentials = []CredentialConfig{{
				Key:               key,
				RequestsPerMinute: v.GetInt("provider_rpm"),
				DailyQuota:        v.GetInt("provider_daily_quota"),
			}}
		}
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}

	return &cfg, nil
}

// NewDefault returns a configuration with all defaults applied and no
// credentials. Tests start from here.
func NewDefault() *Config {
	return &Config{
		DefaultTargetLang: "pt",
		SourceLang:        "en",
		DBPath:            defaultDBPath(),
		Provider: ProviderConfig{
			Endpoint:       "https://api-free.deepl.com/v2/translate",
			AuthScheme:     "DeepL-Auth-Key",
			Model:          "deepl-v2",
			RequestTimeout: 30 * time.Second,
		},
		Scheduler: SchedulerConfig{
			MaxBatchSize:    20,
			InterBatchDelay: 3 * time.Second,
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("default_target_lang", "pt")
	v.SetDefault("source_lang", "en")
	v.SetDefault("provider.endpoint", "https://api-free.deepl.com/v2/translate")
	v.SetDefault("provider.auth_scheme", "DeepL-Auth-Key")
	v.SetDefault("provider.model", "deepl-v2")
	v.SetDefault("provider.request_timeout", 30*time.Second)
	v.SetDefault("provider_rpm", 2)
	v.SetDefault("provider_daily_quota", 250)
	v.SetDefault("scheduler.max_batch_size", 20)
	v.SetDefault("scheduler.inter_batch_delay", 3*time.Second)
}

func defaultDBPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "uitranslator.db"
	}
	return filepath.Join(dir, "uitranslator", "translations.db")
}
