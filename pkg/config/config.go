package config

// Package config provides a reusable loader for xtc-engine configuration
// files and environment variables. It is versioned so that applications can
// depend on a stable API contract.
//
// Version: v0.1.0

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/psychedelic/xtc-engine/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config represents the unified configuration for an xtc-engine process. It
// mirrors the structure of the YAML files under cmd/config.
type Config struct {
	Engine struct {
		// Controller is the hex-encoded controller address (29 bytes),
		// the only caller permitted to Halt or FinishPendingTasks.
		Controller string `mapstructure:"controller" json:"controller"`
		// FlushThreshold is the head-bucket length that arms the
		// flusher; must strictly exceed ChunkSize.
		FlushThreshold int `mapstructure:"flush_threshold" json:"flush_threshold"`
		// ChunkSize is how many events the flusher migrates per tick.
		ChunkSize int `mapstructure:"chunk_size" json:"chunk_size"`
		// BucketEventCap bounds how many events a simulated bucket
		// holds before AppendTransactions starts failing. The CLI
		// treats 0 as unset and falls back to XTC_BUCKET_EVENT_CAP
		// (default 4096).
		BucketEventCap int `mapstructure:"bucket_event_cap" json:"bucket_event_cap"`
		// FeeFloor/FeeDivisor parametrize the production FlatRateFee.
		FeeFloor   uint64 `mapstructure:"fee_floor" json:"fee_floor"`
		FeeDivisor uint64 `mapstructure:"fee_divisor" json:"fee_divisor"`
	} `mapstructure:"engine" json:"engine"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv() // picks up from .env

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the XTC_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("XTC_ENV", ""))
}
