// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Model   ModelConfig   `yaml:"model" mapstructure:"model"`
	Synth   SynthConfig   `yaml:"synth" mapstructure:"synth"`
	Train   TrainConfig   `yaml:"train" mapstructure:"train"`
	Predict PredictConfig `yaml:"predict" mapstructure:"predict"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ModelConfig addresses the current model artifact.
type ModelConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	Kind string `yaml:"kind" mapstructure:"kind"` // gbt or forest
}

// SynthConfig configures the development-only training data synthesizer.
type SynthConfig struct {
	Seed    int64 `yaml:"seed" mapstructure:"seed"`
	Samples int   `yaml:"samples" mapstructure:"samples"`
}

// TrainConfig configures the trainer.
type TrainConfig struct {
	TestSplit float64 `yaml:"test_split" mapstructure:"test_split"`
	KFolds    int     `yaml:"k_folds" mapstructure:"k_folds"`
}

// PredictConfig configures prediction output.
type PredictConfig struct {
	HorizonLabel string `yaml:"horizon_label" mapstructure:"horizon_label"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// StoreConfig configures the optional result store.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite or postgres
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HIRING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("model.path", "models/hiring.model")
	v.SetDefault("model.kind", "gbt")
	v.SetDefault("synth.seed", 42)
	v.SetDefault("synth.samples", 2000)
	v.SetDefault("train.test_split", 0.2)
	v.SetDefault("train.k_folds", 5)
	v.SetDefault("predict.horizon_label", "3 months")
	v.SetDefault("batch.workers", 1)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "hiring-radar.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
