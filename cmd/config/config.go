package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-guru/pkg/logging"
	"github.com/mattsolo1/grove-guru/pkg/models"
	"github.com/mattsolo1/grove-guru/pkg/sync"
)

// DefaultConfigName is looked up in the working directory when --config is not given.
const DefaultConfigName = "guru-sync"

var (
	cfgFile  string
	logLevel string
)

// InitConfig points viper at the config file, environment and defaults. A
// missing default config file is not an error.
func InitConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(DefaultConfigName)
	}

	viper.SetEnvPrefix("GURU")
	viper.AutomaticEnv()

	// Every key gets a default so environment-only settings show up in AllSettings.
	home, _ := os.UserHomeDir()
	viper.SetDefault("collection_id", "")
	viper.SetDefault("user_email", "")
	viper.SetDefault("user_token", "")
	viper.SetDefault("source_dir", ".")
	viper.SetDefault("preferred_container", models.ContainerBoardGroup.String())
	viper.SetDefault("data_dir", filepath.Join(home, ".local", "share", "guru-sync"))
	viper.SetDefault("api_url", "")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// LoadSyncConfig reads the sync settings. A relative source_dir is resolved
// against the config file's directory.
func LoadSyncConfig() (*sync.Config, error) {
	if err := InitConfig(); err != nil {
		return nil, err
	}

	cfg, err := sync.DecodeConfig(viper.AllSettings())
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.SourceDir) && viper.ConfigFileUsed() != "" {
		cfg.SourceDir = filepath.Join(filepath.Dir(viper.ConfigFileUsed()), cfg.SourceDir)
	}
	return cfg, nil
}

// NewLogger builds the progress logger from --log-level.
func NewLogger() (*logging.Logger, error) {
	level, err := logrus.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return logging.New(os.Stderr, level), nil
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./guru-sync.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Progress log level (trace, debug, info, warn)")
}
