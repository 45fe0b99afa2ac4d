package sync

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/mattsolo1/grove-guru/pkg/models"
)

// Config holds the settings for syncing one Guru collection.
type Config struct {
	CollectionID       string `mapstructure:"collection_id"`
	UserEmail          string `mapstructure:"user_email"`
	UserToken          string `mapstructure:"user_token"`
	SourceDir          string `mapstructure:"source_dir"`
	PreferredContainer string `mapstructure:"preferred_container"`
	DataDir            string `mapstructure:"data_dir"`
	APIURL             string `mapstructure:"api_url"`
	RawCards           any    `mapstructure:"cards"`

	// Resolved by DecodeConfig.
	Rules     []models.CardRule    `mapstructure:"-"`
	Preferred models.ContainerType `mapstructure:"-"`
}

// DecodeConfig builds a Config from loosely typed settings, such as viper's
// AllSettings(). Card rules and the preferred container type are validated.
func DecodeConfig(settings map[string]any) (*Config, error) {
	var cfg Config
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode sync config: %w", err)
	}

	rules, err := models.DecodeCardRules(cfg.RawCards)
	if err != nil {
		return nil, fmt.Errorf("invalid 'cards' config: %w", err)
	}
	cfg.Rules = rules

	preferred := cfg.PreferredContainer
	if preferred == "" {
		preferred = models.ContainerBoardGroup.String()
	}
	cfg.Preferred, err = models.ParseContainerType(preferred)
	if err != nil {
		return nil, fmt.Errorf("invalid 'preferred_container' config: %w", err)
	}
	if cfg.Preferred == models.ContainerBoardSection {
		return nil, fmt.Errorf("invalid 'preferred_container' config: %s cannot be a top-level container", cfg.Preferred)
	}

	if cfg.SourceDir == "" {
		cfg.SourceDir = "."
	}
	return &cfg, nil
}

// Validate reports settings that are required for uploading.
func (c *Config) Validate() error {
	if c.CollectionID == "" {
		return fmt.Errorf("sync config missing 'collection_id' field")
	}
	if c.UserEmail == "" || c.UserToken == "" {
		return fmt.Errorf("sync config missing 'user_email' or 'user_token' field")
	}
	return nil
}
