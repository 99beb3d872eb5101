// Package daemon holds the staffbot process configuration, loaded from a
// TOML file with sane defaults for every field.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full staffbot configuration.
type Config struct {
	Bot     BotConfig     `toml:"bot"`
	Rewards RewardsConfig `toml:"rewards"`
	Voice   VoiceConfig   `toml:"voice"`
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
}

// BotConfig configures the chat-surface identity and permission tiers.
type BotConfig struct {
	// TokenEnv names the environment variable holding the gateway token.
	// The token itself never lives in the config file.
	TokenEnv       string  `toml:"token_env"`
	Prefix         string  `toml:"prefix"`
	OwnerID        int64   `toml:"owner_id"`
	AdminIDs       []int64 `toml:"admin_ids"`
	AdminChannelID int64   `toml:"admin_channel_id"`
}

// RewardsConfig configures the message-reward path.
type RewardsConfig struct {
	MessageThreshold int   `toml:"message_threshold"`
	MessageReward    int64 `toml:"message_reward"`
	// Initial text-channel scope; admins mutate it at runtime.
	EnabledChannels  []string `toml:"enabled_channels"`
	DisabledChannels []string `toml:"disabled_channels"`
}

// VoiceConfig configures the voice-presence/AFK path.
type VoiceConfig struct {
	AFKChannelID     string   `toml:"afk_channel_id"`
	ActiveChannelIDs []string `toml:"active_channel_ids"`
	DisabledChannels []string `toml:"disabled_channels"`
	TickInterval     string   `toml:"tick_interval"`
	IdleThreshold    int      `toml:"idle_threshold"`
}

// APIConfig configures the ops HTTP server.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// StorageConfig configures persistence.
type StorageConfig struct {
	Path string `toml:"path"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Bot: BotConfig{
			TokenEnv: "STAFFBOT_TOKEN",
			Prefix:   ".",
		},
		Rewards: RewardsConfig{
			MessageThreshold: 5,
			MessageReward:    1,
		},
		Voice: VoiceConfig{
			TickInterval:  "1m",
			IdleThreshold: 5,
		},
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8421,
			Metrics: true,
		},
		Storage: StorageConfig{
			Path: defaultDBPath(),
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error — defaults apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the daemon cannot run with.
func (c Config) Validate() error {
	if c.Rewards.MessageThreshold < 1 {
		return fmt.Errorf("rewards.message_threshold must be >= 1, got %d", c.Rewards.MessageThreshold)
	}
	if c.Voice.IdleThreshold < 1 {
		return fmt.Errorf("voice.idle_threshold must be >= 1, got %d", c.Voice.IdleThreshold)
	}
	if _, err := time.ParseDuration(c.Voice.TickInterval); err != nil {
		return fmt.Errorf("voice.tick_interval: %w", err)
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("api.port out of range: %d", c.API.Port)
	}
	return nil
}

// TickIntervalDuration parses the voice tick interval, defaulting to one
// minute on any parse failure.
func (v VoiceConfig) TickIntervalDuration() time.Duration {
	d, err := time.ParseDuration(v.TickInterval)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// DefaultConfigPath returns ~/.staffbot/config.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".staffbot", "config.toml")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "staffbot.db"
	}
	return filepath.Join(home, ".staffbot", "staffbot.db")
}
