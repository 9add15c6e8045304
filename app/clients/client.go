package clients

import (
	"fmt"

	"GoSpamGuard/app/moderation"
)

// Interface is a platform connector: it subscribes to the moderation
// hub, feeds inbound messages to its engine and carries the engine's
// notifications back to the same platform.
type Interface interface {
	Subscribe(hub *moderation.Hub)
}

// Config defines the configuration for a platform connector.
type Config struct {
	Type    string            `yaml:"type" json:"type"`
	Enabled bool              `yaml:"enabled" json:"enabled"`
	Config  map[string]string `yaml:"config,omitempty" json:"config,omitempty"`
}

func CreateClient(cfg Config) (Interface, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("client %s is disabled", cfg.Type)
	}

	switch cfg.Type {
	case "telegram":
		return NewTelegramClientFromConfig(cfg.Config)
	case "discord":
		return NewDiscordClientFromConfig(cfg.Config)
	default:
		return nil, fmt.Errorf("unknown client type: %s", cfg.Type)
	}
}
