package configs

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"GoSpamGuard/app/clients"
	"GoSpamGuard/app/moderation"
)

// Config is the process-wide moderation configuration. It is loaded
// once at startup and never reloaded.
type Config struct {
	AllowlistPath       string `yaml:"allowlist_path"`
	SpamThreshold       int    `yaml:"spam_threshold" validate:"min=0,max=100"`
	ReputationThreshold uint32 `yaml:"reputation_threshold" validate:"min=1"`
	EchoHam             bool   `yaml:"echo_ham"`
	Mention             string `yaml:"mention,omitempty"`
	NotifyChatID        int64  `yaml:"notify_chat_id,omitempty"`
	MaxClassifyChars    int    `yaml:"max_classify_chars" validate:"min=1"`
	DBPath              string `yaml:"db_path,omitempty"`

	Classifier ClassifierConfig `yaml:"classifier" validate:"required"`
	Clients    []clients.Config `yaml:"clients,omitempty" validate:"dive"`
}

type ClassifierConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"api_key" validate:"required"`
	Model   string `yaml:"model,omitempty"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configs file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AllowlistPath == "" {
		c.AllowlistPath = "white_user.txt"
	}
	if c.SpamThreshold == 0 {
		c.SpamThreshold = 70
	}
	if c.ReputationThreshold == 0 {
		c.ReputationThreshold = 15
	}
	if c.MaxClassifyChars == 0 {
		c.MaxClassifyChars = 250
	}
	if c.Classifier.Model == "" {
		c.Classifier.Model = "qwen/qwen-2.5-coder-32b-instruct"
	}
	if len(c.Clients) == 0 {
		// A bare config still runs the Telegram bot off the env token.
		c.Clients = []clients.Config{{Type: "telegram", Enabled: true}}
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate configs: %w", err)
	}
	return nil
}

// Policy maps the config onto the engine's immutable policy knobs.
func (c *Config) Policy() moderation.Policy {
	return moderation.Policy{
		SpamThreshold:       c.SpamThreshold,
		ReputationThreshold: c.ReputationThreshold,
		EchoHam:             c.EchoHam,
		Mention:             c.Mention,
		NotifyChatID:        c.NotifyChatID,
		MaxClassifyChars:    c.MaxClassifyChars,
	}
}
