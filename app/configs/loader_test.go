package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
classifier:
  api_key: secret
`))
	require.NoError(t, err)

	assert.Equal(t, "white_user.txt", cfg.AllowlistPath)
	assert.Equal(t, 70, cfg.SpamThreshold)
	assert.Equal(t, uint32(15), cfg.ReputationThreshold)
	assert.Equal(t, 250, cfg.MaxClassifyChars)
	assert.False(t, cfg.EchoHam)
	assert.Equal(t, "qwen/qwen-2.5-coder-32b-instruct", cfg.Classifier.Model)
	require.Len(t, cfg.Clients, 1)
	assert.Equal(t, "telegram", cfg.Clients[0].Type)
	assert.True(t, cfg.Clients[0].Enabled)
}

func TestLoadConfigFull(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
allowlist_path: data/white.txt
spam_threshold: 80
reputation_threshold: 3
echo_ham: true
mention: admin
notify_chat_id: -100123
max_classify_chars: 100
db_path: data/mod.db
classifier:
  base_url: http://localhost:1234
  api_key: secret
  model: test-model
clients:
  - type: telegram
    enabled: true
    config:
      token: abc
  - type: discord
    enabled: false
`))
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.SpamThreshold)
	assert.Equal(t, uint32(3), cfg.ReputationThreshold)
	assert.True(t, cfg.EchoHam)
	assert.Equal(t, int64(-100123), cfg.NotifyChatID)
	assert.Len(t, cfg.Clients, 2)
	assert.Equal(t, "abc", cfg.Clients[0].Config["token"])

	policy := cfg.Policy()
	assert.Equal(t, 80, policy.SpamThreshold)
	assert.Equal(t, uint32(3), policy.ReputationThreshold)
	assert.Equal(t, "admin", policy.Mention)
	assert.Equal(t, int64(-100123), policy.NotifyChatID)
	assert.Equal(t, 100, policy.MaxClassifyChars)
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("TEST_OPENROUTER_KEY", "from-env")
	cfg, err := LoadConfig(writeConfig(t, `
classifier:
  api_key: ${TEST_OPENROUTER_KEY}
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Classifier.APIKey)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("bad_yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "classifier: [oops"))
		require.Error(t, err)
	})

	t.Run("missing_api_key", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
classifier:
  model: m
`))
		require.Error(t, err)
	})

	t.Run("threshold_out_of_range", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
spam_threshold: 150
classifier:
  api_key: secret
`))
		require.Error(t, err)
	})
}
