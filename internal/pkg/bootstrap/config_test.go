package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.App.JWT.TTL)
	assert.Equal(t, "notifications", cfg.Infra.Kafka.Topics.Notifications)
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
app:
  port: 9000
  reminder_interval: 30s
infra:
  mysql:
    host: db.internal
    database: marketplace
  kafka:
    brokers: ["k1:9092"]
support:
  triage_rules:
    - name: account-lockout
      expression: 'category == "cuenta"'
      priority: high
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("MYSQL_PORT", "3307")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.App.ReminderInterval)
	assert.Equal(t, "db.internal", cfg.Infra.MySQL.Host)
	assert.Equal(t, 3307, cfg.Infra.MySQL.Port)
	assert.Equal(t, "marketplace", cfg.Infra.MySQL.Database)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Infra.Kafka.Brokers)
	// 未出现在 YAML 中的字段保留默认值
	assert.Equal(t, "chat-messages", cfg.Infra.Kafka.Topics.ChatMessages)
	require.Len(t, cfg.Support.TriageRules, 1)
	assert.Equal(t, "high", cfg.Support.TriageRules[0].Priority)
}

func TestLoadConfigRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestCurrentConfigSwap(t *testing.T) {
	prev := GetCurrentConfig()
	t.Cleanup(func() { SetCurrentConfig(prev) })

	next := DefaultConfig()
	next.App.SupportInbox = "ops@zirako.co"
	SetCurrentConfig(&next)

	assert.Equal(t, "ops@zirako.co", GetCurrentConfig().App.SupportInbox)
}
