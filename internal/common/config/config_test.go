package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	a, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, a.Server.Port)
	assert.Equal(t, "demo", a.Payment.Mode)
	assert.Equal(t, "restaurant_system", a.Database.Name)
	assert.Equal(t, 5*time.Minute, a.Redis.TTL)
	assert.False(t, a.Rabbit.Enabled)
	assert.False(t, a.Orders.StrictTransitions)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	p := writeConfig(t, `
database:
  host: db.internal
  port: 6543
  user: kitchen
  password: secret
  database: orders
server:
  port: 4000
  public_url: https://table.example.com
rabbitmq:
  enabled: true
  host: mq.internal
orders:
  strict_transitions: true
`)
	t.Setenv("PORT", "8081")
	t.Setenv("RESTAURANT_REDIS_ENABLED", "true")

	a, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 8081, a.Server.Port)
	assert.Equal(t, "db.internal", a.Database.Host)
	assert.Equal(t, 6543, a.Database.Port)
	assert.Equal(t, "https://table.example.com", a.Server.PublicURL)
	assert.True(t, a.Rabbit.Enabled)
	assert.Equal(t, "notifications_fanout", a.Rabbit.Exchange)
	assert.True(t, a.Redis.Enabled)
	assert.True(t, a.Orders.StrictTransitions)
	assert.Equal(t,
		"host=db.internal port=6543 user=kitchen password=secret dbname=orders sslmode=disable",
		a.Database.DSN())
}

func TestLoadDatabaseURLWins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://u:p@h:5432/x")

	a, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h:5432/x", a.Database.DSN())
}

func TestLoadRejectsBadPaymentMode(t *testing.T) {
	p := writeConfig(t, "payment:\n  mode: stripe\n")

	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment.mode")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
