package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[server]
http_port = 9090

[database]
host = "localhost"
user = "barber"
password = "from-file"
dbname = "barbershop"

[auth]
issuer = "https://id.example.com/realms/barbershop"
jwt_secret = "secret"

[redis]
addr = "localhost:6379"

[booking]
timezone = "Europe/Moscow"
duration_policy = "sum"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "sum", cfg.Booking.DurationPolicy)
	assert.Equal(t, 7, cfg.Booking.AdvanceBookingDays)
	assert.Equal(t, 30, cfg.Booking.SessionTTLMinutes)
	assert.Equal(t, "barbershop.events", cfg.Events.Exchange)
	assert.Equal(t,
		"host=localhost port=5432 user=barber password=from-file dbname=barbershop sslmode=disable",
		cfg.Database.DSN())

	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing auth key",
			content: `
[database]
host = "h"
dbname = "d"
[redis]
addr = "r:6379"
`,
		},
		{
			name: "unknown duration policy",
			content: `
[database]
host = "h"
dbname = "d"
[auth]
jwt_secret = "s"
[redis]
addr = "r:6379"
[booking]
duration_policy = "avg"
`,
		},
		{
			name: "unknown timezone",
			content: `
[database]
host = "h"
dbname = "d"
[auth]
jwt_secret = "s"
[redis]
addr = "r:6379"
[booking]
timezone = "Mars/Olympus"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
