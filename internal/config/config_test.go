package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test, like
// testing.T.Chdir (Go 1.24+), which the module's Go 1.21 toolchain lacks.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "json", cfg.MemberStore.Driver)
	assert.Equal(t, "data/members.json", cfg.MemberStore.FilePath)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, time.Sunday, cfg.Schedule.LockedDay)
	assert.Equal(t, 24*time.Hour, cfg.Schedule.SessionTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
}

func TestLoad_MissingSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("MEMBER_STORE_DRIVER", "SQLite")
	t.Setenv("SCHEDULE_LOCKED_DAY", "Saturday")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.MemberStore.Driver)
	assert.Equal(t, time.Saturday, cfg.Schedule.LockedDay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "DEBUG", cfg.SlogLevel().String())
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"APP_PORT":             "eighty",
		"MEMBER_STORE_DRIVER":  "mongo",
		"SCHEDULE_LOCKED_DAY":  "someday",
		"SCHEDULE_SESSION_TTL": "forever",
		"STORAGE_TYPE":         "ftp",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv("JWT_SECRET_KEY", "test-secret")
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_PostgresNeedsPassword(t *testing.T) {
	cfg := &Config{
		JWT:         JWTConfig{Secret: "s", AccessExpiration: "1h"},
		MemberStore: MemberStoreConfig{Driver: "postgres"},
		Storage:     StorageConfig{Type: "local"},
		Schedule:    ScheduleConfig{SessionTTL: time.Hour, SweepEvery: time.Minute},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Password = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestLocation_FallsBackToKST(t *testing.T) {
	cfg := &Config{Schedule: ScheduleConfig{Timezone: "Nowhere/Invalid"}}
	loc := cfg.Location()

	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 9*60*60, offset)
}
