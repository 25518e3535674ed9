package config

import (
	"testing"
	"time"

	"github.com/914h/BabImmob-sub000/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_MODE", "PORT", "LOG_LEVEL", "API_BASE_URL", "API_TIMEOUT_SECONDS",
		"DB_DRIVER", "DEV_DB_HOST", "DEV_DB_PORT", "PROD_DB_HOST",
		"AUTH_PERMITTED_ROLES", "SESSION_COOKIE_NAME", "SESSION_TTL_HOURS",
		"SESSION_REVALIDATE_SECONDS", "SESSION_SWEEP_SPEC", "UPLOAD_MAX_MB",
		"DEV_COOKIE_SECURE", "PROD_COOKIE_SECURE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, "babimmob_session", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Zero(t, cfg.Session.RevalidateEvery)
	assert.Equal(t, "@every 1h", cfg.Session.SweepSpec)
	assert.Equal(t, int64(8<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 350*time.Millisecond, cfg.Listing.SearchDebounce)

	assert.True(t, cfg.Session.PermittedRoles.Has(domain.RoleAdmin))
	assert.True(t, cfg.Session.PermittedRoles.Has(domain.RoleOwner))
	assert.True(t, cfg.Session.PermittedRoles.Has(domain.RoleClient))
	assert.False(t, cfg.Session.PermittedRoles.Has(domain.RoleAgent))
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_MODE", "prod")
	t.Setenv("API_BASE_URL", "https://api.babimmob.test/api/")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("PROD_DB_HOST", "db")
	t.Setenv("AUTH_PERMITTED_ROLES", "admin,agent")
	t.Setenv("SESSION_REVALIDATE_SECONDS", "30")
	t.Setenv("PROD_COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://api.babimmob.test/api", cfg.API.BaseURL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.True(t, cfg.Session.PermittedRoles.Has(domain.RoleAgent))
	assert.False(t, cfg.Session.PermittedRoles.Has(domain.RoleOwner))
	assert.Equal(t, "admin,agent", cfg.PermittedRolesCSV())
	assert.Equal(t, 30*time.Second, cfg.Session.RevalidateEvery)
	assert.True(t, cfg.Cookie.Secure)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"mode":                 {"APP_MODE": "staging"},
		"driver":               {"DB_DRIVER": "sqlite"},
		"roles":                {"AUTH_PERMITTED_ROLES": "admin,root"},
		"ttl":                  {"SESSION_TTL_HOURS": "-1"},
		"no api timeout":       {"API_TIMEOUT_SECONDS": "0"},
		"negative api timeout": {"API_TIMEOUT_SECONDS": "-5"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDialector(t *testing.T) {
	d, err := Dialector(DatabaseConfig{Driver: "postgres", Host: "h", Port: "5432", User: "u", DBName: "n"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = Dialector(DatabaseConfig{Driver: "mysql"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	_, err = Dialector(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
