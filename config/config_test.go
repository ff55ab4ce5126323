package config

import (
	"testing"
	"time"

	customerrors "call-productivity/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := map[string]struct {
		env     map[string]string
		wantErr error
		check   func(*testing.T, *Config)
	}{
		"DefaultValues": {
			env: map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "es", cfg.Locale)
				assert.Equal(t, "UTC", cfg.Timezone)
				assert.Equal(t, time.UTC, cfg.Location)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Empty(t, cfg.LogFile)
				assert.Empty(t, cfg.MetricsAddr)
			},
		},
		"CustomValues": {
			env: map[string]string{
				"CALLPROD_LOCALE":   "EN",
				"CALLPROD_TIMEZONE": "America/Mexico_City",
				"CALLPROD_SHEET":    "Llamadas",
				"LOG_LEVEL":         "debug",
				"LOG_FILE":          "/tmp/callprod.log",
				"METRICS_ADDR":      ":9090",
				"PUSH_URL":          "http://localhost:9091",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "en", cfg.Locale)
				assert.Equal(t, "America/Mexico_City", cfg.Location.String())
				assert.Equal(t, "Llamadas", cfg.Sheet)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "/tmp/callprod.log", cfg.LogFile)
				assert.Equal(t, ":9090", cfg.MetricsAddr)
				assert.Equal(t, "http://localhost:9091", cfg.PushURL)
			},
		},
		"InvalidLocale": {
			env:     map[string]string{"CALLPROD_LOCALE": "fr"},
			wantErr: customerrors.ErrUnknownLocale,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"CALLPROD_LOCALE", "CALLPROD_TIMEZONE", "CALLPROD_SHEET", "LOG_LEVEL", "LOG_FILE", "METRICS_ADDR", "PUSH_URL"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("CALLPROD_LOCALE", "")
	t.Setenv("CALLPROD_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid CALLPROD_TIMEZONE")
}
