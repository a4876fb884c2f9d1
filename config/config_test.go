package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/writeflow/pkg/retry"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, retry.DefaultConfig(), cfg.Retry)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"zero value", Config{}, false},
		{"negative timeout", Config{Timeout: -time.Second}, true},
		{"bad retry", Config{Retry: retry.Config{InitialDelay: -1}}, true},
		{"bad schema", Config{PayloadSchemas: map[string]string{"t": `{"required":`}}, true},
		{"schema for empty type", Config{PayloadSchemas: map[string]string{"": `{}`}}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_CompileSchemas(t *testing.T) {
	cfg := Config{
		PayloadSchemas: map[string]string{
			"user_profile_update": `{
				"type": "object",
				"required": ["id"],
				"properties": {"id": {"type": "integer"}}
			}`,
		},
	}

	schemas, err := cfg.CompileSchemas()
	require.NoError(t, err)
	require.Contains(t, schemas, "user_profile_update")

	none, err := Config{}.CompileSchemas()
	require.NoError(t, err)
	assert.Nil(t, none)
}
