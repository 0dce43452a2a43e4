package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    LoggerConfig
		wantError bool
	}{
		{"valid json", LoggerConfig{Level: "info", Format: "json", Output: "stdout"}, false},
		{"valid console debug", LoggerConfig{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"valid file output", LoggerConfig{Level: "warn", Format: "json", Output: "/tmp/pipeline.log"}, false},
		{"invalid level", LoggerConfig{Level: "invalid", Format: "json", Output: "stdout"}, true},
		{"invalid format", LoggerConfig{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"empty output", LoggerConfig{Level: "info", Format: "json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoggerConfig_IsProduction(t *testing.T) {
	assert.True(t, LoggerConfig{Level: "info", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "debug", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "info", Format: "console"}.IsProduction())
}

func TestLoggerConfig_IsFile(t *testing.T) {
	assert.False(t, LoggerConfig{Output: "stdout"}.IsFile())
	assert.False(t, LoggerConfig{Output: "stderr"}.IsFile())
	assert.True(t, LoggerConfig{Output: "logs/run.log"}.IsFile())
}
