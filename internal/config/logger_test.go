package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{name: "debug", level: "debug", debugSeen: true, infoSeen: true},
		{name: "info", level: "info", debugSeen: false, infoSeen: true},
		{name: "error", level: "error", debugSeen: false, infoSeen: false},
		{name: "unknown falls back to info", level: "loud", debugSeen: false, infoSeen: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(LoggerConfig{Level: tt.level, Format: "json"}, &buf)

			logger.Debug().Msg("debug-line")
			logger.Info().Msg("info-line")

			assert.Equal(t, tt.debugSeen, bytes.Contains(buf.Bytes(), []byte("debug-line")))
			assert.Equal(t, tt.infoSeen, bytes.Contains(buf.Bytes(), []byte("info-line")))
		})
	}
}

func TestNewLogger_JSONCarriesAppField(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggerConfig{Level: "info", Format: "json"}, &buf)

	logger.Info().Str("order_id", "o-1").Msg("hello")

	assert.Contains(t, buf.String(), `"app":"menuhub"`)
	assert.Contains(t, buf.String(), `"order_id":"o-1"`)
}
