package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "json info", level: "info", format: "json"},
		{name: "text debug", level: "debug", format: "text"},
		{name: "upper case level", level: "WARN", format: "json"},
		{name: "bad level", level: "loud", format: "json", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewLogger(tt.level, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, log)
			log.With("component", "test").Debug("hello", "key", "value")
		})
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	log.Info("discarded", "n", 1)
	log.Error("discarded")
	assert.NoError(t, log.Sync())
}
